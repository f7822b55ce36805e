package meal

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/pkg/cache"
	"Mataam-Backoffice/pkg/pricing"
	"Mataam-Backoffice/pkg/recipe"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// --------------------------------------------------
// Mock repositories
// --------------------------------------------------

type mockItemRepository struct {
	items map[string]*entities.Item
}

func newMockItemRepository(items ...*entities.Item) *mockItemRepository {
	m := &mockItemRepository{items: make(map[string]*entities.Item)}
	for _, it := range items {
		m.items[it.ID.String()] = it
	}
	return m
}

func (m *mockItemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	m.items[item.ID.String()] = item
	return nil
}

func (m *mockItemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (m *mockItemRepository) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Item, error) {
	var out []*entities.Item
	for _, id := range ids {
		if it, ok := m.items[id.String()]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockItemRepository) GetItemByCode(ctx context.Context, restaurantID, code string) (*entities.Item, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockItemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return nil
}

func (m *mockItemRepository) SoftDeleteItem(ctx context.Context, id string) error {
	return nil
}

func (m *mockItemRepository) GetItems(ctx context.Context, restaurantID string, available *bool, page, limit int) ([]*entities.Item, int64, error) {
	return nil, 0, nil
}

func (m *mockItemRepository) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (*entities.Item, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockItemRepository) CountRecipeLinesForItem(ctx context.Context, itemID string) (int64, error) {
	return 0, nil
}

func (m *mockItemRepository) CountMealComponentsForItem(ctx context.Context, itemID string) (int64, error) {
	return 0, nil
}

func (m *mockItemRepository) GetLowStockItems(ctx context.Context, restaurantID string, threshold decimal.Decimal) ([]*entities.Item, error) {
	return nil, nil
}

type mockRecipeRepository struct {
	recipes map[string]*entities.Recipe
}

func newMockRecipeRepository(recipes ...*entities.Recipe) *mockRecipeRepository {
	m := &mockRecipeRepository{recipes: make(map[string]*entities.Recipe)}
	for _, rec := range recipes {
		m.recipes[rec.ID.String()] = rec
	}
	return m
}

func (m *mockRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	rec, ok := m.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rec, nil
}

func (m *mockRecipeRepository) GetRecipeByCode(ctx context.Context, restaurantID, code string) (*entities.Recipe, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecipeRepository) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Recipe, error) {
	var out []*entities.Recipe
	for _, id := range ids {
		if rec, ok := m.recipes[id.String()]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockRecipeRepository) GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Recipe, int64, error) {
	return nil, 0, nil
}

func (m *mockRecipeRepository) GetRecipesWithLines(ctx context.Context, restaurantID string) ([]*entities.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepository) CreateRecipeWithLines(ctx context.Context, recipe *entities.Recipe) error {
	m.recipes[recipe.ID.String()] = recipe
	return nil
}

func (m *mockRecipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return nil
}

func (m *mockRecipeRepository) ReplaceRecipeLines(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeLine) error {
	return nil
}

func (m *mockRecipeRepository) SoftDeleteRecipe(ctx context.Context, id string) error {
	return nil
}

func (m *mockRecipeRepository) CountMealComponentsForRecipe(ctx context.Context, recipeID string) (int64, error) {
	return 0, nil
}

type mockMealRepository struct {
	meals        map[string]*entities.Meal
	menuRefs     int64
	softDeleted  []string
	replacedWith []entities.MealComponent
}

func newMockMealRepository() *mockMealRepository {
	return &mockMealRepository{meals: make(map[string]*entities.Meal)}
}

func (m *mockMealRepository) GetMealByID(ctx context.Context, id string) (*entities.Meal, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return meal, nil
}

func (m *mockMealRepository) GetMealByCode(ctx context.Context, restaurantID, code string) (*entities.Meal, error) {
	for _, meal := range m.meals {
		if meal.RestaurantID.String() == restaurantID && meal.Code == code {
			return meal, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMealRepository) GetMealsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Meal, error) {
	var out []*entities.Meal
	for _, id := range ids {
		if meal, ok := m.meals[id.String()]; ok {
			out = append(out, meal)
		}
	}
	return out, nil
}

func (m *mockMealRepository) GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Meal, int64, error) {
	var out []*entities.Meal
	for _, meal := range m.meals {
		if meal.RestaurantID.String() == restaurantID {
			out = append(out, meal)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockMealRepository) CreateMealWithComponents(ctx context.Context, meal *entities.Meal) error {
	m.meals[meal.ID.String()] = meal
	return nil
}

func (m *mockMealRepository) UpdateMeal(ctx context.Context, meal *entities.Meal) error {
	m.meals[meal.ID.String()] = meal
	return nil
}

func (m *mockMealRepository) ReplaceMealComponents(ctx context.Context, meal *entities.Meal, components []entities.MealComponent) error {
	m.replacedWith = components
	meal.Components = components
	m.meals[meal.ID.String()] = meal
	return nil
}

func (m *mockMealRepository) SoftDeleteMealCascade(ctx context.Context, id string) error {
	m.softDeleted = append(m.softDeleted, id)
	delete(m.meals, id)
	return nil
}

func (m *mockMealRepository) CountMenuItemsForMeal(ctx context.Context, mealID string) (int64, error) {
	return m.menuRefs, nil
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

var testRestaurantID = uuid.New()

// breadRecipe costs 6.00 and needs 3 units of the flour item per batch.
func breadRecipe(flour *entities.Item) *entities.Recipe {
	rec := &entities.Recipe{
		ID:                     uuid.New(),
		RestaurantID:           testRestaurantID,
		Code:                   "RCP-001",
		NameEn:                 "Bread",
		NameAr:                 "خبز",
		PreparationTimeMinutes: 18,
		TotalCost:              d("6.00"),
		TotalCalories:          d("300"),
		SellingPrice:           d("18.00"),
		IsAvailable:            true,
	}
	rec.Lines = []entities.RecipeLine{
		{
			ID:               uuid.New(),
			RecipeID:         rec.ID,
			ItemID:           flour.ID,
			Quantity:         d("3"),
			UnitCostSnapshot: flour.UnitCost,
			LineCostSnapshot: d("6.00"),
			Item:             flour,
		},
	}
	return rec
}

func flourItem() *entities.Item {
	return &entities.Item{
		ID:              uuid.New(),
		RestaurantID:    testRestaurantID,
		Code:            "FLR-001",
		NameEn:          "Flour",
		NameAr:          "طحين",
		UnitCost:        d("2.00"),
		CaloriesPerUnit: d("100"),
		CurrentStock:    d("10"),
		Unit:            "kg",
		IsAvailable:     true,
	}
}

func newTestService(itemRepo *mockItemRepository, recipeRepo *mockRecipeRepository, mealRepo *mockMealRepository) MealService {
	recipeService := recipe.NewRecipeService(
		recipeRepo,
		itemRepo,
		cache.NewMemoryCache(),
		pricing.DefaultPolicy(),
		nil,
		logging.NewNop(),
	)
	return NewMealService(
		mealRepo,
		recipeRepo,
		recipeService,
		itemRepo,
		cache.NewMemoryCache(),
		pricing.DefaultPolicy(),
		logging.NewNop(),
	)
}

func ptr(s string) *string { return &s }

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestCreateMealComposesCosts(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	drink := flourItem()
	drink.ID = uuid.New()
	drink.Code = "DRK-001"
	drink.NameEn = "Juice"
	drink.UnitCost = d("1.50")
	drink.CaloriesPerUnit = d("50")

	svc := newTestService(
		newMockItemRepository(flour, drink),
		newMockRecipeRepository(rec),
		newMockMealRepository(),
	)

	res, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code:   "MEAL-001",
		NameEn: "Bread Combo",
		NameAr: "وجبة خبز",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("2")},
			{ItemID: ptr(drink.ID.String()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2*6.00 + 1*1.50
	if !res.TotalCost.Equal(d("13.50")) {
		t.Fatalf("expected total cost 13.50, got %s", res.TotalCost)
	}
	// 2*300 + 1*50
	if !res.TotalCalories.Equal(d("650")) {
		t.Fatalf("expected 650 calories, got %s", res.TotalCalories)
	}
	// Recipe components contribute their full prep time, item components none.
	if res.PreparationTimeMinutes != 18 {
		t.Fatalf("expected prep time 18, got %d", res.PreparationTimeMinutes)
	}
	// 13.50 * 2.5
	if !res.SellingPrice.Equal(d("33.75")) {
		t.Fatalf("expected selling price 33.75, got %s", res.SellingPrice)
	}
	if len(res.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(res.Components))
	}
}

func TestCreateMealExactlyOneReference(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	svc := newTestService(
		newMockItemRepository(flour),
		newMockRecipeRepository(rec),
		newMockMealRepository(),
	)

	both := domain.MealComponentRequest{
		RecipeID: ptr(rec.ID.String()),
		ItemID:   ptr(flour.ID.String()),
		Quantity: d("1"),
	}
	_, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{both},
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error when both refs set, got %v", err)
	}

	neither := domain.MealComponentRequest{Quantity: d("1")}
	_, err = svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{neither},
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error when no ref set, got %v", err)
	}
}

func TestCreateMealUnknownRecipe(t *testing.T) {
	svc := newTestService(
		newMockItemRepository(),
		newMockRecipeRepository(),
		newMockMealRepository(),
	)

	_, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(uuid.NewString()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if !domain.IsReference(err) {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestMealAvailabilityFollowsRecipeStock(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	svc := newTestService(
		newMockItemRepository(flour),
		newMockRecipeRepository(rec),
		newMockMealRepository(),
	)

	meal := &entities.Meal{
		Components: []entities.MealComponent{
			{RecipeID: &rec.ID, Quantity: d("1"), Recipe: rec},
		},
	}

	if !svc.CheckAvailability(meal) {
		t.Fatal("expected meal available while recipe is preparable")
	}

	// Dropping the shared item's stock below the recipe's needs flips the
	// recipe, and with it the meal.
	flour.CurrentStock = d("2")
	if svc.CheckAvailability(meal) {
		t.Fatal("expected meal unavailable once recipe lost stock")
	}
}

func TestMealAvailabilityItemComponentStock(t *testing.T) {
	drink := flourItem()
	svc := newTestService(
		newMockItemRepository(drink),
		newMockRecipeRepository(),
		newMockMealRepository(),
	)

	meal := &entities.Meal{
		Components: []entities.MealComponent{
			{ItemID: &drink.ID, Quantity: d("4"), Item: drink},
		},
	}

	if !svc.CheckAvailability(meal) {
		t.Fatal("expected meal available with stock 10 and quantity 4")
	}

	drink.CurrentStock = d("3")
	if svc.CheckAvailability(meal) {
		t.Fatal("expected meal unavailable with stock 3 and quantity 4")
	}
}

func TestMealAvailabilityEmptyComponents(t *testing.T) {
	svc := newTestService(newMockItemRepository(), newMockRecipeRepository(), newMockMealRepository())

	if svc.CheckAvailability(&entities.Meal{}) {
		t.Fatal("expected meal without components to be unavailable")
	}
}

func TestDeleteMealBlockedByMenuReferences(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	mealRepo := newMockMealRepository()
	svc := newTestService(newMockItemRepository(flour), newMockRecipeRepository(rec), mealRepo)

	res, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mealRepo.menuRefs = 1
	err = svc.DeleteMeal(context.Background(), res.ID, testRestaurantID.String())
	if !domain.IsDependency(err) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	mealRepo.menuRefs = 0
	if err := svc.DeleteMeal(context.Background(), res.ID, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mealRepo.softDeleted) != 1 {
		t.Fatal("expected cascade soft delete")
	}
}

func TestUpdateMealReplacesComponents(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	mealRepo := newMockMealRepository()
	svc := newTestService(newMockItemRepository(flour), newMockRecipeRepository(rec), mealRepo)

	res, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateMeal(context.Background(), res.ID, domain.UpdateMealRequest{
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("3")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.TotalCost.Equal(d("18.00")) {
		t.Fatalf("expected recomputed cost 18.00, got %s", updated.TotalCost)
	}
	if len(mealRepo.replacedWith) != 1 {
		t.Fatalf("expected component replacement, got %d", len(mealRepo.replacedWith))
	}
}

func TestComputeCostsSequentialPrepTime(t *testing.T) {
	flour := flourItem()
	first := breadRecipe(flour)
	second := breadRecipe(flour)
	second.ID = uuid.New()
	second.Code = "RCP-002"
	second.PreparationTimeMinutes = 7

	svc := newTestService(
		newMockItemRepository(flour),
		newMockRecipeRepository(first, second),
		newMockMealRepository(),
	)

	costs, err := svc.ComputeCosts(context.Background(), []domain.MealComponentRequest{
		{RecipeID: ptr(first.ID.String()), Quantity: d("1")},
		{RecipeID: ptr(second.ID.String()), Quantity: d("2")},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Prep times add once per component regardless of quantity.
	if costs.TotalPrepTimeMinutes != 25 {
		t.Fatalf("expected 25 minutes, got %d", costs.TotalPrepTimeMinutes)
	}
	// 1*6.00 + 2*6.00
	if !costs.TotalCost.Equal(d("18.00")) {
		t.Fatalf("expected 18.00, got %s", costs.TotalCost)
	}
}

func TestGetMealCacheScopedPerTenant(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	svc := newTestService(newMockItemRepository(flour), newMockRecipeRepository(rec), newMockMealRepository())

	res, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The owner's read warms the detail cache.
	if _, err := svc.GetMealByID(context.Background(), res.ID, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetMealByID(context.Background(), res.ID, uuid.NewString())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign tenant after cache warm, got %v", err)
	}
}

func TestMealTenantIsolation(t *testing.T) {
	flour := flourItem()
	rec := breadRecipe(flour)
	svc := newTestService(newMockItemRepository(flour), newMockRecipeRepository(rec), newMockMealRepository())

	res, err := svc.CreateMeal(context.Background(), domain.CreateMealRequest{
		Code: "MEAL-001", NameEn: "Combo", NameAr: "وجبة",
		Components: []domain.MealComponentRequest{
			{RecipeID: ptr(rec.ID.String()), Quantity: d("1")},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetMealByID(context.Background(), res.ID, uuid.NewString())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}
