package menu

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/pkg/cache"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(s string) *string { return &s }

// --------------------------------------------------
// Mock repositories
// --------------------------------------------------

type mockMenuRepository struct {
	menus      map[string]*entities.Menu
	menuItems  map[string]*entities.MenuItem
	categories map[string]*entities.Category

	reordered      map[uuid.UUID]int
	batchUpdated   []*entities.MenuItem
	reorderWrites  int
	cascadeDeletes []string
	addItemErr     error
}

func newMockMenuRepository() *mockMenuRepository {
	return &mockMenuRepository{
		menus:      make(map[string]*entities.Menu),
		menuItems:  make(map[string]*entities.MenuItem),
		categories: make(map[string]*entities.Category),
	}
}

func (m *mockMenuRepository) CreateMenu(ctx context.Context, menu *entities.Menu) error {
	m.menus[menu.ID.String()] = menu
	return nil
}

func (m *mockMenuRepository) GetMenuByID(ctx context.Context, id string) (*entities.Menu, error) {
	menu, ok := m.menus[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	menu.Items = menu.Items[:0]
	for _, menuItem := range m.menuItems {
		if menuItem.MenuID.String() == id {
			menu.Items = append(menu.Items, *menuItem)
		}
	}
	return menu, nil
}

func (m *mockMenuRepository) GetMenuByName(ctx context.Context, restaurantID, nameEn string) (*entities.Menu, error) {
	for _, menu := range m.menus {
		if menu.RestaurantID.String() == restaurantID && menu.NameEn == nameEn {
			return menu, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMenuRepository) GetMenusByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Menu, error) {
	var out []*entities.Menu
	for _, id := range ids {
		if menu, ok := m.menus[id.String()]; ok {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (m *mockMenuRepository) GetMenus(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Menu, int64, error) {
	var out []*entities.Menu
	for _, menu := range m.menus {
		if menu.RestaurantID.String() == restaurantID {
			out = append(out, menu)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockMenuRepository) GetActiveMenus(ctx context.Context, restaurantID string) ([]*entities.Menu, error) {
	var out []*entities.Menu
	for _, menu := range m.menus {
		if menu.RestaurantID.String() == restaurantID && menu.IsActive {
			out = append(out, menu)
		}
	}
	return out, nil
}

func (m *mockMenuRepository) UpdateMenu(ctx context.Context, menu *entities.Menu) error {
	m.menus[menu.ID.String()] = menu
	return nil
}

func (m *mockMenuRepository) SoftDeleteMenuCascade(ctx context.Context, id string) error {
	m.cascadeDeletes = append(m.cascadeDeletes, id)
	delete(m.menus, id)
	for key, menuItem := range m.menuItems {
		if menuItem.MenuID.String() == id {
			delete(m.menuItems, key)
		}
	}
	return nil
}

func (m *mockMenuRepository) AddMenuItem(ctx context.Context, menuItem *entities.MenuItem) error {
	if m.addItemErr != nil {
		return m.addItemErr
	}
	m.menuItems[menuItem.ID.String()] = menuItem
	return nil
}

func (m *mockMenuRepository) GetMenuItemByID(ctx context.Context, id string) (*entities.MenuItem, error) {
	menuItem, ok := m.menuItems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return menuItem, nil
}

func (m *mockMenuRepository) GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.MenuItem, error) {
	var out []*entities.MenuItem
	for _, id := range ids {
		if menuItem, ok := m.menuItems[id.String()]; ok {
			out = append(out, menuItem)
		}
	}
	return out, nil
}

func (m *mockMenuRepository) FindMenuItemByRef(ctx context.Context, menuID string, itemID, recipeID, mealID *uuid.UUID) (*entities.MenuItem, error) {
	for _, menuItem := range m.menuItems {
		if menuItem.MenuID.String() != menuID {
			continue
		}
		if itemID != nil && menuItem.ItemID != nil && *menuItem.ItemID == *itemID {
			return menuItem, nil
		}
		if recipeID != nil && menuItem.RecipeID != nil && *menuItem.RecipeID == *recipeID {
			return menuItem, nil
		}
		if mealID != nil && menuItem.MealID != nil && *menuItem.MealID == *mealID {
			return menuItem, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMenuRepository) UpdateMenuItem(ctx context.Context, menuItem *entities.MenuItem) error {
	m.menuItems[menuItem.ID.String()] = menuItem
	return nil
}

func (m *mockMenuRepository) UpdateMenuItemsBatch(ctx context.Context, menuItems []*entities.MenuItem) error {
	m.batchUpdated = menuItems
	for _, menuItem := range menuItems {
		m.menuItems[menuItem.ID.String()] = menuItem
	}
	return nil
}

func (m *mockMenuRepository) DeleteMenuItem(ctx context.Context, id string) error {
	delete(m.menuItems, id)
	return nil
}

func (m *mockMenuRepository) ReorderMenuItems(ctx context.Context, menuID string, orders map[uuid.UUID]int) error {
	m.reorderWrites++
	m.reordered = orders
	for id, order := range orders {
		if menuItem, ok := m.menuItems[id.String()]; ok {
			menuItem.DisplayOrder = order
		}
	}
	return nil
}

func (m *mockMenuRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	m.categories[category.ID.String()] = category
	return nil
}

func (m *mockMenuRepository) GetCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (m *mockMenuRepository) GetCategories(ctx context.Context, restaurantID string) ([]*entities.Category, error) {
	var out []*entities.Category
	for _, category := range m.categories {
		if category.RestaurantID.String() == restaurantID {
			out = append(out, category)
		}
	}
	return out, nil
}

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

func (m *mockItemRepository) CreateItem(ctx context.Context, item *entities.Item) error { return nil }

func (m *mockItemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (m *mockItemRepository) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Item, error) {
	return nil, nil
}

func (m *mockItemRepository) GetItemByCode(ctx context.Context, restaurantID, code string) (*entities.Item, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockItemRepository) UpdateItem(ctx context.Context, item *entities.Item) error { return nil }

func (m *mockItemRepository) SoftDeleteItem(ctx context.Context, id string) error { return nil }

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
	return nil, nil
}

func (m *mockRecipeRepository) GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Recipe, int64, error) {
	return nil, 0, nil
}

func (m *mockRecipeRepository) GetRecipesWithLines(ctx context.Context, restaurantID string) ([]*entities.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepository) CreateRecipeWithLines(ctx context.Context, recipe *entities.Recipe) error {
	return nil
}

func (m *mockRecipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return nil
}

func (m *mockRecipeRepository) ReplaceRecipeLines(ctx context.Context, recipe *entities.Recipe, lines []entities.RecipeLine) error {
	return nil
}

func (m *mockRecipeRepository) SoftDeleteRecipe(ctx context.Context, id string) error { return nil }

func (m *mockRecipeRepository) CountMealComponentsForRecipe(ctx context.Context, recipeID string) (int64, error) {
	return 0, nil
}

type mockMealRepository struct {
	meals map[string]*entities.Meal
}

func newMockMealRepository(meals ...*entities.Meal) *mockMealRepository {
	m := &mockMealRepository{meals: make(map[string]*entities.Meal)}
	for _, meal := range meals {
		m.meals[meal.ID.String()] = meal
	}
	return m
}

func (m *mockMealRepository) GetMealByID(ctx context.Context, id string) (*entities.Meal, error) {
	meal, ok := m.meals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return meal, nil
}

func (m *mockMealRepository) GetMealByCode(ctx context.Context, restaurantID, code string) (*entities.Meal, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMealRepository) GetMealsByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Meal, error) {
	return nil, nil
}

func (m *mockMealRepository) GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]*entities.Meal, int64, error) {
	return nil, 0, nil
}

func (m *mockMealRepository) CreateMealWithComponents(ctx context.Context, meal *entities.Meal) error {
	return nil
}

func (m *mockMealRepository) UpdateMeal(ctx context.Context, meal *entities.Meal) error { return nil }

func (m *mockMealRepository) ReplaceMealComponents(ctx context.Context, meal *entities.Meal, components []entities.MealComponent) error {
	return nil
}

func (m *mockMealRepository) SoftDeleteMealCascade(ctx context.Context, id string) error { return nil }

func (m *mockMealRepository) CountMenuItemsForMeal(ctx context.Context, mealID string) (int64, error) {
	return 0, nil
}

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

var testRestaurantID = uuid.New()

func availableRecipe() *entities.Recipe {
	return &entities.Recipe{
		ID:           uuid.New(),
		RestaurantID: testRestaurantID,
		Code:         "RCP-001",
		NameEn:       "Bread",
		NameAr:       "خبز",
		TotalCost:    d("6.00"),
		SellingPrice: d("18.00"),
		IsAvailable:  true,
	}
}

func availableItem() *entities.Item {
	return &entities.Item{
		ID:           uuid.New(),
		RestaurantID: testRestaurantID,
		Code:         "FLR-001",
		NameEn:       "Flour",
		NameAr:       "طحين",
		UnitCost:     d("2.00"),
		CurrentStock: d("10"),
		Unit:         "kg",
		IsAvailable:  true,
	}
}

type fixture struct {
	svc      MenuService
	menuRepo *mockMenuRepository
}

func newFixture(items []*entities.Item, recipes []*entities.Recipe, meals []*entities.Meal) fixture {
	menuRepo := newMockMenuRepository()
	svc := NewMenuService(
		menuRepo,
		newMockItemRepository(items...),
		newMockRecipeRepository(recipes...),
		newMockMealRepository(meals...),
		cache.NewMemoryCache(),
		logging.NewNop(),
	)
	return fixture{svc: svc, menuRepo: menuRepo}
}

func (f fixture) createMenu(t *testing.T, name string) domain.MenuResponse {
	t.Helper()
	res, err := f.svc.CreateMenu(context.Background(), domain.CreateMenuRequest{
		NameEn: name,
		NameAr: "قائمة",
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error creating menu: %v", err)
	}
	return res
}

// --------------------------------------------------
// Pure helpers
// --------------------------------------------------

func TestEffectivePrice(t *testing.T) {
	rec := availableRecipe()
	special := d("9.99")

	withSpecial := &entities.MenuItem{RecipeID: &rec.ID, Recipe: rec, SpecialPrice: &special}
	if got := EffectivePrice(withSpecial); !got.Equal(special) {
		t.Fatalf("expected special price, got %s", got)
	}

	withoutSpecial := &entities.MenuItem{RecipeID: &rec.ID, Recipe: rec}
	if got := EffectivePrice(withoutSpecial); !got.Equal(d("18.00")) {
		t.Fatalf("expected recipe selling price, got %s", got)
	}

	it := availableItem()
	itemEntry := &entities.MenuItem{ItemID: &it.ID, Item: it}
	if got := EffectivePrice(itemEntry); !got.Equal(d("2.00")) {
		t.Fatalf("expected item unit cost fallback, got %s", got)
	}
}

func TestIsCurrentlyActive(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.AddDate(0, 0, -1)
	after := now.AddDate(0, 0, 1)

	cases := []struct {
		name string
		menu entities.Menu
		want bool
	}{
		{"inactive flag wins", entities.Menu{IsActive: false}, false},
		{"no bounds", entities.Menu{IsActive: true}, true},
		{"inside window", entities.Menu{IsActive: true, StartDate: &before, EndDate: &after}, true},
		{"before window", entities.Menu{IsActive: true, StartDate: &after}, false},
		{"after window", entities.Menu{IsActive: true, EndDate: &before}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCurrentlyActive(&tc.menu, now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// --------------------------------------------------
// Menu CRUD
// --------------------------------------------------

func TestCreateMenuDuplicateName(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.createMenu(t, "Summer")

	_, err := f.svc.CreateMenu(context.Background(), domain.CreateMenuRequest{
		NameEn: "Summer",
		NameAr: "قائمة",
	}, testRestaurantID.String())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateMenuRejectsInvertedWindow(t *testing.T) {
	f := newFixture(nil, nil, nil)

	_, err := f.svc.CreateMenu(context.Background(), domain.CreateMenuRequest{
		NameEn:    "Summer",
		NameAr:    "قائمة",
		StartDate: "2026-07-01",
		EndDate:   "2026-06-01",
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMenuRejectsBadDateFormat(t *testing.T) {
	f := newFixture(nil, nil, nil)

	_, err := f.svc.CreateMenu(context.Background(), domain.CreateMenuRequest{
		NameEn:    "Summer",
		NameAr:    "قائمة",
		StartDate: "01/07/2026",
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// --------------------------------------------------
// Menu entries
// --------------------------------------------------

func TestAddMenuItemExactlyOneReference(t *testing.T) {
	rec := availableRecipe()
	it := availableItem()
	f := newFixture([]*entities.Item{it}, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	_, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
		ItemID:   ptr(it.ID.String()),
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for two refs, got %v", err)
	}

	_, err = f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero refs, got %v", err)
	}
}

func TestAddMenuItemDuplicateReference(t *testing.T) {
	rec := availableRecipe()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	req := domain.AddMenuItemRequest{RecipeID: ptr(rec.ID.String())}
	if _, err := f.svc.AddMenuItem(context.Background(), menu.ID, req, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.AddMenuItem(context.Background(), menu.ID, req, testRestaurantID.String())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error for duplicate entry, got %v", err)
	}
}

func TestAddMenuItemUnavailableReferent(t *testing.T) {
	rec := availableRecipe()
	rec.IsAvailable = false
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	_, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if !domain.IsReference(err) {
		t.Fatalf("expected reference error for unavailable recipe, got %v", err)
	}
}

func TestAddMenuItemForeignTenantReferent(t *testing.T) {
	rec := availableRecipe()
	rec.RestaurantID = uuid.New()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	_, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if !domain.IsReference(err) {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func TestAddMenuItemConcurrentDuplicateHitsIndex(t *testing.T) {
	rec := availableRecipe()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	// A concurrent add of the same reference slips past the lookup and
	// fails on the partial unique index instead.
	f.menuRepo.addItemErr = gorm.ErrDuplicatedKey
	_, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error from index violation, got %v", err)
	}
}

func TestGetMenuCacheScopedPerTenant(t *testing.T) {
	f := newFixture(nil, nil, nil)
	menu := f.createMenu(t, "Summer")

	// The owner's reads warm the detail and stats caches.
	if _, err := f.svc.GetMenuByID(context.Background(), menu.ID, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.GetMenuStats(context.Background(), menu.ID, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foreign := uuid.NewString()
	if _, err := f.svc.GetMenuByID(context.Background(), menu.ID, foreign); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign tenant after cache warm, got %v", err)
	}
	if _, err := f.svc.GetMenuStats(context.Background(), menu.ID, foreign); !domain.IsNotFound(err) {
		t.Fatalf("expected not found stats for foreign tenant, got %v", err)
	}
}

func TestReorderMenuItemsRejectsForeignEntry(t *testing.T) {
	rec := availableRecipe()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")
	other := f.createMenu(t, "Winter")

	added, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foreign, err := f.svc.AddMenuItem(context.Background(), other.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.svc.ReorderMenuItems(context.Background(), menu.ID, domain.ReorderMenuItemsRequest{
		Items: []domain.ReorderEntry{
			{MenuItemID: added.ID, DisplayOrder: 1},
			{MenuItemID: foreign.ID, DisplayOrder: 2},
		},
	}, testRestaurantID.String())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Nothing may have been written.
	if f.menuRepo.reorderWrites != 0 {
		t.Fatal("expected no reorder write after validation failure")
	}
}

func TestReorderMenuItemsAppliesOrders(t *testing.T) {
	rec := availableRecipe()
	it := availableItem()
	f := newFixture([]*entities.Item{it}, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	first, _ := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()), DisplayOrder: 0,
	}, testRestaurantID.String())
	second, _ := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		ItemID: ptr(it.ID.String()), DisplayOrder: 1,
	}, testRestaurantID.String())

	err := f.svc.ReorderMenuItems(context.Background(), menu.ID, domain.ReorderMenuItemsRequest{
		Items: []domain.ReorderEntry{
			{MenuItemID: first.ID, DisplayOrder: 5},
			{MenuItemID: second.ID, DisplayOrder: 3},
		},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.menuRepo.menuItems[first.ID].DisplayOrder != 5 {
		t.Fatal("expected first entry reordered")
	}
	if f.menuRepo.menuItems[second.ID].DisplayOrder != 3 {
		t.Fatal("expected second entry reordered")
	}
}

func TestBulkUpdatePartitionsResults(t *testing.T) {
	rec := availableRecipe()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	added, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unavailable := false
	res, err := f.svc.BulkUpdateMenuItems(context.Background(), domain.BulkUpdateMenuItemsRequest{
		IDs:   []string{added.ID, uuid.NewString(), "not-a-uuid"},
		Patch: domain.MenuItemPatch{IsAvailable: &unavailable},
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Updated) != 1 || res.Updated[0] != added.ID {
		t.Fatalf("expected one update, got %v", res.Updated)
	}
	if len(res.Failed) != 2 {
		t.Fatalf("expected two failures, got %v", res.Failed)
	}
	if f.menuRepo.menuItems[added.ID].IsAvailable {
		t.Fatal("expected patched entry to be unavailable")
	}
}

func TestGetMenuStatsGroupsByCategory(t *testing.T) {
	rec := availableRecipe()
	it := availableItem()
	f := newFixture([]*entities.Item{it}, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	category, err := f.svc.CreateCategory(context.Background(), domain.CreateCategoryRequest{
		NameEn: "Bakery",
		NameAr: "مخبوزات",
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID:   ptr(rec.ID.String()),
		CategoryID: ptr(category.ID),
	}, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		ItemID: ptr(it.ID.String()),
	}, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := f.svc.GetMenuStats(context.Background(), menu.ID, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalItems != 2 || stats.AvailableItems != 2 {
		t.Fatalf("expected 2/2 items, got %d/%d", stats.TotalItems, stats.AvailableItems)
	}
	if stats.ByKind["recipe"] != 1 || stats.ByKind["item"] != 1 {
		t.Fatalf("unexpected kind counts: %v", stats.ByKind)
	}
	if len(stats.Categories) != 2 {
		t.Fatalf("expected 2 category buckets, got %d", len(stats.Categories))
	}

	byBucket := make(map[string]domain.CategoryPriceStats)
	for _, group := range stats.Categories {
		byBucket[group.CategoryID] = group
	}
	bakery := byBucket[category.ID]
	if bakery.Count != 1 || !bakery.MinPrice.Equal(d("18.00")) || !bakery.MaxPrice.Equal(d("18.00")) {
		t.Fatalf("unexpected bakery stats: %+v", bakery)
	}
	uncategorized := byBucket[domain.UncategorizedBucket]
	if uncategorized.Count != 1 || !uncategorized.AvgPrice.Equal(d("2.00")) {
		t.Fatalf("unexpected uncategorized stats: %+v", uncategorized)
	}
}

func TestGetMenuStatsEmptyMenu(t *testing.T) {
	f := newFixture(nil, nil, nil)
	menu := f.createMenu(t, "Summer")

	stats, err := f.svc.GetMenuStats(context.Background(), menu.ID, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalItems != 0 || len(stats.Categories) != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestGetActiveMenusFiltersByWindow(t *testing.T) {
	f := newFixture(nil, nil, nil)
	f.createMenu(t, "Evergreen")

	if _, err := f.svc.CreateMenu(context.Background(), domain.CreateMenuRequest{
		NameEn:    "Expired",
		NameAr:    "قائمة",
		StartDate: "2020-01-01",
		EndDate:   "2020-12-31",
	}, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	menus, err := f.svc.GetActiveMenus(context.Background(), testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(menus) != 1 || menus[0].NameEn != "Evergreen" {
		t.Fatalf("expected only the evergreen menu, got %+v", menus)
	}
}

func TestDeleteMenuCascades(t *testing.T) {
	rec := availableRecipe()
	f := newFixture(nil, []*entities.Recipe{rec}, nil)
	menu := f.createMenu(t, "Summer")

	added, err := f.svc.AddMenuItem(context.Background(), menu.ID, domain.AddMenuItemRequest{
		RecipeID: ptr(rec.ID.String()),
	}, testRestaurantID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.DeleteMenu(context.Background(), menu.ID, testRestaurantID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.menuRepo.menuItems[added.ID]; ok {
		t.Fatal("expected menu entries removed with the menu")
	}
}

func TestMenuTenantIsolation(t *testing.T) {
	f := newFixture(nil, nil, nil)
	menu := f.createMenu(t, "Summer")

	_, err := f.svc.GetMenuByID(context.Background(), menu.ID, uuid.NewString())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
}
