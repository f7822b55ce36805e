package meal

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/pkg/cache"
	"Mataam-Backoffice/pkg/item"
	"Mataam-Backoffice/pkg/pricing"
	"Mataam-Backoffice/pkg/recipe"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	MealService interface {
		ComputeCosts(ctx context.Context, components []domain.MealComponentRequest, restaurantID string) (domain.MealCosts, error)
		CheckAvailability(meal *entities.Meal) bool
		CreateMeal(ctx context.Context, req domain.CreateMealRequest, restaurantID string) (domain.MealResponse, error)
		UpdateMeal(ctx context.Context, id string, req domain.UpdateMealRequest, restaurantID string) (domain.MealResponse, error)
		DeleteMeal(ctx context.Context, id string, restaurantID string) error
		GetMealByID(ctx context.Context, id string, restaurantID string) (domain.MealResponse, error)
		GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]domain.MealResponse, int64, error)
	}

	mealService struct {
		mealRepository   MealRepository
		recipeRepository recipe.RecipeRepository
		recipeService    recipe.RecipeService
		itemRepository   item.ItemRepository
		cache            cache.Cache
		policy           pricing.Policy
		log              *logging.Logger
	}

	// resolved holds the batch-fetched referents of a component list.
	resolved struct {
		recipes map[string]*entities.Recipe
		items   map[string]*entities.Item
	}
)

func NewMealService(
	mealRepository MealRepository,
	recipeRepository recipe.RecipeRepository,
	recipeService recipe.RecipeService,
	itemRepository item.ItemRepository,
	c cache.Cache,
	policy pricing.Policy,
	log *logging.Logger,
) MealService {
	return &mealService{
		mealRepository:   mealRepository,
		recipeRepository: recipeRepository,
		recipeService:    recipeService,
		itemRepository:   itemRepository,
		cache:            c,
		policy:           policy,
		log:              log,
	}
}

// ComputeCosts composes recipe costing results and direct item costs. A
// recipe component contributes quantity x the recipe's derived totals and
// its full preparation time (components are prepared in sequence); an item
// component contributes quantity x unit cost and no prep time.
func (s *mealService) ComputeCosts(ctx context.Context, components []domain.MealComponentRequest, restaurantID string) (domain.MealCosts, error) {
	refs, err := s.resolveComponents(ctx, components, restaurantID)
	if err != nil {
		return domain.MealCosts{}, err
	}

	costs := domain.MealCosts{TotalCost: decimal.Zero, TotalCalories: decimal.Zero}
	for _, component := range components {
		qty := component.Quantity.Round(3)
		if component.RecipeID != nil {
			rec := refs.recipes[*component.RecipeID]
			costs.TotalCost = costs.TotalCost.Add(pricing.LineCost(qty, rec.TotalCost))
			costs.TotalCalories = costs.TotalCalories.Add(qty.Mul(rec.TotalCalories).Round(2))
			costs.TotalPrepTimeMinutes += rec.PreparationTimeMinutes
		} else {
			it := refs.items[*component.ItemID]
			costs.TotalCost = costs.TotalCost.Add(pricing.LineCost(qty, it.UnitCost))
			costs.TotalCalories = costs.TotalCalories.Add(qty.Mul(it.CaloriesPerUnit).Round(2))
		}
	}
	return costs, nil
}

// CheckAvailability ANDs over the heterogeneous component list: recipe
// components need the recipe itself preparable, item components need
// sufficient stock. One unavailable constituent makes the meal unavailable.
func (s *mealService) CheckAvailability(meal *entities.Meal) bool {
	if len(meal.Components) == 0 {
		return false
	}
	for _, component := range meal.Components {
		switch {
		case component.RecipeID != nil:
			if component.Recipe == nil || !component.Recipe.IsAvailable {
				return false
			}
			if !s.recipeService.CheckAvailability(component.Recipe) {
				return false
			}
		case component.ItemID != nil:
			if component.Item == nil || component.Item.CurrentStock.LessThan(component.Quantity) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (s *mealService) CreateMeal(ctx context.Context, req domain.CreateMealRequest, restaurantID string) (domain.MealResponse, error) {
	if len(req.Components) == 0 {
		return domain.MealResponse{}, &domain.ValidationError{Field: "components", Reason: "at least one component is required"}
	}

	restaurantUUID, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.MealResponse{}, domain.ErrParseUUID
	}

	if _, err := s.mealRepository.GetMealByCode(ctx, restaurantID, req.Code); err == nil {
		return domain.MealResponse{}, &domain.ConflictError{Entity: "meal", Field: "code", Value: req.Code}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MealResponse{}, &domain.StoreError{Op: "meal.create", Err: err}
	}

	refs, err := s.resolveComponents(ctx, req.Components, restaurantID)
	if err != nil {
		return domain.MealResponse{}, err
	}

	meal := &entities.Meal{
		ID:           uuid.New(),
		RestaurantID: restaurantUUID,
		Code:         req.Code,
		NameEn:       req.NameEn,
		NameAr:       req.NameAr,
		IsAvailable:  true,
	}

	var costs domain.MealCosts
	meal.Components, costs = buildComponents(meal.ID, req.Components, refs)
	meal.TotalCost = costs.TotalCost
	meal.TotalCalories = costs.TotalCalories
	meal.PreparationTimeMinutes = costs.TotalPrepTimeMinutes
	meal.SellingPrice = s.policy.MealSellingPrice(meal.TotalCost)

	if err := s.mealRepository.CreateMealWithComponents(ctx, meal); err != nil {
		return domain.MealResponse{}, &domain.StoreError{Op: "meal.create", Err: err}
	}

	s.invalidate(ctx, meal)
	s.log.Info("meal.create", meal.ID.String())

	hydrateComponents(meal, refs)
	return s.toMealResponse(meal), nil
}

func (s *mealService) UpdateMeal(ctx context.Context, id string, req domain.UpdateMealRequest, restaurantID string) (domain.MealResponse, error) {
	meal, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.MealResponse{}, err
	}

	if req.NameEn != "" {
		meal.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		meal.NameAr = req.NameAr
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return domain.MealResponse{}, &domain.ValidationError{Field: "selling_price", Reason: "must not be negative"}
		}
		meal.SellingPrice = req.SellingPrice.Round(2)
	}
	if req.IsAvailable != nil {
		meal.IsAvailable = *req.IsAvailable
	}

	if req.Components != nil {
		if len(req.Components) == 0 {
			return domain.MealResponse{}, &domain.ValidationError{Field: "components", Reason: "at least one component is required"}
		}
		refs, err := s.resolveComponents(ctx, req.Components, restaurantID)
		if err != nil {
			return domain.MealResponse{}, err
		}

		components, costs := buildComponents(meal.ID, req.Components, refs)
		meal.TotalCost = costs.TotalCost
		meal.TotalCalories = costs.TotalCalories
		meal.PreparationTimeMinutes = costs.TotalPrepTimeMinutes

		if err := s.mealRepository.ReplaceMealComponents(ctx, meal, components); err != nil {
			return domain.MealResponse{}, &domain.StoreError{Op: "meal.update", Err: err}
		}
		meal.Components = components
		hydrateComponents(meal, refs)
	} else {
		if err := s.mealRepository.UpdateMeal(ctx, meal); err != nil {
			return domain.MealResponse{}, &domain.StoreError{Op: "meal.update", Err: err}
		}
	}

	s.invalidate(ctx, meal)
	s.log.Info("meal.update", meal.ID.String())
	return s.toMealResponse(meal), nil
}

func (s *mealService) DeleteMeal(ctx context.Context, id string, restaurantID string) error {
	meal, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return err
	}

	refs, err := s.mealRepository.CountMenuItemsForMeal(ctx, id)
	if err != nil {
		return &domain.StoreError{Op: "meal.delete", Err: err}
	}
	if refs > 0 {
		return &domain.DependencyError{Entity: "meal", ID: id, BlockedBy: "menu items"}
	}

	if err := s.mealRepository.SoftDeleteMealCascade(ctx, id); err != nil {
		return &domain.StoreError{Op: "meal.delete", Err: err}
	}

	s.invalidate(ctx, meal)
	s.log.Info("meal.delete", id)
	return nil
}

func (s *mealService) GetMealByID(ctx context.Context, id string, restaurantID string) (domain.MealResponse, error) {
	key := cache.MealDetailKey(restaurantID, id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.MealResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	meal, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.MealResponse{}, err
	}

	res := s.toMealResponse(meal)
	if raw, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, key, raw, cache.DetailTTL)
	}
	return res, nil
}

func (s *mealService) GetMeals(ctx context.Context, restaurantID string, page, limit int) ([]domain.MealResponse, int64, error) {
	meals, count, err := s.mealRepository.GetMeals(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "meal.list", Err: err}
	}

	result := make([]domain.MealResponse, 0, len(meals))
	for _, meal := range meals {
		result = append(result, s.toMealResponse(meal))
	}
	return result, count, nil
}

// resolveComponents enforces the exactly-one-of constraint on every
// component, then batch-fetches recipes and items. Any unresolved
// reference aborts with a ReferenceError.
func (s *mealService) resolveComponents(ctx context.Context, components []domain.MealComponentRequest, restaurantID string) (resolved, error) {
	refs := resolved{
		recipes: make(map[string]*entities.Recipe),
		items:   make(map[string]*entities.Item),
	}

	recipeIDs := make([]uuid.UUID, 0, len(components))
	itemIDs := make([]uuid.UUID, 0, len(components))
	for _, component := range components {
		if (component.RecipeID == nil) == (component.ItemID == nil) {
			return resolved{}, &domain.ValidationError{Field: "components", Reason: "exactly one of recipe_id or item_id must be set"}
		}
		if !component.Quantity.IsPositive() {
			return resolved{}, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}
		if component.RecipeID != nil {
			id, err := uuid.Parse(*component.RecipeID)
			if err != nil {
				return resolved{}, &domain.ValidationError{Field: "recipe_id", Reason: "must be a valid UUID"}
			}
			recipeIDs = append(recipeIDs, id)
		} else {
			id, err := uuid.Parse(*component.ItemID)
			if err != nil {
				return resolved{}, &domain.ValidationError{Field: "item_id", Reason: "must be a valid UUID"}
			}
			itemIDs = append(itemIDs, id)
		}
	}

	recipes, err := s.recipeRepository.GetRecipesByIDs(ctx, recipeIDs)
	if err != nil {
		return resolved{}, &domain.StoreError{Op: "meal.resolve_components", Err: err}
	}
	for _, rec := range recipes {
		if rec.RestaurantID.String() != restaurantID {
			continue
		}
		refs.recipes[rec.ID.String()] = rec
	}

	items, err := s.itemRepository.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		return resolved{}, &domain.StoreError{Op: "meal.resolve_components", Err: err}
	}
	for _, it := range items {
		if it.RestaurantID.String() != restaurantID {
			continue
		}
		refs.items[it.ID.String()] = it
	}

	for _, component := range components {
		if component.RecipeID != nil {
			if _, ok := refs.recipes[*component.RecipeID]; !ok {
				return resolved{}, &domain.ReferenceError{Kind: "recipe", ID: *component.RecipeID}
			}
		} else {
			if _, ok := refs.items[*component.ItemID]; !ok {
				return resolved{}, &domain.ReferenceError{Kind: "item", ID: *component.ItemID}
			}
		}
	}
	return refs, nil
}

func buildComponents(mealID uuid.UUID, reqs []domain.MealComponentRequest, refs resolved) ([]entities.MealComponent, domain.MealCosts) {
	components := make([]entities.MealComponent, 0, len(reqs))
	costs := domain.MealCosts{TotalCost: decimal.Zero, TotalCalories: decimal.Zero}

	for _, req := range reqs {
		qty := req.Quantity.Round(3)
		component := entities.MealComponent{
			ID:       uuid.New(),
			MealID:   mealID,
			Quantity: qty,
		}

		if req.RecipeID != nil {
			rec := refs.recipes[*req.RecipeID]
			component.RecipeID = &rec.ID
			component.CostSnapshot = pricing.LineCost(qty, rec.TotalCost)
			costs.TotalCalories = costs.TotalCalories.Add(qty.Mul(rec.TotalCalories).Round(2))
			costs.TotalPrepTimeMinutes += rec.PreparationTimeMinutes
		} else {
			it := refs.items[*req.ItemID]
			component.ItemID = &it.ID
			component.CostSnapshot = pricing.LineCost(qty, it.UnitCost)
			costs.TotalCalories = costs.TotalCalories.Add(qty.Mul(it.CaloriesPerUnit).Round(2))
		}
		costs.TotalCost = costs.TotalCost.Add(component.CostSnapshot)
		components = append(components, component)
	}
	return components, costs
}

func hydrateComponents(meal *entities.Meal, refs resolved) {
	for i := range meal.Components {
		if meal.Components[i].RecipeID != nil {
			meal.Components[i].Recipe = refs.recipes[meal.Components[i].RecipeID.String()]
		} else if meal.Components[i].ItemID != nil {
			meal.Components[i].Item = refs.items[meal.Components[i].ItemID.String()]
		}
	}
}

func (s *mealService) getOwned(ctx context.Context, id string, restaurantID string) (*entities.Meal, error) {
	meal, err := s.mealRepository.GetMealByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "meal", ID: id}
		}
		return nil, &domain.StoreError{Op: "meal.get", Err: err}
	}
	if meal.RestaurantID.String() != restaurantID {
		return nil, &domain.NotFoundError{Entity: "meal", ID: id}
	}
	return meal, nil
}

func (s *mealService) invalidate(ctx context.Context, meal *entities.Meal) {
	restaurantID := meal.RestaurantID.String()
	s.cache.Delete(ctx,
		cache.MealDetailKey(restaurantID, meal.ID.String()),
		cache.MealListKey(restaurantID),
		cache.ActiveMenusKey(restaurantID),
	)
}

func (s *mealService) toMealResponse(meal *entities.Meal) domain.MealResponse {
	res := domain.MealResponse{
		ID:                     meal.ID.String(),
		Code:                   meal.Code,
		NameEn:                 meal.NameEn,
		NameAr:                 meal.NameAr,
		PreparationTimeMinutes: meal.PreparationTimeMinutes,
		TotalCost:              meal.TotalCost,
		TotalCalories:          meal.TotalCalories,
		SellingPrice:           meal.SellingPrice,
		ProfitMargin:           pricing.ProfitMargin(meal.SellingPrice, meal.TotalCost),
		ImageURL:               meal.ImageURL,
		IsAvailable:            meal.IsAvailable,
		CanPrepare:             s.CheckAvailability(meal),
	}

	for _, component := range meal.Components {
		componentRes := domain.MealComponentResponse{
			ID:       component.ID.String(),
			Quantity: component.Quantity,
			Cost:     component.CostSnapshot,
		}
		if component.RecipeID != nil {
			componentRes.Kind = "recipe"
			componentRes.RefID = component.RecipeID.String()
			if component.Recipe != nil {
				componentRes.NameEn = component.Recipe.NameEn
				componentRes.NameAr = component.Recipe.NameAr
			}
		} else if component.ItemID != nil {
			componentRes.Kind = "item"
			componentRes.RefID = component.ItemID.String()
			if component.Item != nil {
				componentRes.NameEn = component.Item.NameEn
				componentRes.NameAr = component.Item.NameAr
			}
		}
		res.Components = append(res.Components, componentRes)
	}
	return res
}
