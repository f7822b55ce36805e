package recipe

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/internal/utils/storage"
	"Mataam-Backoffice/pkg/cache"
	"Mataam-Backoffice/pkg/item"
	"Mataam-Backoffice/pkg/pricing"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		ComputeCosts(ctx context.Context, lines []domain.RecipeLineRequest, restaurantID string) (domain.RecipeCosts, error)
		CheckAvailability(recipe *entities.Recipe) bool
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, restaurantID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, restaurantID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, restaurantID string) error
		GetRecipeByID(ctx context.Context, id string, restaurantID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeStats(ctx context.Context, restaurantID string) (domain.RecipeStatsResponse, error)
		UploadRecipeImage(ctx context.Context, id string, req domain.UploadItemImageRequest, restaurantID string) (string, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		itemRepository   item.ItemRepository
		cache            cache.Cache
		policy           pricing.Policy
		s3               storage.AwsS3
		log              *logging.Logger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	itemRepository item.ItemRepository,
	c cache.Cache,
	policy pricing.Policy,
	s3 storage.AwsS3,
	log *logging.Logger,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		itemRepository:   itemRepository,
		cache:            c,
		policy:           policy,
		s3:               s3,
		log:              log,
	}
}

// ComputeCosts is a pure read: one batch item fetch, exact decimal sums.
// An unknown or soft-deleted item id aborts the whole computation with a
// ReferenceError; a silently skipped line would corrupt the totals.
func (s *recipeService) ComputeCosts(ctx context.Context, lines []domain.RecipeLineRequest, restaurantID string) (domain.RecipeCosts, error) {
	items, err := s.resolveLineItems(ctx, lines, restaurantID)
	if err != nil {
		return domain.RecipeCosts{}, err
	}

	totalCost := decimal.Zero
	totalCalories := decimal.Zero
	for _, line := range lines {
		it := items[line.ItemID]
		qty := line.Quantity.Round(3)
		totalCost = totalCost.Add(pricing.LineCost(qty, it.UnitCost))
		totalCalories = totalCalories.Add(qty.Mul(it.CaloriesPerUnit).Round(2))
	}

	return domain.RecipeCosts{TotalCost: totalCost, TotalCalories: totalCalories}, nil
}

// CheckAvailability reports whether every line's item has enough stock for
// the line's quantity. Lines must be loaded with their items. A recipe
// without lines is vacuously preparable; creation rejects empty line sets,
// so the case never comes from the store.
func (s *recipeService) CheckAvailability(recipe *entities.Recipe) bool {
	for _, line := range recipe.Lines {
		if line.Item == nil {
			return false
		}
		if !line.Quantity.IsPositive() {
			return false
		}
		if line.Item.CurrentStock.LessThan(line.Quantity) {
			return false
		}
	}
	return true
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, restaurantID string) (domain.RecipeResponse, error) {
	if len(req.Lines) == 0 {
		return domain.RecipeResponse{}, &domain.ValidationError{Field: "lines", Reason: "at least one line is required"}
	}

	restaurantUUID, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if _, err := s.recipeRepository.GetRecipeByCode(ctx, restaurantID, req.Code); err == nil {
		return domain.RecipeResponse{}, &domain.ConflictError{Entity: "recipe", Field: "code", Value: req.Code}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecipeResponse{}, &domain.StoreError{Op: "recipe.create", Err: err}
	}

	items, err := s.resolveLineItems(ctx, req.Lines, restaurantID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:                     uuid.New(),
		RestaurantID:           restaurantUUID,
		Code:                   req.Code,
		NameEn:                 req.NameEn,
		NameAr:                 req.NameAr,
		PreparationTimeMinutes: req.PreparationTimeMinutes,
		IsAvailable:            true,
	}

	recipe.Lines, recipe.TotalCost, recipe.TotalCalories = buildLines(recipe.ID, req.Lines, items)
	recipe.SellingPrice = s.policy.RecipeSellingPrice(recipe.TotalCost)

	if err := s.recipeRepository.CreateRecipeWithLines(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, &domain.StoreError{Op: "recipe.create", Err: err}
	}

	s.invalidate(ctx, recipe)
	s.log.Info("recipe.create", recipe.ID.String())

	hydrateLineItems(recipe, items)
	return s.toRecipeResponse(recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, restaurantID string) (domain.RecipeResponse, error) {
	recipe, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.NameEn != "" {
		recipe.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		recipe.NameAr = req.NameAr
	}
	if req.PreparationTimeMinutes != nil {
		recipe.PreparationTimeMinutes = *req.PreparationTimeMinutes
	}
	if req.SellingPrice != nil {
		// Manual price override; intentionally decoupled from cost.
		if req.SellingPrice.IsNegative() {
			return domain.RecipeResponse{}, &domain.ValidationError{Field: "selling_price", Reason: "must not be negative"}
		}
		recipe.SellingPrice = req.SellingPrice.Round(2)
	}
	if req.IsAvailable != nil {
		recipe.IsAvailable = *req.IsAvailable
	}

	if req.Lines != nil {
		if len(req.Lines) == 0 {
			return domain.RecipeResponse{}, &domain.ValidationError{Field: "lines", Reason: "at least one line is required"}
		}
		items, err := s.resolveLineItems(ctx, req.Lines, restaurantID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}

		var lines []entities.RecipeLine
		lines, recipe.TotalCost, recipe.TotalCalories = buildLines(recipe.ID, req.Lines, items)

		if err := s.recipeRepository.ReplaceRecipeLines(ctx, recipe, lines); err != nil {
			return domain.RecipeResponse{}, &domain.StoreError{Op: "recipe.update", Err: err}
		}
		recipe.Lines = lines
		hydrateLineItems(recipe, items)
	} else {
		if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
			return domain.RecipeResponse{}, &domain.StoreError{Op: "recipe.update", Err: err}
		}
	}

	s.invalidate(ctx, recipe)
	s.log.Info("recipe.update", recipe.ID.String())
	return s.toRecipeResponse(recipe), nil
}

// DeleteRecipe soft-deletes. While any live meal references the recipe the
// call is rejected; recipes referenced by menus alone follow the same soft
// path, so MenuItem rows keep resolving.
func (s *recipeService) DeleteRecipe(ctx context.Context, id string, restaurantID string) error {
	recipe, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return err
	}

	refs, err := s.recipeRepository.CountMealComponentsForRecipe(ctx, id)
	if err != nil {
		return &domain.StoreError{Op: "recipe.delete", Err: err}
	}
	if refs > 0 {
		return &domain.DependencyError{Entity: "recipe", ID: id, BlockedBy: "meal components"}
	}

	if err := s.recipeRepository.SoftDeleteRecipe(ctx, id); err != nil {
		return &domain.StoreError{Op: "recipe.delete", Err: err}
	}

	s.invalidate(ctx, recipe)
	s.log.Info("recipe.delete", id)
	return nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string, restaurantID string) (domain.RecipeResponse, error) {
	key := cache.RecipeDetailKey(restaurantID, id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.RecipeResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	recipe, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	res := s.toRecipeResponse(recipe)
	if raw, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, key, raw, cache.DetailTTL)
	}
	return res, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, restaurantID string, page, limit int) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "recipe.list", Err: err}
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, s.toRecipeResponse(recipe))
	}
	return result, count, nil
}

func (s *recipeService) GetRecipeStats(ctx context.Context, restaurantID string) (domain.RecipeStatsResponse, error) {
	key := cache.RecipeStatsKey(restaurantID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.RecipeStatsResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	recipes, err := s.recipeRepository.GetRecipesWithLines(ctx, restaurantID)
	if err != nil {
		return domain.RecipeStatsResponse{}, &domain.StoreError{Op: "recipe.stats", Err: err}
	}

	stats := domain.RecipeStatsResponse{
		AverageCost:     decimal.Zero,
		AverageSelling:  decimal.Zero,
		AverageMargin:   decimal.Zero,
		AveragePrepTime: decimal.Zero,
	}
	stats.TotalRecipes = int64(len(recipes))

	if len(recipes) > 0 {
		sumCost := decimal.Zero
		sumSelling := decimal.Zero
		sumMargin := decimal.Zero
		sumPrep := decimal.Zero
		for _, recipe := range recipes {
			sumCost = sumCost.Add(recipe.TotalCost)
			sumSelling = sumSelling.Add(recipe.SellingPrice)
			sumMargin = sumMargin.Add(pricing.ProfitMargin(recipe.SellingPrice, recipe.TotalCost))
			sumPrep = sumPrep.Add(decimal.NewFromInt(int64(recipe.PreparationTimeMinutes)))
			if s.CheckAvailability(recipe) {
				stats.PreparableCount++
			}
			if !recipe.IsAvailable {
				stats.UnavailableCount++
			}
		}
		n := decimal.NewFromInt(stats.TotalRecipes)
		stats.AverageCost = sumCost.Div(n).Round(2)
		stats.AverageSelling = sumSelling.Div(n).Round(2)
		stats.AverageMargin = sumMargin.Div(n).Round(2)
		stats.AveragePrepTime = sumPrep.Div(n).Round(2)
	}

	if raw, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, key, raw, cache.StatsTTL)
	}
	return stats, nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, id string, req domain.UploadItemImageRequest, restaurantID string) (string, error) {
	recipe, err := s.getOwned(ctx, id, restaurantID)
	if err != nil {
		return "", err
	}

	url, err := s.s3.UploadImage(ctx, "recipes", req.Image)
	if err != nil {
		return "", err
	}

	recipe.ImageURL = url
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return "", &domain.StoreError{Op: "recipe.upload_image", Err: err}
	}

	s.cache.Delete(ctx, cache.RecipeDetailKey(restaurantID, id))
	s.log.Info("recipe.upload_image", id)
	return url, nil
}

// resolveLineItems batch-fetches the referenced items and validates each
// line. Every id must resolve to a live item of the same restaurant.
func (s *recipeService) resolveLineItems(ctx context.Context, lines []domain.RecipeLineRequest, restaurantID string) (map[string]*entities.Item, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}
		id, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, &domain.ValidationError{Field: "item_id", Reason: "must be a valid UUID"}
		}
		ids = append(ids, id)
	}

	items, err := s.itemRepository.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, &domain.StoreError{Op: "recipe.resolve_items", Err: err}
	}

	byID := make(map[string]*entities.Item, len(items))
	for _, it := range items {
		if it.RestaurantID.String() != restaurantID {
			continue
		}
		byID[it.ID.String()] = it
	}
	for _, line := range lines {
		if _, ok := byID[line.ItemID]; !ok {
			return nil, &domain.ReferenceError{Kind: "item", ID: line.ItemID}
		}
	}
	return byID, nil
}

func buildLines(recipeID uuid.UUID, reqs []domain.RecipeLineRequest, items map[string]*entities.Item) ([]entities.RecipeLine, decimal.Decimal, decimal.Decimal) {
	lines := make([]entities.RecipeLine, 0, len(reqs))
	totalCost := decimal.Zero
	totalCalories := decimal.Zero

	for _, req := range reqs {
		it := items[req.ItemID]
		qty := req.Quantity.Round(3)
		lineCost := pricing.LineCost(qty, it.UnitCost)

		lines = append(lines, entities.RecipeLine{
			ID:               uuid.New(),
			RecipeID:         recipeID,
			ItemID:           it.ID,
			Quantity:         qty,
			UnitCostSnapshot: it.UnitCost,
			LineCostSnapshot: lineCost,
		})
		totalCost = totalCost.Add(lineCost)
		totalCalories = totalCalories.Add(qty.Mul(it.CaloriesPerUnit).Round(2))
	}

	return lines, totalCost, totalCalories
}

func hydrateLineItems(recipe *entities.Recipe, items map[string]*entities.Item) {
	for i := range recipe.Lines {
		recipe.Lines[i].Item = items[recipe.Lines[i].ItemID.String()]
	}
}

func (s *recipeService) getOwned(ctx context.Context, id string, restaurantID string) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "recipe", ID: id}
		}
		return nil, &domain.StoreError{Op: "recipe.get", Err: err}
	}
	if recipe.RestaurantID.String() != restaurantID {
		return nil, &domain.NotFoundError{Entity: "recipe", ID: id}
	}
	return recipe, nil
}

// invalidate runs before a write returns to its caller: the detail key is
// dropped unconditionally, along with every aggregate the recipe can
// appear in.
func (s *recipeService) invalidate(ctx context.Context, recipe *entities.Recipe) {
	restaurantID := recipe.RestaurantID.String()
	s.cache.Delete(ctx,
		cache.RecipeDetailKey(restaurantID, recipe.ID.String()),
		cache.RecipeListKey(restaurantID),
		cache.RecipeStatsKey(restaurantID),
		cache.ActiveMenusKey(restaurantID),
	)
}

func (s *recipeService) toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:                     recipe.ID.String(),
		Code:                   recipe.Code,
		NameEn:                 recipe.NameEn,
		NameAr:                 recipe.NameAr,
		PreparationTimeMinutes: recipe.PreparationTimeMinutes,
		TotalCost:              recipe.TotalCost,
		TotalCalories:          recipe.TotalCalories,
		SellingPrice:           recipe.SellingPrice,
		ProfitMargin:           pricing.ProfitMargin(recipe.SellingPrice, recipe.TotalCost),
		ImageURL:               recipe.ImageURL,
		IsAvailable:            recipe.IsAvailable,
		CanPrepare:             s.CheckAvailability(recipe),
	}

	for _, line := range recipe.Lines {
		lineRes := domain.RecipeLineResponse{
			ID:       line.ID.String(),
			ItemID:   line.ItemID.String(),
			Quantity: line.Quantity,
			UnitCost: line.UnitCostSnapshot,
			LineCost: line.LineCostSnapshot,
		}
		if line.Item != nil {
			lineRes.ItemNameEn = line.Item.NameEn
			lineRes.ItemNameAr = line.Item.NameAr
			lineRes.Unit = line.Item.Unit
			lineRes.InStock = !line.Item.CurrentStock.LessThan(line.Quantity)
		}
		res.Lines = append(res.Lines, lineRes)
	}
	return res
}
