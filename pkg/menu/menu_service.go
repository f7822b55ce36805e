package menu

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/pkg/cache"
	"Mataam-Backoffice/pkg/item"
	"Mataam-Backoffice/pkg/meal"
	"Mataam-Backoffice/pkg/recipe"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type (
	MenuService interface {
		CreateMenu(ctx context.Context, req domain.CreateMenuRequest, restaurantID string) (domain.MenuResponse, error)
		UpdateMenu(ctx context.Context, id string, req domain.UpdateMenuRequest, restaurantID string) (domain.MenuResponse, error)
		DeleteMenu(ctx context.Context, id string, restaurantID string) error
		GetMenuByID(ctx context.Context, id string, restaurantID string) (domain.MenuResponse, error)
		GetMenus(ctx context.Context, restaurantID string, page, limit int) ([]domain.MenuResponse, int64, error)
		GetActiveMenus(ctx context.Context, restaurantID string) ([]domain.MenuResponse, error)

		AddMenuItem(ctx context.Context, menuID string, req domain.AddMenuItemRequest, restaurantID string) (domain.MenuItemResponse, error)
		UpdateMenuItem(ctx context.Context, menuItemID string, patch domain.MenuItemPatch, restaurantID string) (domain.MenuItemResponse, error)
		RemoveMenuItem(ctx context.Context, menuItemID string, restaurantID string) error
		ReorderMenuItems(ctx context.Context, menuID string, req domain.ReorderMenuItemsRequest, restaurantID string) error
		BulkUpdateMenuItems(ctx context.Context, req domain.BulkUpdateMenuItemsRequest, restaurantID string) (domain.BulkUpdateResult, error)

		GetMenuStats(ctx context.Context, menuID string, restaurantID string) (domain.MenuStatsResponse, error)

		CreateCategory(ctx context.Context, req domain.CreateCategoryRequest, restaurantID string) (domain.CategoryResponse, error)
		GetCategories(ctx context.Context, restaurantID string) ([]domain.CategoryResponse, error)
	}

	menuService struct {
		menuRepository   MenuRepository
		itemRepository   item.ItemRepository
		recipeRepository recipe.RecipeRepository
		mealRepository   meal.MealRepository
		cache            cache.Cache
		log              *logging.Logger
	}
)

func NewMenuService(
	menuRepository MenuRepository,
	itemRepository item.ItemRepository,
	recipeRepository recipe.RecipeRepository,
	mealRepository meal.MealRepository,
	c cache.Cache,
	log *logging.Logger,
) MenuService {
	return &menuService{
		menuRepository:   menuRepository,
		itemRepository:   itemRepository,
		recipeRepository: recipeRepository,
		mealRepository:   mealRepository,
		cache:            c,
		log:              log,
	}
}

// EffectivePrice resolves the price shown for a menu entry: the special
// price when one is set and positive, otherwise the underlying entity's
// selling price (an item entry falls back to its unit cost, items carry
// no selling price of their own). Used uniformly by every price range and
// stats computation.
func EffectivePrice(menuItem *entities.MenuItem) decimal.Decimal {
	if menuItem.SpecialPrice != nil && menuItem.SpecialPrice.IsPositive() {
		return *menuItem.SpecialPrice
	}
	switch {
	case menuItem.Recipe != nil:
		return menuItem.Recipe.SellingPrice
	case menuItem.Meal != nil:
		return menuItem.Meal.SellingPrice
	case menuItem.Item != nil:
		return menuItem.Item.UnitCost
	}
	return decimal.Zero
}

// IsCurrentlyActive is the pure time-window predicate: active flag set and
// now inside [StartDate, EndDate] where either bound may be absent.
func IsCurrentlyActive(menu *entities.Menu, now time.Time) bool {
	if !menu.IsActive {
		return false
	}
	if menu.StartDate != nil && now.Before(*menu.StartDate) {
		return false
	}
	if menu.EndDate != nil && now.After(*menu.EndDate) {
		return false
	}
	return true
}

func (s *menuService) CreateMenu(ctx context.Context, req domain.CreateMenuRequest, restaurantID string) (domain.MenuResponse, error) {
	restaurantUUID, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.MenuResponse{}, domain.ErrParseUUID
	}

	if _, err := s.menuRepository.GetMenuByName(ctx, restaurantID, req.NameEn); err == nil {
		return domain.MenuResponse{}, &domain.ConflictError{Entity: "menu", Field: "name_en", Value: req.NameEn}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MenuResponse{}, &domain.StoreError{Op: "menu.create", Err: err}
	}

	startDate, endDate, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		return domain.MenuResponse{}, err
	}

	menu := &entities.Menu{
		ID:           uuid.New(),
		RestaurantID: restaurantUUID,
		NameEn:       req.NameEn,
		NameAr:       req.NameAr,
		StartDate:    startDate,
		EndDate:      endDate,
		IsActive:     true,
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.menuRepository.CreateMenu(ctx, menu); err != nil {
		return domain.MenuResponse{}, &domain.StoreError{Op: "menu.create", Err: err}
	}

	s.invalidateMenu(ctx, menu)
	s.log.Info("menu.create", menu.ID.String())
	return s.toMenuResponse(menu, time.Now()), nil
}

func (s *menuService) UpdateMenu(ctx context.Context, id string, req domain.UpdateMenuRequest, restaurantID string) (domain.MenuResponse, error) {
	menu, err := s.getOwnedMenu(ctx, id, restaurantID)
	if err != nil {
		return domain.MenuResponse{}, err
	}

	if req.NameEn != "" && req.NameEn != menu.NameEn {
		if _, err := s.menuRepository.GetMenuByName(ctx, restaurantID, req.NameEn); err == nil {
			return domain.MenuResponse{}, &domain.ConflictError{Entity: "menu", Field: "name_en", Value: req.NameEn}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MenuResponse{}, &domain.StoreError{Op: "menu.update", Err: err}
		}
		menu.NameEn = req.NameEn
	}
	if req.NameAr != "" {
		menu.NameAr = req.NameAr
	}
	if req.StartDate != nil {
		menu.StartDate, err = parseOptionalDate(*req.StartDate, "start_date")
		if err != nil {
			return domain.MenuResponse{}, err
		}
	}
	if req.EndDate != nil {
		menu.EndDate, err = parseOptionalDate(*req.EndDate, "end_date")
		if err != nil {
			return domain.MenuResponse{}, err
		}
	}
	if menu.StartDate != nil && menu.EndDate != nil && menu.EndDate.Before(*menu.StartDate) {
		return domain.MenuResponse{}, &domain.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.menuRepository.UpdateMenu(ctx, menu); err != nil {
		return domain.MenuResponse{}, &domain.StoreError{Op: "menu.update", Err: err}
	}

	s.invalidateMenu(ctx, menu)
	s.log.Info("menu.update", menu.ID.String())
	return s.toMenuResponse(menu, time.Now()), nil
}

func (s *menuService) DeleteMenu(ctx context.Context, id string, restaurantID string) error {
	menu, err := s.getOwnedMenu(ctx, id, restaurantID)
	if err != nil {
		return err
	}

	if err := s.menuRepository.SoftDeleteMenuCascade(ctx, id); err != nil {
		return &domain.StoreError{Op: "menu.delete", Err: err}
	}

	s.invalidateMenu(ctx, menu)
	s.log.Info("menu.delete", id)
	return nil
}

func (s *menuService) GetMenuByID(ctx context.Context, id string, restaurantID string) (domain.MenuResponse, error) {
	key := cache.MenuDetailKey(restaurantID, id)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.MenuResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	menu, err := s.getOwnedMenu(ctx, id, restaurantID)
	if err != nil {
		return domain.MenuResponse{}, err
	}

	res := s.toMenuResponse(menu, time.Now())
	if raw, err := json.Marshal(res); err == nil {
		s.cache.Set(ctx, key, raw, cache.DetailTTL)
	}
	return res, nil
}

func (s *menuService) GetMenus(ctx context.Context, restaurantID string, page, limit int) ([]domain.MenuResponse, int64, error) {
	menus, count, err := s.menuRepository.GetMenus(ctx, restaurantID, page, limit)
	if err != nil {
		return nil, 0, &domain.StoreError{Op: "menu.list", Err: err}
	}

	now := time.Now()
	result := make([]domain.MenuResponse, 0, len(menus))
	for _, menu := range menus {
		result = append(result, s.toMenuResponse(menu, now))
	}
	return result, count, nil
}

func (s *menuService) GetActiveMenus(ctx context.Context, restaurantID string) ([]domain.MenuResponse, error) {
	key := cache.ActiveMenusKey(restaurantID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []domain.MenuResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	menus, err := s.menuRepository.GetActiveMenus(ctx, restaurantID)
	if err != nil {
		return nil, &domain.StoreError{Op: "menu.active", Err: err}
	}

	now := time.Now()
	result := make([]domain.MenuResponse, 0, len(menus))
	for _, menu := range menus {
		if !IsCurrentlyActive(menu, now) {
			continue
		}
		result = append(result, s.toMenuResponse(menu, now))
	}

	if raw, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, raw, cache.ListTTL)
	}
	return result, nil
}

func (s *menuService) AddMenuItem(ctx context.Context, menuID string, req domain.AddMenuItemRequest, restaurantID string) (domain.MenuItemResponse, error) {
	if _, err := s.getOwnedMenu(ctx, menuID, restaurantID); err != nil {
		return domain.MenuItemResponse{}, err
	}

	setCount := 0
	for _, ref := range []*string{req.ItemID, req.RecipeID, req.MealID} {
		if ref != nil {
			setCount++
		}
	}
	if setCount != 1 {
		return domain.MenuItemResponse{}, &domain.ValidationError{Field: "reference", Reason: "exactly one of item_id, recipe_id or meal_id must be set"}
	}
	if req.SpecialPrice != nil && req.SpecialPrice.IsNegative() {
		return domain.MenuItemResponse{}, &domain.ValidationError{Field: "special_price", Reason: "must not be negative"}
	}

	menuUUID, err := uuid.Parse(menuID)
	if err != nil {
		return domain.MenuItemResponse{}, domain.ErrParseUUID
	}

	menuItem := &entities.MenuItem{
		ID:            uuid.New(),
		MenuID:        menuUUID,
		DisplayOrder:  req.DisplayOrder,
		SpecialPrice:  req.SpecialPrice,
		IsAvailable:   true,
		IsRecommended: req.IsRecommended,
	}
	if req.IsAvailable != nil {
		menuItem.IsAvailable = *req.IsAvailable
	}

	if err := s.resolveMenuItemRef(ctx, menuItem, req, restaurantID); err != nil {
		return domain.MenuItemResponse{}, err
	}

	if req.CategoryID != nil {
		category, err := s.menuRepository.GetCategoryByID(ctx, *req.CategoryID)
		if err != nil || category.RestaurantID.String() != restaurantID {
			return domain.MenuItemResponse{}, &domain.ReferenceError{Kind: "category", ID: *req.CategoryID}
		}
		menuItem.CategoryID = &category.ID
	}

	if _, err := s.menuRepository.FindMenuItemByRef(ctx, menuID, menuItem.ItemID, menuItem.RecipeID, menuItem.MealID); err == nil {
		return domain.MenuItemResponse{}, &domain.ConflictError{Entity: "menu item", Field: "reference", Value: menuID}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.MenuItemResponse{}, &domain.StoreError{Op: "menu.add_item", Err: err}
	}

	if err := s.menuRepository.AddMenuItem(ctx, menuItem); err != nil {
		// Loser of a concurrent add of the same reference hits the
		// partial unique index rather than the lookup above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.MenuItemResponse{}, &domain.ConflictError{Entity: "menu item", Field: "reference", Value: menuID}
		}
		return domain.MenuItemResponse{}, &domain.StoreError{Op: "menu.add_item", Err: err}
	}

	s.invalidateMenuItems(ctx, menuID, restaurantID)
	s.log.Info("menu.add_item", menuItem.ID.String())
	return toMenuItemResponse(menuItem), nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, menuItemID string, patch domain.MenuItemPatch, restaurantID string) (domain.MenuItemResponse, error) {
	menuItem, menu, err := s.getOwnedMenuItem(ctx, menuItemID, restaurantID)
	if err != nil {
		return domain.MenuItemResponse{}, err
	}

	if err := s.applyMenuItemPatch(ctx, menuItem, patch, restaurantID); err != nil {
		return domain.MenuItemResponse{}, err
	}

	if err := s.menuRepository.UpdateMenuItem(ctx, menuItem); err != nil {
		return domain.MenuItemResponse{}, &domain.StoreError{Op: "menu.update_item", Err: err}
	}

	s.invalidateMenuItems(ctx, menu.ID.String(), restaurantID)
	s.log.Info("menu.update_item", menuItemID)
	return toMenuItemResponse(menuItem), nil
}

func (s *menuService) RemoveMenuItem(ctx context.Context, menuItemID string, restaurantID string) error {
	menuItem, menu, err := s.getOwnedMenuItem(ctx, menuItemID, restaurantID)
	if err != nil {
		return err
	}

	if err := s.menuRepository.DeleteMenuItem(ctx, menuItem.ID.String()); err != nil {
		return &domain.StoreError{Op: "menu.remove_item", Err: err}
	}

	s.invalidateMenuItems(ctx, menu.ID.String(), restaurantID)
	s.log.Info("menu.remove_item", menuItemID)
	return nil
}

// ReorderMenuItems validates that every supplied id belongs to the target
// menu before anything is written; the whole reorder then commits in a
// single transaction or not at all.
func (s *menuService) ReorderMenuItems(ctx context.Context, menuID string, req domain.ReorderMenuItemsRequest, restaurantID string) error {
	if _, err := s.getOwnedMenu(ctx, menuID, restaurantID); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	orders := make(map[uuid.UUID]int, len(req.Items))
	for _, entry := range req.Items {
		id, err := uuid.Parse(entry.MenuItemID)
		if err != nil {
			return &domain.ValidationError{Field: "menu_item_id", Reason: "must be a valid UUID"}
		}
		if _, dup := orders[id]; dup {
			return &domain.ValidationError{Field: "menu_item_id", Reason: "duplicate menu item in reorder"}
		}
		ids = append(ids, id)
		orders[id] = entry.DisplayOrder
	}

	menuItems, err := s.menuRepository.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return &domain.StoreError{Op: "menu.reorder", Err: err}
	}
	if len(menuItems) != len(ids) {
		return &domain.ValidationError{Field: "items", Reason: "one or more menu items do not belong to this menu"}
	}
	for _, menuItem := range menuItems {
		if menuItem.MenuID.String() != menuID {
			return &domain.ValidationError{Field: "items", Reason: "one or more menu items do not belong to this menu"}
		}
	}

	if err := s.menuRepository.ReorderMenuItems(ctx, menuID, orders); err != nil {
		return &domain.StoreError{Op: "menu.reorder", Err: err}
	}

	s.invalidateMenuItems(ctx, menuID, restaurantID)
	s.log.Info("menu.reorder", menuID)
	return nil
}

// BulkUpdateMenuItems is deliberately best-effort: unknown ids become
// per-entry failures instead of aborting the batch. The known rows are
// still written in one batch transaction.
func (s *menuService) BulkUpdateMenuItems(ctx context.Context, req domain.BulkUpdateMenuItemsRequest, restaurantID string) (domain.BulkUpdateResult, error) {
	result := domain.BulkUpdateResult{Updated: []string{}, Failed: []domain.BulkFailure{}}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			result.Failed = append(result.Failed, domain.BulkFailure{ID: raw, Reason: "invalid UUID"})
			continue
		}
		ids = append(ids, id)
	}

	menuItems, err := s.menuRepository.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return domain.BulkUpdateResult{}, &domain.StoreError{Op: "menu.bulk_update", Err: err}
	}

	byID := make(map[string]*entities.MenuItem, len(menuItems))
	menuIDs := make([]uuid.UUID, 0, len(menuItems))
	for _, menuItem := range menuItems {
		byID[menuItem.ID.String()] = menuItem
		menuIDs = append(menuIDs, menuItem.MenuID)
	}

	menus, err := s.menuRepository.GetMenusByIDs(ctx, menuIDs)
	if err != nil {
		return domain.BulkUpdateResult{}, &domain.StoreError{Op: "menu.bulk_update", Err: err}
	}
	ownedMenus := make(map[string]bool, len(menus))
	for _, menu := range menus {
		ownedMenus[menu.ID.String()] = menu.RestaurantID.String() == restaurantID
	}

	toWrite := make([]*entities.MenuItem, 0, len(menuItems))
	touchedMenus := make(map[string]struct{})
	for _, id := range ids {
		menuItem, ok := byID[id.String()]
		if !ok {
			result.Failed = append(result.Failed, domain.BulkFailure{ID: id.String(), Reason: "not found"})
			continue
		}
		if !ownedMenus[menuItem.MenuID.String()] {
			result.Failed = append(result.Failed, domain.BulkFailure{ID: id.String(), Reason: "not found"})
			continue
		}
		if err := s.applyMenuItemPatch(ctx, menuItem, req.Patch, restaurantID); err != nil {
			result.Failed = append(result.Failed, domain.BulkFailure{ID: id.String(), Reason: err.Error()})
			continue
		}
		toWrite = append(toWrite, menuItem)
		touchedMenus[menuItem.MenuID.String()] = struct{}{}
	}

	if len(toWrite) > 0 {
		if err := s.menuRepository.UpdateMenuItemsBatch(ctx, toWrite); err != nil {
			return domain.BulkUpdateResult{}, &domain.StoreError{Op: "menu.bulk_update", Err: err}
		}
		for _, menuItem := range toWrite {
			result.Updated = append(result.Updated, menuItem.ID.String())
		}
	}

	for menuID := range touchedMenus {
		s.invalidateMenuItems(ctx, menuID, restaurantID)
	}
	s.log.Info("menu.bulk_update", restaurantID)
	return result, nil
}

// GetMenuStats groups the menu's current entries by category (nil falls
// into the uncategorized bucket) and reduces effective prices per group.
// Empty groups report 0/0/0 rather than an error.
func (s *menuService) GetMenuStats(ctx context.Context, menuID string, restaurantID string) (domain.MenuStatsResponse, error) {
	key := cache.MenuStatsKey(restaurantID, menuID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached domain.MenuStatsResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	menu, err := s.getOwnedMenu(ctx, menuID, restaurantID)
	if err != nil {
		return domain.MenuStatsResponse{}, err
	}

	stats := domain.MenuStatsResponse{
		ByKind:     map[string]int{},
		Categories: []domain.CategoryPriceStats{},
	}

	grouped := make(map[string][]*entities.MenuItem)
	names := map[string]string{domain.UncategorizedBucket: domain.UncategorizedBucket}
	order := []string{}
	for i := range menu.Items {
		menuItem := &menu.Items[i]
		stats.TotalItems++
		if menuItem.IsAvailable {
			stats.AvailableItems++
		}
		stats.ByKind[menuItemKind(menuItem)]++

		bucket := domain.UncategorizedBucket
		if menuItem.CategoryID != nil {
			bucket = menuItem.CategoryID.String()
			if menuItem.Category != nil {
				names[bucket] = menuItem.Category.NameEn
			}
		}
		if _, seen := grouped[bucket]; !seen {
			order = append(order, bucket)
		}
		grouped[bucket] = append(grouped[bucket], menuItem)
	}

	for _, bucket := range order {
		group := grouped[bucket]
		groupStats := domain.CategoryPriceStats{
			CategoryID: bucket,
			NameEn:     names[bucket],
			MinPrice:   decimal.Zero,
			MaxPrice:   decimal.Zero,
			AvgPrice:   decimal.Zero,
		}

		sum := decimal.Zero
		for i, menuItem := range group {
			price := EffectivePrice(menuItem)
			sum = sum.Add(price)
			if i == 0 || price.LessThan(groupStats.MinPrice) {
				groupStats.MinPrice = price
			}
			if price.GreaterThan(groupStats.MaxPrice) {
				groupStats.MaxPrice = price
			}
			groupStats.Count++
			if menuItem.IsAvailable {
				groupStats.Available++
			}
		}
		if groupStats.Count > 0 {
			groupStats.AvgPrice = sum.Div(decimal.NewFromInt(int64(groupStats.Count))).Round(2)
		}
		stats.Categories = append(stats.Categories, groupStats)
	}

	if raw, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, key, raw, cache.StatsTTL)
	}
	return stats, nil
}

func (s *menuService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest, restaurantID string) (domain.CategoryResponse, error) {
	restaurantUUID, err := uuid.Parse(restaurantID)
	if err != nil {
		return domain.CategoryResponse{}, domain.ErrParseUUID
	}

	category := &entities.Category{
		ID:           uuid.New(),
		RestaurantID: restaurantUUID,
		NameEn:       req.NameEn,
		NameAr:       req.NameAr,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.menuRepository.CreateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, &domain.StoreError{Op: "category.create", Err: err}
	}

	s.log.Info("category.create", category.ID.String())
	return domain.CategoryResponse{
		ID:           category.ID.String(),
		NameEn:       category.NameEn,
		NameAr:       category.NameAr,
		DisplayOrder: category.DisplayOrder,
	}, nil
}

func (s *menuService) GetCategories(ctx context.Context, restaurantID string) ([]domain.CategoryResponse, error) {
	categories, err := s.menuRepository.GetCategories(ctx, restaurantID)
	if err != nil {
		return nil, &domain.StoreError{Op: "category.list", Err: err}
	}

	result := make([]domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, domain.CategoryResponse{
			ID:           category.ID.String(),
			NameEn:       category.NameEn,
			NameAr:       category.NameAr,
			DisplayOrder: category.DisplayOrder,
		})
	}
	return result, nil
}

// resolveMenuItemRef checks the referenced entity exists, belongs to the
// restaurant and is available, then pins the reference on the entity.
func (s *menuService) resolveMenuItemRef(ctx context.Context, menuItem *entities.MenuItem, req domain.AddMenuItemRequest, restaurantID string) error {
	switch {
	case req.ItemID != nil:
		it, err := s.itemRepository.GetItemByID(ctx, *req.ItemID)
		if err != nil || it.RestaurantID.String() != restaurantID || !it.IsAvailable {
			return &domain.ReferenceError{Kind: "item", ID: *req.ItemID}
		}
		menuItem.ItemID = &it.ID
		menuItem.Item = it
	case req.RecipeID != nil:
		rec, err := s.recipeRepository.GetRecipeByID(ctx, *req.RecipeID)
		if err != nil || rec.RestaurantID.String() != restaurantID || !rec.IsAvailable {
			return &domain.ReferenceError{Kind: "recipe", ID: *req.RecipeID}
		}
		menuItem.RecipeID = &rec.ID
		menuItem.Recipe = rec
	case req.MealID != nil:
		ml, err := s.mealRepository.GetMealByID(ctx, *req.MealID)
		if err != nil || ml.RestaurantID.String() != restaurantID || !ml.IsAvailable {
			return &domain.ReferenceError{Kind: "meal", ID: *req.MealID}
		}
		menuItem.MealID = &ml.ID
		menuItem.Meal = ml
	}
	return nil
}

func (s *menuService) applyMenuItemPatch(ctx context.Context, menuItem *entities.MenuItem, patch domain.MenuItemPatch, restaurantID string) error {
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			menuItem.CategoryID = nil
		} else {
			category, err := s.menuRepository.GetCategoryByID(ctx, *patch.CategoryID)
			if err != nil || category.RestaurantID.String() != restaurantID {
				return &domain.ReferenceError{Kind: "category", ID: *patch.CategoryID}
			}
			menuItem.CategoryID = &category.ID
		}
	}
	if patch.SpecialPrice != nil {
		if patch.SpecialPrice.IsNegative() {
			return &domain.ValidationError{Field: "special_price", Reason: "must not be negative"}
		}
		if patch.SpecialPrice.IsZero() {
			menuItem.SpecialPrice = nil
		} else {
			rounded := patch.SpecialPrice.Round(2)
			menuItem.SpecialPrice = &rounded
		}
	}
	if patch.IsAvailable != nil {
		menuItem.IsAvailable = *patch.IsAvailable
	}
	if patch.IsRecommended != nil {
		menuItem.IsRecommended = *patch.IsRecommended
	}
	return nil
}

func (s *menuService) getOwnedMenu(ctx context.Context, id string, restaurantID string) (*entities.Menu, error) {
	menu, err := s.menuRepository.GetMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "menu", ID: id}
		}
		return nil, &domain.StoreError{Op: "menu.get", Err: err}
	}
	if menu.RestaurantID.String() != restaurantID {
		return nil, &domain.NotFoundError{Entity: "menu", ID: id}
	}
	return menu, nil
}

func (s *menuService) getOwnedMenuItem(ctx context.Context, id string, restaurantID string) (*entities.MenuItem, *entities.Menu, error) {
	menuItem, err := s.menuRepository.GetMenuItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &domain.NotFoundError{Entity: "menu item", ID: id}
		}
		return nil, nil, &domain.StoreError{Op: "menu.get_item", Err: err}
	}

	menu, err := s.getOwnedMenu(ctx, menuItem.MenuID.String(), restaurantID)
	if err != nil {
		return nil, nil, &domain.NotFoundError{Entity: "menu item", ID: id}
	}
	return menuItem, menu, nil
}

func (s *menuService) invalidateMenu(ctx context.Context, menu *entities.Menu) {
	restaurantID := menu.RestaurantID.String()
	s.cache.Delete(ctx,
		cache.MenuDetailKey(restaurantID, menu.ID.String()),
		cache.MenuStatsKey(restaurantID, menu.ID.String()),
		cache.ActiveMenusKey(restaurantID),
	)
}

func (s *menuService) invalidateMenuItems(ctx context.Context, menuID string, restaurantID string) {
	s.cache.Delete(ctx,
		cache.MenuDetailKey(restaurantID, menuID),
		cache.MenuStatsKey(restaurantID, menuID),
		cache.ActiveMenusKey(restaurantID),
	)
}

func menuItemKind(menuItem *entities.MenuItem) string {
	switch {
	case menuItem.ItemID != nil:
		return "item"
	case menuItem.RecipeID != nil:
		return "recipe"
	case menuItem.MealID != nil:
		return "meal"
	}
	return "unknown"
}

func toMenuItemResponse(menuItem *entities.MenuItem) domain.MenuItemResponse {
	res := domain.MenuItemResponse{
		ID:             menuItem.ID.String(),
		Kind:           menuItemKind(menuItem),
		DisplayOrder:   menuItem.DisplayOrder,
		SpecialPrice:   menuItem.SpecialPrice,
		EffectivePrice: EffectivePrice(menuItem),
		IsAvailable:    menuItem.IsAvailable,
		IsRecommended:  menuItem.IsRecommended,
	}
	if menuItem.CategoryID != nil {
		categoryID := menuItem.CategoryID.String()
		res.CategoryID = &categoryID
	}
	switch {
	case menuItem.ItemID != nil:
		res.RefID = menuItem.ItemID.String()
		if menuItem.Item != nil {
			res.NameEn = menuItem.Item.NameEn
			res.NameAr = menuItem.Item.NameAr
		}
	case menuItem.RecipeID != nil:
		res.RefID = menuItem.RecipeID.String()
		if menuItem.Recipe != nil {
			res.NameEn = menuItem.Recipe.NameEn
			res.NameAr = menuItem.Recipe.NameAr
		}
	case menuItem.MealID != nil:
		res.RefID = menuItem.MealID.String()
		if menuItem.Meal != nil {
			res.NameEn = menuItem.Meal.NameEn
			res.NameAr = menuItem.Meal.NameAr
		}
	}
	return res
}

func (s *menuService) toMenuResponse(menu *entities.Menu, now time.Time) domain.MenuResponse {
	res := domain.MenuResponse{
		ID:                menu.ID.String(),
		NameEn:            menu.NameEn,
		NameAr:            menu.NameAr,
		IsActive:          menu.IsActive,
		IsCurrentlyActive: IsCurrentlyActive(menu, now),
	}
	if menu.StartDate != nil {
		res.StartDate = menu.StartDate.Format(dateLayout)
	}
	if menu.EndDate != nil {
		res.EndDate = menu.EndDate.Format(dateLayout)
	}
	for i := range menu.Items {
		res.Items = append(res.Items, toMenuItemResponse(&menu.Items[i]))
	}
	return res
}

func parseWindow(start, end string) (*time.Time, *time.Time, error) {
	startDate, err := parseOptionalDate(start, "start_date")
	if err != nil {
		return nil, nil, err
	}
	endDate, err := parseOptionalDate(end, "end_date")
	if err != nil {
		return nil, nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, nil, &domain.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	return startDate, endDate, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Reason: "must be formatted as YYYY-MM-DD"}
	}
	return &parsed, nil
}
