package domain

import (
	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateMenu      = "menu created successfully"
	MessageSuccessUpdateMenu      = "menu updated successfully"
	MessageSuccessDeleteMenu      = "menu deleted successfully"
	MessageSuccessGetMenus        = "success get menus"
	MessageSuccessGetMenu         = "success get menu detail"
	MessageSuccessAddMenuItem     = "menu item added successfully"
	MessageSuccessUpdateMenuItem  = "menu item updated successfully"
	MessageSuccessRemoveMenuItem  = "menu item removed successfully"
	MessageSuccessReorderMenu     = "menu items reordered successfully"
	MessageSuccessBulkUpdate      = "menu items bulk update processed"
	MessageSuccessMenuStats       = "success get menu stats"
	MessageSuccessActiveMenus     = "success get active menus"
	MessageSuccessCreateCategory  = "category created successfully"
	MessageSuccessGetCategories   = "success get categories"

	MessageFailedCreateMenu     = "failed to create menu"
	MessageFailedUpdateMenu     = "failed to update menu"
	MessageFailedDeleteMenu     = "failed to delete menu"
	MessageFailedGetMenus       = "failed to get menus"
	MessageFailedGetMenu        = "failed to get menu detail"
	MessageFailedAddMenuItem    = "failed to add menu item"
	MessageFailedUpdateMenuItem = "failed to update menu item"
	MessageFailedRemoveMenuItem = "failed to remove menu item"
	MessageFailedReorderMenu    = "failed to reorder menu items"
	MessageFailedBulkUpdate     = "failed to bulk update menu items"
	MessageFailedMenuStats      = "failed to get menu stats"
	MessageFailedActiveMenus    = "failed to get active menus"
	MessageFailedCreateCategory = "failed to create category"
	MessageFailedGetCategories  = "failed to get categories"
)

const UncategorizedBucket = "uncategorized"

type (
	CreateMenuRequest struct {
		NameEn    string `json:"name_en" validate:"required"`
		NameAr    string `json:"name_ar" validate:"required"`
		StartDate string `json:"start_date,omitempty"` // "2006-01-02", empty = no bound
		EndDate   string `json:"end_date,omitempty"`
		IsActive  *bool  `json:"is_active,omitempty"`
	}

	UpdateMenuRequest struct {
		NameEn    string  `json:"name_en,omitempty"`
		NameAr    string  `json:"name_ar,omitempty"`
		StartDate *string `json:"start_date,omitempty"` // nil = untouched, "" = clear
		EndDate   *string `json:"end_date,omitempty"`
		IsActive  *bool   `json:"is_active,omitempty"`
	}

	// AddMenuItemRequest references exactly one of ItemID, RecipeID, MealID.
	AddMenuItemRequest struct {
		CategoryID    *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
		ItemID        *string          `json:"item_id,omitempty" validate:"omitempty,uuid"`
		RecipeID      *string          `json:"recipe_id,omitempty" validate:"omitempty,uuid"`
		MealID        *string          `json:"meal_id,omitempty" validate:"omitempty,uuid"`
		DisplayOrder  int              `json:"display_order" validate:"min=0"`
		SpecialPrice  *decimal.Decimal `json:"special_price,omitempty"`
		IsAvailable   *bool            `json:"is_available,omitempty"`
		IsRecommended bool             `json:"is_recommended"`
	}

	MenuItemPatch struct {
		CategoryID    *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
		SpecialPrice  *decimal.Decimal `json:"special_price,omitempty"`
		IsAvailable   *bool            `json:"is_available,omitempty"`
		IsRecommended *bool            `json:"is_recommended,omitempty"`
	}

	ReorderEntry struct {
		MenuItemID   string `json:"menu_item_id" validate:"required,uuid"`
		DisplayOrder int    `json:"display_order" validate:"min=0"`
	}

	ReorderMenuItemsRequest struct {
		Items []ReorderEntry `json:"items" validate:"required,min=1,dive"`
	}

	BulkUpdateMenuItemsRequest struct {
		IDs   []string      `json:"ids" validate:"required,min=1,dive,uuid"`
		Patch MenuItemPatch `json:"patch"`
	}

	BulkFailure struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	}

	// BulkUpdateResult partitions a best-effort batch; partial success is
	// expected and callers react per entry.
	BulkUpdateResult struct {
		Updated []string      `json:"updated"`
		Failed  []BulkFailure `json:"failed"`
	}

	MenuItemResponse struct {
		ID             string           `json:"id"`
		Kind           string           `json:"kind"` // "item", "recipe" or "meal"
		RefID          string           `json:"ref_id"`
		NameEn         string           `json:"name_en"`
		NameAr         string           `json:"name_ar"`
		CategoryID     *string          `json:"category_id,omitempty"`
		DisplayOrder   int              `json:"display_order"`
		SpecialPrice   *decimal.Decimal `json:"special_price,omitempty"`
		EffectivePrice decimal.Decimal  `json:"effective_price"`
		IsAvailable    bool             `json:"is_available"`
		IsRecommended  bool             `json:"is_recommended"`
	}

	MenuResponse struct {
		ID                string             `json:"id"`
		NameEn            string             `json:"name_en"`
		NameAr            string             `json:"name_ar"`
		StartDate         string             `json:"start_date,omitempty"`
		EndDate           string             `json:"end_date,omitempty"`
		IsActive          bool               `json:"is_active"`
		IsCurrentlyActive bool               `json:"is_currently_active"`
		Items             []MenuItemResponse `json:"items,omitempty"`
	}

	CategoryPriceStats struct {
		CategoryID string          `json:"category_id"` // UncategorizedBucket for nil
		NameEn     string          `json:"name_en"`
		Count      int             `json:"count"`
		Available  int             `json:"available"`
		MinPrice   decimal.Decimal `json:"min_price"`
		MaxPrice   decimal.Decimal `json:"max_price"`
		AvgPrice   decimal.Decimal `json:"avg_price"`
	}

	MenuStatsResponse struct {
		TotalItems     int                  `json:"total_items"`
		AvailableItems int                  `json:"available_items"`
		ByKind         map[string]int       `json:"by_kind"`
		Categories     []CategoryPriceStats `json:"categories"`
	}

	CreateCategoryRequest struct {
		NameEn       string `json:"name_en" validate:"required"`
		NameAr       string `json:"name_ar" validate:"required"`
		DisplayOrder int    `json:"display_order" validate:"min=0"`
	}

	CategoryResponse struct {
		ID           string `json:"id"`
		NameEn       string `json:"name_en"`
		NameAr       string `json:"name_ar"`
		DisplayOrder int    `json:"display_order"`
	}
)
