package domain

import (
	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateRecipe = "recipe created successfully"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"
	MessageSuccessGetRecipes   = "success get recipes"
	MessageSuccessGetRecipe    = "success get recipe detail"
	MessageSuccessRecipeStats  = "success get recipe stats"

	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedRecipeStats  = "failed to get recipe stats"
)

type (
	RecipeLineRequest struct {
		ItemID   string          `json:"item_id" validate:"required,uuid"`
		Quantity decimal.Decimal `json:"quantity"`
	}

	CreateRecipeRequest struct {
		Code                   string              `json:"code" validate:"required"`
		NameEn                 string              `json:"name_en" validate:"required"`
		NameAr                 string              `json:"name_ar" validate:"required"`
		PreparationTimeMinutes int                 `json:"preparation_time_minutes" validate:"required,min=1,max=480"`
		Lines                  []RecipeLineRequest `json:"lines" validate:"required,min=1,dive"`
	}

	// UpdateRecipeRequest is a patch: nil slices/pointers leave the field
	// untouched. A non-nil Lines slice fully replaces the stored line set.
	// SellingPrice is a manual override and never triggers a recompute.
	UpdateRecipeRequest struct {
		NameEn                 string              `json:"name_en,omitempty"`
		NameAr                 string              `json:"name_ar,omitempty"`
		PreparationTimeMinutes *int                `json:"preparation_time_minutes,omitempty" validate:"omitempty,min=1,max=480"`
		SellingPrice           *decimal.Decimal    `json:"selling_price,omitempty"`
		IsAvailable            *bool               `json:"is_available,omitempty"`
		Lines                  []RecipeLineRequest `json:"lines,omitempty" validate:"omitempty,min=1,dive"`
	}

	RecipeCosts struct {
		TotalCost     decimal.Decimal `json:"total_cost"`
		TotalCalories decimal.Decimal `json:"total_calories"`
	}

	RecipeLineResponse struct {
		ID         string          `json:"id"`
		ItemID     string          `json:"item_id"`
		ItemNameEn string          `json:"item_name_en"`
		ItemNameAr string          `json:"item_name_ar"`
		Quantity   decimal.Decimal `json:"quantity"`
		Unit       string          `json:"unit"`
		UnitCost   decimal.Decimal `json:"unit_cost"`
		LineCost   decimal.Decimal `json:"line_cost"`
		InStock    bool            `json:"in_stock"`
	}

	RecipeResponse struct {
		ID                     string               `json:"id"`
		Code                   string               `json:"code"`
		NameEn                 string               `json:"name_en"`
		NameAr                 string               `json:"name_ar"`
		PreparationTimeMinutes int                  `json:"preparation_time_minutes"`
		TotalCost              decimal.Decimal      `json:"total_cost"`
		TotalCalories          decimal.Decimal      `json:"total_calories"`
		SellingPrice           decimal.Decimal      `json:"selling_price"`
		ProfitMargin           decimal.Decimal      `json:"profit_margin"`
		ImageURL               string               `json:"image_url,omitempty"`
		IsAvailable            bool                 `json:"is_available"`
		CanPrepare             bool                 `json:"can_prepare"`
		Lines                  []RecipeLineResponse `json:"lines,omitempty"`
	}

	RecipeStatsResponse struct {
		TotalRecipes     int64           `json:"total_recipes"`
		PreparableCount  int64           `json:"preparable_count"`
		AverageCost      decimal.Decimal `json:"average_cost"`
		AverageSelling   decimal.Decimal `json:"average_selling"`
		AverageMargin    decimal.Decimal `json:"average_margin"`
		AveragePrepTime  decimal.Decimal `json:"average_prep_time"`
		UnavailableCount int64           `json:"unavailable_count"`
	}
)
