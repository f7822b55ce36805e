package domain

import (
	"github.com/shopspring/decimal"
)

var (
	MessageSuccessCreateMeal = "meal created successfully"
	MessageSuccessUpdateMeal = "meal updated successfully"
	MessageSuccessDeleteMeal = "meal deleted successfully"
	MessageSuccessGetMeals   = "success get meals"
	MessageSuccessGetMeal    = "success get meal detail"

	MessageFailedCreateMeal = "failed to create meal"
	MessageFailedUpdateMeal = "failed to update meal"
	MessageFailedDeleteMeal = "failed to delete meal"
	MessageFailedGetMeals   = "failed to get meals"
	MessageFailedGetMeal    = "failed to get meal detail"
)

type (
	// MealComponentRequest references exactly one of RecipeID or ItemID.
	MealComponentRequest struct {
		RecipeID *string         `json:"recipe_id,omitempty" validate:"omitempty,uuid"`
		ItemID   *string         `json:"item_id,omitempty" validate:"omitempty,uuid"`
		Quantity decimal.Decimal `json:"quantity"`
	}

	CreateMealRequest struct {
		Code       string                 `json:"code" validate:"required"`
		NameEn     string                 `json:"name_en" validate:"required"`
		NameAr     string                 `json:"name_ar" validate:"required"`
		Components []MealComponentRequest `json:"components" validate:"required,min=1,dive"`
	}

	UpdateMealRequest struct {
		NameEn       string                 `json:"name_en,omitempty"`
		NameAr       string                 `json:"name_ar,omitempty"`
		SellingPrice *decimal.Decimal       `json:"selling_price,omitempty"`
		IsAvailable  *bool                  `json:"is_available,omitempty"`
		Components   []MealComponentRequest `json:"components,omitempty" validate:"omitempty,min=1,dive"`
	}

	MealCosts struct {
		TotalCost            decimal.Decimal `json:"total_cost"`
		TotalCalories        decimal.Decimal `json:"total_calories"`
		TotalPrepTimeMinutes int             `json:"total_prep_time_minutes"`
	}

	MealComponentResponse struct {
		ID       string          `json:"id"`
		Kind     string          `json:"kind"` // "recipe" or "item"
		RefID    string          `json:"ref_id"`
		NameEn   string          `json:"name_en"`
		NameAr   string          `json:"name_ar"`
		Quantity decimal.Decimal `json:"quantity"`
		Cost     decimal.Decimal `json:"cost"`
	}

	MealResponse struct {
		ID                     string                  `json:"id"`
		Code                   string                  `json:"code"`
		NameEn                 string                  `json:"name_en"`
		NameAr                 string                  `json:"name_ar"`
		PreparationTimeMinutes int                     `json:"preparation_time_minutes"`
		TotalCost              decimal.Decimal         `json:"total_cost"`
		TotalCalories          decimal.Decimal         `json:"total_calories"`
		SellingPrice           decimal.Decimal         `json:"selling_price"`
		ProfitMargin           decimal.Decimal         `json:"profit_margin"`
		ImageURL               string                  `json:"image_url,omitempty"`
		IsAvailable            bool                    `json:"is_available"`
		CanPrepare             bool                    `json:"can_prepare"`
		Components             []MealComponentResponse `json:"components,omitempty"`
	}
)
