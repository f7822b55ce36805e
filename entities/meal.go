package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Meal struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID           uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_meals_restaurant_code" json:"restaurant_id"`
	Code                   string          `gorm:"uniqueIndex:idx_meals_restaurant_code" json:"code"`
	NameEn                 string          `json:"name_en"`
	NameAr                 string          `json:"name_ar"`
	PreparationTimeMinutes int             `json:"preparation_time_minutes"`
	TotalCost              decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_cost"`
	TotalCalories          decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_calories"`
	SellingPrice           decimal.Decimal `gorm:"type:numeric(12,2)" json:"selling_price"`
	ImageURL               string          `json:"image_url,omitempty"`
	IsAvailable            bool            `gorm:"default:true" json:"is_available"`

	Components []MealComponent `gorm:"foreignKey:MealID" json:"components,omitempty"`
	Timestamp
}

// MealComponent references exactly one of RecipeID or ItemID. The pair of
// nullable columns is constrained at write time; readers may rely on
// one and only one being non-nil.
type MealComponent struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MealID       uuid.UUID       `gorm:"type:uuid;index" json:"meal_id"`
	RecipeID     *uuid.UUID      `gorm:"type:uuid;index" json:"recipe_id,omitempty"`
	ItemID       *uuid.UUID      `gorm:"type:uuid;index" json:"item_id,omitempty"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,3)" json:"quantity"`
	CostSnapshot decimal.Decimal `gorm:"type:numeric(12,2)" json:"cost_snapshot"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Item   *Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
