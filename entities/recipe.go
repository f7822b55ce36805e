package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID           uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_recipes_restaurant_code" json:"restaurant_id"`
	Code                   string          `gorm:"uniqueIndex:idx_recipes_restaurant_code" json:"code"`
	NameEn                 string          `json:"name_en"`
	NameAr                 string          `json:"name_ar"`
	PreparationTimeMinutes int             `json:"preparation_time_minutes"`
	TotalCost              decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_cost"`
	TotalCalories          decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_calories"`
	SellingPrice           decimal.Decimal `gorm:"type:numeric(12,2)" json:"selling_price"`
	ImageURL               string          `json:"image_url,omitempty"`
	IsAvailable            bool            `gorm:"default:true" json:"is_available"`

	Lines []RecipeLine `gorm:"foreignKey:RecipeID" json:"lines,omitempty"`
	Timestamp
}

type RecipeLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID         uuid.UUID       `gorm:"type:uuid;index" json:"recipe_id"`
	ItemID           uuid.UUID       `gorm:"type:uuid;index" json:"item_id"`
	Quantity         decimal.Decimal `gorm:"type:numeric(12,3)" json:"quantity"`
	UnitCostSnapshot decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_cost_snapshot"`
	LineCostSnapshot decimal.Decimal `gorm:"type:numeric(12,2)" json:"line_cost_snapshot"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
