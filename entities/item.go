package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Item struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID    uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_items_restaurant_code" json:"restaurant_id"`
	Code            string          `gorm:"uniqueIndex:idx_items_restaurant_code" json:"code"`
	NameEn          string          `json:"name_en"`
	NameAr          string          `json:"name_ar"`
	UnitCost        decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_cost"`
	CaloriesPerUnit decimal.Decimal `gorm:"type:numeric(12,2)" json:"calories_per_unit"`
	CurrentStock    decimal.Decimal `gorm:"type:numeric(12,3)" json:"current_stock"`
	Unit            string          `json:"unit"`
	ImageURL        string          `json:"image_url,omitempty"`
	IsAvailable     bool            `gorm:"default:true" json:"is_available"`

	Timestamp
}
