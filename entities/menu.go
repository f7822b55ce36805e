package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Menu struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_menus_restaurant_name" json:"restaurant_id"`
	NameEn       string     `gorm:"uniqueIndex:idx_menus_restaurant_name" json:"name_en"`
	NameAr       string     `json:"name_ar"`
	StartDate    *time.Time `gorm:"type:timestamp" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"type:timestamp" json:"end_date,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`

	Items []MenuItem `gorm:"foreignKey:MenuID" json:"items,omitempty"`
	Timestamp
}

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index" json:"restaurant_id"`
	NameEn       string    `json:"name_en"`
	NameAr       string    `json:"name_ar"`
	DisplayOrder int       `json:"display_order"`

	Timestamp
}

// MenuItem references exactly one of ItemID, RecipeID or MealID, and at
// most one MenuItem per (menu, referenced entity) pair may exist. The
// partial unique indexes back that pair invariant under concurrent adds;
// the service check only provides the friendlier error message.
type MenuItem struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MenuID        uuid.UUID        `gorm:"type:uuid;index;uniqueIndex:idx_menu_items_item;uniqueIndex:idx_menu_items_recipe;uniqueIndex:idx_menu_items_meal" json:"menu_id"`
	CategoryID    *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	ItemID        *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_menu_items_item,where:item_id IS NOT NULL" json:"item_id,omitempty"`
	RecipeID      *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_menu_items_recipe,where:recipe_id IS NOT NULL" json:"recipe_id,omitempty"`
	MealID        *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_menu_items_meal,where:meal_id IS NOT NULL" json:"meal_id,omitempty"`
	DisplayOrder  int              `json:"display_order"`
	SpecialPrice  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"special_price,omitempty"`
	IsAvailable   bool             `gorm:"default:true" json:"is_available"`
	IsRecommended bool             `gorm:"default:false" json:"is_recommended"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Item     *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Recipe   *Recipe   `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Meal     *Meal     `gorm:"foreignKey:MealID" json:"meal,omitempty"`
}
