package entities

import (
	"github.com/google/uuid"
)

type StaffUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index" json:"restaurant_id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Password     string    `json:"-"`
	Role         string    `json:"role"` // "admin", "staff"
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`

	Timestamp
}
