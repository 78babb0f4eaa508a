package models

import (
	"time"

	"gorm.io/gorm"
)

// Base is the base model for all entities. IDs are numeric and assigned by
// the store, matching the Supabase schema this service replaces.
type Base struct {
	ID        uint           `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}
