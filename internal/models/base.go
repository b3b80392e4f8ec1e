package models

import "time"

// Base replaces gorm.Model: rows are deleted for real, never soft-deleted.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
