package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionType struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BuilderID       uuid.UUID `gorm:"not null;index" json:"builder_id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency        string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`

	Builder   User      `gorm:"foreignkey:BuilderID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
