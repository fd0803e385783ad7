package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityException overrides the recurring rules for one calendar date.
// IsAvailable=false blocks the whole day; IsAvailable=true replaces the day's
// rules with the single StartTime..EndTime window.
type AvailabilityException struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BuilderID   uuid.UUID `gorm:"not null;index" json:"builder_id"`
	Date        string    `gorm:"size:10;not null" json:"date"` // "2006-01-02", builder-local
	IsAvailable bool      `gorm:"not null;default:false" json:"is_available"`
	StartTime   *string   `gorm:"size:5" json:"start_time"`
	EndTime     *string   `gorm:"size:5" json:"end_time"`

	Builder   User      `gorm:"foreignkey:BuilderID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
