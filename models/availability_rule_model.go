package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is one recurring weekly window in the builder's local
// timezone. A builder may have several non-overlapping rules per weekday.
type AvailabilityRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BuilderID uuid.UUID `gorm:"not null;index" json:"builder_id"`
	DayOfWeek int       `gorm:"not null" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime string    `gorm:"size:5;not null" json:"start_time"` // "09:00", builder-local
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`

	Builder   User      `gorm:"foreignkey:BuilderID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
