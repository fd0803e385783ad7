package models

import (
	"time"

	"github.com/google/uuid"
)

// SchedulingSettings holds a builder's booking policy: the IANA timezone all
// availability rules are expressed in, the minimum lead time before a slot may
// start, and how far ahead clients are allowed to book.
type SchedulingSettings struct {
	BuilderID        uuid.UUID `gorm:"primary_key" json:"builder_id"`
	Timezone         string    `gorm:"size:100;not null;default:'UTC'" json:"timezone"`
	MinNoticeMinutes int       `gorm:"not null;default:0" json:"min_notice_minutes"`
	MaxAdvanceDays   int       `gorm:"not null;default:60" json:"max_advance_days"`

	Builder   User      `gorm:"foreignkey:BuilderID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func DefaultSchedulingSettings(builderID uuid.UUID) SchedulingSettings {
	return SchedulingSettings{
		BuilderID:        builderID,
		Timezone:         "UTC",
		MinNoticeMinutes: 0,
		MaxAdvanceDays:   60,
	}
}
