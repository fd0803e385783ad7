package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is a committed reservation of one slot. The bookings table carries a
// GiST exclusion constraint so no two non-cancelled bookings for the same
// builder can hold overlapping [start_utc, end_utc) intervals; see
// database.Migrate.
type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BuilderID     uuid.UUID `gorm:"not null;index" json:"builder_id"`
	ClientID      uuid.UUID `gorm:"not null;index" json:"client_id"`
	SessionTypeID uuid.UUID `gorm:"not null" json:"session_type_id"`
	StartUTC      time.Time `gorm:"column:start_utc;not null" json:"start_utc"`
	EndUTC        time.Time `gorm:"column:end_utc;not null" json:"end_utc"`
	Status        string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	Builder     User        `gorm:"foreignkey:BuilderID" json:"builder,omitempty"`
	Client      User        `gorm:"foreignkey:ClientID" json:"client,omitempty"`
	SessionType SessionType `gorm:"foreignkey:SessionTypeID" json:"session_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
