package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a derived, bookable interval. It is never persisted; a slot only
// becomes a row when a Booking is committed against it.
type TimeSlot struct {
	BuilderID     uuid.UUID `json:"builder_id"`
	SessionTypeID uuid.UUID `json:"session_type_id"`
	StartUTC      time.Time `json:"start_utc"`
	EndUTC        time.Time `json:"end_utc"`
}

// Overlaps reports whether the slot shares at least one instant with
// [start, end).
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndUTC) && s.StartUTC.Before(end)
}
