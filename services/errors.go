package services

import "errors"

// Scheduling errors are sentinel values so handlers can map them to HTTP
// statuses with errors.Is. All of them are caller-recoverable: fix the request
// (validation errors), re-select a slot (ErrSlotUnavailable), or retry later
// (ErrPersistenceUnavailable).
var (
	ErrInvalidRange           = errors.New("invalid date range")
	ErrInvalidSessionType     = errors.New("invalid session type")
	ErrOwnershipMismatch      = errors.New("availability data belongs to a different builder")
	ErrInvalidTimezone        = errors.New("invalid timezone identifier")
	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrPersistenceUnavailable = errors.New("booking store unavailable")
)
