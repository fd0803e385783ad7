package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"builder-market/database"
	"builder-market/models"
	"builder-market/notifications"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// commitTimeout bounds the atomic write so callers get
// ErrPersistenceUnavailable instead of hanging on a slow store.
const commitTimeout = 5 * time.Second

// CommitBooking turns a client's selected slot into a PENDING booking.
//
// Availability is re-derived for the slot's local date against the current
// bookings, which closes most of the time-of-check/time-of-use gap, but the
// actual guarantee against two racing commits is the bookings_no_overlap
// exclusion constraint: the losing insert fails and is surfaced as
// ErrSlotUnavailable so the client re-fetches slots and picks again.
func CommitBooking(ctx context.Context, clientID, builderID, sessionTypeID uuid.UUID, startUTC time.Time) (models.Booking, error) {
	var sessionType models.SessionType
	if err := database.DB.First(&sessionType, "id = ? AND builder_id = ? AND is_active = ?", sessionTypeID, builderID, true).Error; err != nil {
		return models.Booking{}, fmt.Errorf("%w: active session type not found for builder", ErrInvalidSessionType)
	}

	settings := SettingsForBuilder(builderID)
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, settings.Timezone)
	}

	localDay := startUTC.In(loc).Format(models.DateLayout)
	slots, err := GenerateSlotsForBuilder(builderID, sessionTypeID, DateRange{From: localDay, To: localDay})
	if err != nil {
		return models.Booking{}, err
	}

	endUTC := startUTC.Add(time.Duration(sessionType.DurationMinutes) * time.Minute)
	if !containsSlot(slots, startUTC, endUTC) {
		return models.Booking{}, ErrSlotUnavailable
	}

	booking := models.Booking{
		BuilderID:     builderID,
		ClientID:      clientID,
		SessionTypeID: sessionTypeID,
		StartUTC:      startUTC.UTC(),
		EndUTC:        endUTC.UTC(),
		Status:        models.BookingStatusPending,
	}

	writeCtx, cancel := context.WithTimeout(ctx, commitTimeout)
	defer cancel()

	err = database.DB.WithContext(writeCtx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&booking).Error
	})
	if err != nil {
		if isOverlapConflict(err) {
			// a concurrent commit won the exclusion constraint race
			return models.Booking{}, ErrSlotUnavailable
		}
		return models.Booking{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	go notifyBookingCreated(booking.ID)

	return booking, nil
}

// ConfirmBooking moves a PENDING booking to CONFIRMED once the external
// payment/confirmation step has completed.
func ConfirmBooking(bookingID uuid.UUID) (models.Booking, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return models.Booking{}, err
	}
	if booking.Status != models.BookingStatusPending {
		return models.Booking{}, fmt.Errorf("only pending bookings can be confirmed, booking is %s", booking.Status)
	}

	booking.Status = models.BookingStatusConfirmed
	if err := database.DB.Save(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return booking, nil
}

// CancelBooking cancels on behalf of the booking's client or builder. Past
// sessions cannot be cancelled.
func CancelBooking(bookingID, actorID uuid.UUID) (models.Booking, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return models.Booking{}, err
	}
	if booking.ClientID != actorID && booking.BuilderID != actorID {
		return models.Booking{}, errors.New("only the booking's client or builder may cancel it")
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return models.Booking{}, fmt.Errorf("booking is already %s", booking.Status)
	}
	if booking.StartUTC.Before(time.Now().UTC()) {
		return models.Booking{}, errors.New("cannot cancel a session that has already started")
	}

	booking.Status = models.BookingStatusCancelled
	if err := database.DB.Save(&booking).Error; err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	go notifyBookingCancelled(booking.ID)

	return booking, nil
}

func containsSlot(slots []models.TimeSlot, start, end time.Time) bool {
	for _, s := range slots {
		if s.StartUTC.Equal(start) && s.EndUTC.Equal(end) {
			return true
		}
	}
	return false
}

// isOverlapConflict recognizes the SQLSTATEs Postgres raises when the
// exclusion constraint (23P01) or a unique index (23505) rejects the insert.
func isOverlapConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

func notifyBookingCreated(bookingID uuid.UUID) {
	var booking models.Booking
	if err := database.DB.Preload("Client").Preload("Builder").First(&booking, "id = ?", bookingID).Error; err != nil {
		return
	}
	when := booking.StartUTC.Format(time.RFC1123)
	notifications.SendEmail(booking.Client.FullName, booking.Client.Email,
		"Your Session is Reserved!",
		fmt.Sprintf("<h1>Session Reserved</h1><p>Your session starting %s is reserved and awaiting confirmation.</p>", when))
	notifications.SendEmail(booking.Builder.FullName, booking.Builder.Email,
		"You Have a New Booking!",
		fmt.Sprintf("<h1>New Booking</h1><p>A client has reserved your session starting %s.</p>", when))
}

func notifyBookingCancelled(bookingID uuid.UUID) {
	var booking models.Booking
	if err := database.DB.Preload("Client").Preload("Builder").First(&booking, "id = ?", bookingID).Error; err != nil {
		return
	}
	when := booking.StartUTC.Format(time.RFC1123)
	body := fmt.Sprintf("<h1>Booking Cancelled</h1><p>The session starting %s has been cancelled.</p>", when)
	notifications.SendEmail(booking.Client.FullName, booking.Client.Email, "Booking Cancelled", body)
	notifications.SendEmail(booking.Builder.FullName, booking.Builder.Email, "Booking Cancelled", body)
}
