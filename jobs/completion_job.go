package jobs

import (
	"log"
	"time"

	"builder-market/database"
	"builder-market/models"
)

// CompleteElapsedBookings moves confirmed bookings whose session has ended to
// completed.
func CompleteElapsedBookings() {
	log.Println("Running job: CompleteElapsedBookings...")

	result := database.DB.Model(&models.Booking{}).
		Where("status = ? AND end_utc < ?", models.BookingStatusConfirmed, time.Now().UTC()).
		Update("status", models.BookingStatusCompleted)

	if result.Error != nil {
		log.Printf("Error completing elapsed bookings: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d booking(s) as completed.", result.RowsAffected)
	}
}

// ExpireStalePendingBookings frees slots held by bookings that never got
// confirmed, so abandoned checkouts do not block other clients forever.
func ExpireStalePendingBookings() {
	log.Println("Running job: ExpireStalePendingBookings...")

	cutoff := time.Now().UTC().Add(-30 * time.Minute)
	result := database.DB.Model(&models.Booking{}).
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Update("status", models.BookingStatusCancelled)

	if result.Error != nil {
		log.Printf("Error expiring stale pending bookings: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale pending booking(s).", result.RowsAffected)
	}
}
