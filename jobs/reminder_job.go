package jobs

import (
	"fmt"
	"log"
	"time"

	"builder-market/database"
	"builder-market/models"
	"builder-market/notifications"
)

// SendSessionReminders mails both parties of confirmed bookings starting in
// roughly an hour. The 5-minute window matches the cron cadence so each
// booking is picked up once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now().UTC()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Client").
		Preload("Builder").
		Where("status = ? AND start_utc BETWEEN ? AND ?", models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		emailSubject := "Reminder: Your Session Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your session is scheduled to start in one hour at %s UTC.</p>",
			booking.StartUTC.Format(time.Kitchen),
		)

		go notifications.SendEmail(booking.Client.FullName, booking.Client.Email, emailSubject, emailBody)
		go notifications.SendEmail(booking.Builder.FullName, booking.Builder.Email, emailSubject, emailBody)
	}
}
