package routes

import (
	"builder-market/handlers"
	"builder-market/middleware"

	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/builders/:builderId/slots", handlers.ListBuilderSlots)
	api.Get("/builders/:builderId/bookings", handlers.GetBuilderBookings)
	api.Get("/clients/:clientId/bookings", handlers.GetClientBookings)

	booking := api.Group("/bookings", middleware.RateLimit(5, 10))
	booking.Post("", handlers.CreateBooking)
	booking.Post("/:bookingId/confirm", handlers.ConfirmBooking)
	booking.Post("/:bookingId/cancel", handlers.CancelBooking)
}
