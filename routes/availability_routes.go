package routes

import (
	"builder-market/handlers"

	"github.com/gofiber/fiber/v2"
)

func AvailabilityRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	availability := api.Group("/builders/:builderId/availability")

	availability.Post("/rules", handlers.CreateAvailabilityRule)
	availability.Get("/rules", handlers.ListAvailabilityRules)
	availability.Delete("/rules/:ruleId", handlers.DeleteAvailabilityRule)

	availability.Post("/exceptions", handlers.CreateAvailabilityException)
	availability.Get("/exceptions", handlers.ListAvailabilityExceptions)
	availability.Delete("/exceptions/:exceptionId", handlers.DeleteAvailabilityException)

	api.Get("/builders/:builderId/settings", handlers.GetSchedulingSettings)
	api.Put("/builders/:builderId/settings", handlers.UpdateSchedulingSettings)
}
