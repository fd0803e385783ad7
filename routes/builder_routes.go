package routes

import (
	"builder-market/handlers"

	"github.com/gofiber/fiber/v2"
)

func BuilderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/users", handlers.CreateUser)

	api.Get("/builders", handlers.ListActiveBuilders)
	api.Post("/builders/apply", handlers.ApplyToBeABuilder)
	api.Get("/builders/:builderId", handlers.GetBuilderProfile)
	api.Put("/builders/:builderId", handlers.UpdateBuilderProfile)

	sessionTypes := api.Group("/builders/:builderId/session-types")
	sessionTypes.Post("", handlers.CreateSessionType)
	sessionTypes.Get("", handlers.ListSessionTypes)
	sessionTypes.Put("/:sessionTypeId", handlers.UpdateSessionType)
	sessionTypes.Delete("/:sessionTypeId", handlers.DeleteSessionType)
}
