package handlers

import (
	"errors"
	"time"

	"builder-market/database"
	"builder-market/models"
	"builder-market/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ListSlotsQuery struct {
	SessionTypeID string `query:"session_type_id" validate:"required,uuid"`
	From          string `query:"from" validate:"required,datetime=2006-01-02"`
	To            string `query:"to" validate:"required,datetime=2006-01-02"`
}

// ListBuilderSlots serves the "list available times" endpoint: it runs the
// slot generator for the requested range and session type and returns the
// bookable intervals in UTC.
func ListBuilderSlots(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	var q ListSlotsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse query parameters"})
	}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	sessionTypeID, _ := uuid.Parse(q.SessionTypeID)

	slots, err := services.GenerateSlotsForBuilder(builderID, sessionTypeID, services.DateRange{From: q.From, To: q.To})
	if err != nil {
		return c.Status(slotErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"slots": slots, "count": len(slots)})
}

type CreateBookingRequest struct {
	ClientID      string `json:"client_id" validate:"required,uuid"`
	BuilderID     string `json:"builder_id" validate:"required,uuid"`
	SessionTypeID string `json:"session_type_id" validate:"required,uuid"`
	StartUTC      string `json:"start_utc" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateBooking commits a selected slot. A lost race surfaces as 409 so the
// client re-fetches the slot list and picks again.
func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	clientID, _ := uuid.Parse(req.ClientID)
	builderID, _ := uuid.Parse(req.BuilderID)
	sessionTypeID, _ := uuid.Parse(req.SessionTypeID)
	startUTC, _ := time.Parse(time.RFC3339, req.StartUTC)

	var client models.User
	if err := database.DB.First(&client, "id = ?", clientID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}

	booking, err := services.CommitBooking(c.Context(), clientID, builderID, sessionTypeID, startUTC)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The selected slot is no longer available, please pick another one"})
		case errors.Is(err, services.ErrPersistenceUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Booking could not be saved, please try again later"})
		default:
			return c.Status(slotErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetClientBookings(c *fiber.Ctx) error {
	clientID := c.Params("clientId")

	var bookings []models.Booking
	database.DB.
		Preload("Builder").
		Preload("SessionType").
		Where("client_id = ?", clientID).
		Order("start_utc desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func GetBuilderBookings(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var bookings []models.Booking
	database.DB.
		Preload("Client").
		Preload("SessionType").
		Where("builder_id = ?", builderID).
		Order("start_utc desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func ConfirmBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := services.ConfirmBooking(bookingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(booking)
}

type CancelBookingRequest struct {
	ActorID string `json:"actor_id" validate:"required,uuid"`
}

func CancelBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	actorID, _ := uuid.Parse(req.ActorID)

	booking, err := services.CancelBooking(bookingID, actorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(booking)
}

// slotErrorStatus maps slot generator validation failures to 400 and anything
// unexpected to 500.
func slotErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidSessionType),
		errors.Is(err, services.ErrOwnershipMismatch),
		errors.Is(err, services.ErrInvalidTimezone):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrPersistenceUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
