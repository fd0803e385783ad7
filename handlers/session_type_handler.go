package handlers

import (
	"builder-market/database"
	"builder-market/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSessionTypeRequest struct {
	Name            string  `json:"name" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	Price           float64 `json:"price" validate:"gte=0"`
	Currency        string  `json:"currency" validate:"omitempty,len=3"`
}

func CreateSessionType(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	var req CreateSessionTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sessionType := models.SessionType{
		BuilderID:       builderID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if req.Currency != "" {
		sessionType.Currency = req.Currency
	}
	if err := database.DB.Create(&sessionType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session type"})
	}

	return c.Status(fiber.StatusCreated).JSON(sessionType)
}

func ListSessionTypes(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var sessionTypes []models.SessionType
	database.DB.Where("builder_id = ? AND is_active = ?", builderID, true).
		Order("name asc").
		Find(&sessionTypes)

	return c.JSON(sessionTypes)
}

type UpdateSessionTypeRequest struct {
	Name            *string  `json:"name"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active"`
}

func UpdateSessionType(c *fiber.Ctx) error {
	builderID := c.Params("builderId")
	sessionTypeID := c.Params("sessionTypeId")

	var sessionType models.SessionType
	if err := database.DB.First(&sessionType, "id = ? AND builder_id = ?", sessionTypeID, builderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session type not found"})
	}

	var req UpdateSessionTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Name != nil {
		sessionType.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		sessionType.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		sessionType.Price = *req.Price
	}
	if req.IsActive != nil {
		sessionType.IsActive = *req.IsActive
	}
	if err := database.DB.Save(&sessionType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update session type"})
	}

	return c.JSON(sessionType)
}

func DeleteSessionType(c *fiber.Ctx) error {
	builderID := c.Params("builderId")
	sessionTypeID := c.Params("sessionTypeId")

	var count int64
	database.DB.Model(&models.Booking{}).
		Where("session_type_id = ? AND status IN ?", sessionTypeID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session type has upcoming bookings; deactivate it instead"})
	}

	result := database.DB.Where("id = ? AND builder_id = ?", sessionTypeID, builderID).
		Delete(&models.SessionType{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session type not found"})
	}

	return c.JSON(fiber.Map{"message": "Session type deleted"})
}
