package handlers

import (
	"time"

	"builder-market/database"
	"builder-market/models"
	"builder-market/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type CreateRuleRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

func CreateAvailabilityRule(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	var req CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startMin, _ := models.ParseClock(req.StartTime)
	endMin, _ := models.ParseClock(req.EndTime)
	if startMin >= endMin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
	}

	// Rules on the same weekday must not overlap each other.
	var siblings []models.AvailabilityRule
	database.DB.Where("builder_id = ? AND day_of_week = ?", builderID, *req.DayOfWeek).Find(&siblings)
	for _, s := range siblings {
		sStart, _ := models.ParseClock(s.StartTime)
		sEnd, _ := models.ParseClock(s.EndTime)
		if startMin < sEnd && sStart < endMin {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Rule overlaps an existing rule for that day"})
		}
	}

	rule := models.AvailabilityRule{
		BuilderID: builderID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := database.DB.Create(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability rule"})
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func ListAvailabilityRules(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var rules []models.AvailabilityRule
	database.DB.Where("builder_id = ?", builderID).
		Order("day_of_week asc, start_time asc").
		Find(&rules)

	return c.JSON(rules)
}

func DeleteAvailabilityRule(c *fiber.Ctx) error {
	builderID := c.Params("builderId")
	ruleID := c.Params("ruleId")

	result := database.DB.Where("id = ? AND builder_id = ?", ruleID, builderID).
		Delete(&models.AvailabilityRule{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability rule not found"})
	}

	return c.JSON(fiber.Map{"message": "Availability rule deleted"})
}

type CreateExceptionRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	IsAvailable bool    `json:"is_available"`
	StartTime   *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time" validate:"omitempty,datetime=15:04"`
}

func CreateAvailabilityException(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	var req CreateExceptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.IsAvailable {
		if req.StartTime == nil || req.EndTime == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "An available exception requires start_time and end_time"})
		}
		startMin, _ := models.ParseClock(*req.StartTime)
		endMin, _ := models.ParseClock(*req.EndTime)
		if startMin >= endMin {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
		}
	}

	// One exception per date: a new one replaces any previous override.
	database.DB.Where("builder_id = ? AND date = ?", builderID, req.Date).
		Delete(&models.AvailabilityException{})

	exception := models.AvailabilityException{
		BuilderID:   builderID,
		Date:        req.Date,
		IsAvailable: req.IsAvailable,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := database.DB.Create(&exception).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability exception"})
	}

	return c.Status(fiber.StatusCreated).JSON(exception)
}

func ListAvailabilityExceptions(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var exceptions []models.AvailabilityException
	database.DB.Where("builder_id = ?", builderID).
		Order("date asc").
		Find(&exceptions)

	return c.JSON(exceptions)
}

func DeleteAvailabilityException(c *fiber.Ctx) error {
	builderID := c.Params("builderId")
	exceptionID := c.Params("exceptionId")

	result := database.DB.Where("id = ? AND builder_id = ?", exceptionID, builderID).
		Delete(&models.AvailabilityException{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability exception not found"})
	}

	return c.JSON(fiber.Map{"message": "Availability exception deleted"})
}

func GetSchedulingSettings(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	return c.JSON(services.SettingsForBuilder(builderID))
}

type UpdateSettingsRequest struct {
	Timezone         string `json:"timezone" validate:"required"`
	MinNoticeMinutes *int   `json:"min_notice_minutes" validate:"required,gte=0"`
	MaxAdvanceDays   *int   `json:"max_advance_days" validate:"required,gt=0,lte=365"`
}

func UpdateSchedulingSettings(c *fiber.Ctx) error {
	builderID, err := uuid.Parse(c.Params("builderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid builder id"})
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown IANA timezone identifier"})
	}

	settings := models.SchedulingSettings{
		BuilderID:        builderID,
		Timezone:         req.Timezone,
		MinNoticeMinutes: *req.MinNoticeMinutes,
		MaxAdvanceDays:   *req.MaxAdvanceDays,
	}
	if err := database.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update scheduling settings"})
	}

	return c.JSON(settings)
}
