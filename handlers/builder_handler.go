package handlers

import (
	"errors"

	"builder-market/database"
	"builder-market/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateUserRequest struct {
	FullName string  `json:"full_name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	TimeZone *string `json:"time_zone,omitempty"`
}

func CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	newUser := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		TimeZone: req.TimeZone,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A user with this email already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(newUser)
}

type BuilderApplicationRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Headline string `json:"headline" validate:"required"`
	Bio      string `json:"bio" validate:"required"`
}

func ApplyToBeABuilder(c *fiber.Ctx) error {
	var req BuilderApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	userID, _ := uuid.Parse(req.UserID)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var existing models.Builder
	err := database.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	application := models.Builder{
		UserID:   userID,
		Headline: &req.Headline,
		Bio:      &req.Bio,
	}
	if err := database.DB.Create(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	settings := models.DefaultSchedulingSettings(userID)
	if user.TimeZone != nil && *user.TimeZone != "" {
		settings.Timezone = *user.TimeZone
	}
	database.DB.Create(&settings)

	return c.Status(fiber.StatusCreated).JSON(application)
}

func ListActiveBuilders(c *fiber.Ctx) error {
	var builders []models.Builder
	database.DB.Preload("User").Where("status = ?", "active").Find(&builders)

	return c.JSON(builders)
}

func GetBuilderProfile(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var builder models.Builder
	if err := database.DB.Preload("User").First(&builder, "user_id = ?", builderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Builder not found"})
	}

	return c.JSON(builder)
}

type UpdateBuilderProfileRequest struct {
	Headline *string `json:"headline"`
	Bio      *string `json:"bio"`
}

func UpdateBuilderProfile(c *fiber.Ctx) error {
	builderID := c.Params("builderId")

	var builder models.Builder
	if err := database.DB.First(&builder, "user_id = ?", builderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Builder not found"})
	}

	var req UpdateBuilderProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Headline != nil {
		builder.Headline = req.Headline
	}
	if req.Bio != nil {
		builder.Bio = req.Bio
	}
	if err := database.DB.Save(&builder).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(builder)
}
