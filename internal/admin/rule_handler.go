package admin

import (
	"strings"

	"consignment-backend/internal/database"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateNotificationRuleRequest struct {
	Company string `json:"company"` // tenant name or "ALL"
	Email   string `json:"email"`
}

// POST /api/admin/notification-rules
func CreateNotificationRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNotificationRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Company = strings.TrimSpace(body.Company)
		body.Email = strings.TrimSpace(body.Email)

		if body.Company == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company and email are required")
		}
		if !strings.Contains(body.Email, "@") {
			return fiber.NewError(fiber.StatusBadRequest, "Email address is not valid")
		}

		rule := models.NotificationRule{
			Company: body.Company,
			Email:   body.Email,
		}

		if err := database.DB.Create(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create notification rule")
		}

		return c.Status(fiber.StatusCreated).JSON(rule)
	}
}

// GET /api/admin/notification-rules
func ListNotificationRulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rules []models.NotificationRule
		if err := database.DB.Order("company, email").Find(&rules).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notification rules")
		}
		return c.JSON(rules)
	}
}

// DELETE /api/admin/notification-rules/:id
func DeleteNotificationRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var rule models.NotificationRule
		if err := database.DB.First(&rule, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Notification rule not found")
		}

		if err := database.DB.Delete(&rule).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete notification rule")
		}

		return c.JSON(fiber.Map{"deleted": rule.ID})
	}
}
