package profile

import (
	"strings"

	"consignment-backend/internal/auth"
	"consignment-backend/internal/database"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Theme *string `json:"theme"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PUT /api/profile
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, caller.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			user.Name = strings.TrimSpace(*body.Name)
		}
		if body.Email != nil {
			user.Email = strings.TrimSpace(*body.Email)
		}
		if body.Theme != nil {
			user.Theme = strings.TrimSpace(*body.Theme)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update profile")
		}

		return c.JSON(fiber.Map{
			"username": user.Username,
			"name":     user.Name,
			"email":    user.Email,
			"theme":    user.Theme,
		})
	}
}

// PUT /api/profile/password
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if len(body.NewPassword) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 8 characters")
		}

		var user models.User
		if err := database.DB.First(&user, caller.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user.PasswordHash = string(hash)
		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not change password")
		}

		return c.JSON(fiber.Map{"changed": true})
	}
}
