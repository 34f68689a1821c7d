package admin

import (
	"strings"

	"consignment-backend/internal/database"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	CreatedAt string `json:"created_at"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Company  *string `json:"company"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Company:   u.Company,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseRole(s string) (models.UserRole, bool) {
	switch models.UserRole(s) {
	case models.RoleAdmin, models.RoleManager, models.RoleViewer:
		return models.UserRole(s), true
	}
	return "", false
}

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		body.Company = strings.TrimSpace(body.Company)

		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
		}

		role, ok := parseRole(body.Role)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Role must be viewer, manager or admin")
		}
		if role != models.RoleAdmin && body.Company == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company is required for viewer and manager accounts")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Username is already taken")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         role,
			Company:      body.Company,
			Name:         body.Name,
			Email:        body.Email,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(userResponse(&user))
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db := database.DB.Order("username")
		if company := strings.TrimSpace(c.Query("company")); company != "" {
			db = db.Where("company = ?", company)
		}

		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, userResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Role != nil {
			role, ok := parseRole(*body.Role)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Role must be viewer, manager or admin")
			}
			user.Role = role
		}
		if body.Company != nil {
			user.Company = strings.TrimSpace(*body.Company)
		}
		if body.Name != nil {
			user.Name = *body.Name
		}
		if body.Email != nil {
			user.Email = *body.Email
		}
		if body.Password != nil && *body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
			}
			user.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}

		return c.JSON(userResponse(&user))
	}
}

// DELETE /api/admin/users/:id
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if user.Role == models.RoleAdmin {
			var adminCount int64
			database.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
			if adminCount <= 1 {
				return fiber.NewError(fiber.StatusBadRequest, "Cannot delete the last admin account")
			}
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
		}

		return c.JSON(fiber.Map{"deleted": user.ID})
	}
}
