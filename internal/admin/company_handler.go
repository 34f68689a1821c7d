package admin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"consignment-backend/internal/config"
	"consignment-backend/internal/database"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CompanyResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	LogoPath     string `json:"logo_path"`
	CreatedAt    string `json:"created_at"`
}

type CreateCompanyRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

type UpdateCompanyRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
}

func companyResponse(co *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:           co.ID,
		Name:         co.Name,
		Address:      co.Address,
		ContactName:  co.ContactName,
		ContactEmail: co.ContactEmail,
		ContactPhone: co.ContactPhone,
		LogoPath:     co.LogoPath,
		CreatedAt:    co.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/admin/companies
func CreateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company name is required")
		}

		company := models.Company{
			Name:         body.Name,
			Address:      body.Address,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
			ContactPhone: body.ContactPhone,
		}

		if err := database.DB.Create(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create company")
		}

		return c.Status(fiber.StatusCreated).JSON(companyResponse(&company))
	}
}

// GET /api/admin/companies
func ListCompaniesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var companies []models.Company
		if err := database.DB.Order("name").Find(&companies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list companies")
		}

		res := make([]CompanyResponse, 0, len(companies))
		for i := range companies {
			res = append(res, companyResponse(&companies[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/companies/:id
func UpdateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Company not found")
		}

		var body UpdateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Company name cannot be empty")
			}
			company.Name = name
		}
		if body.Address != nil {
			company.Address = *body.Address
		}
		if body.ContactName != nil {
			company.ContactName = *body.ContactName
		}
		if body.ContactEmail != nil {
			company.ContactEmail = *body.ContactEmail
		}
		if body.ContactPhone != nil {
			company.ContactPhone = *body.ContactPhone
		}

		if err := database.DB.Save(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update company")
		}

		return c.JSON(companyResponse(&company))
	}
}

// DELETE /api/admin/companies/:id
func DeleteCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Company not found")
		}

		// Refuse while the tenant still has ledger rows
		var unitCount int64
		database.DB.Model(&models.InventoryUnit{}).Where("owner = ?", company.Name).Count(&unitCount)
		if unitCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Company still has inventory, reassign or remove it first")
		}

		if err := database.DB.Delete(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete company")
		}

		return c.JSON(fiber.Map{"deleted": company.ID})
	}
}

// POST /api/admin/companies/:id/logo
// Multipart form: file. Stores the tenant's branding logo on disk and records
// the path.
func UploadCompanyLogoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Company not found")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			return fiber.NewError(fiber.StatusBadRequest, "Logo must be a .png or .jpg file")
		}

		if err := os.MkdirAll(cfg.CompanyLogoPath, 0755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create logo folder")
		}

		logoPath := filepath.Join(cfg.CompanyLogoPath, fmt.Sprintf("company-%d%s", company.ID, ext))
		if err := c.SaveFile(fileHeader, logoPath); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save logo file")
		}

		company.LogoPath = logoPath
		if err := database.DB.Save(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update company")
		}

		return c.JSON(companyResponse(&company))
	}
}

// POST /api/admin/companies/sync
// Harvests company names from user accounts and inventory owners into the
// registry; useful after bulk uploads for unregistered tenants.
func SyncCompaniesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		created, err := database.SyncCompanies(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Company sync failed")
		}
		return c.JSON(fiber.Map{"created": created})
	}
}
