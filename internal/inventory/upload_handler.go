package inventory

import (
	"log"
	"strings"

	"consignment-backend/internal/database"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	ModeReplace = "replace"
	ModeAppend  = "append"
)

// POST /api/admin/inventory/upload
// Multipart form: file (xlsx workbook), owner (tenant name), mode
// (replace|append, default replace). Reconciles the workbook into the owner's
// ledger slice; nothing is written when parsing fails.
func UploadInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := strings.TrimSpace(c.FormValue("owner"))
		if owner == "" {
			return fiber.NewError(fiber.StatusBadRequest, "owner is required")
		}

		mode := strings.ToLower(strings.TrimSpace(c.FormValue("mode")))
		if mode == "" {
			mode = ModeReplace
		}
		if mode != ModeReplace && mode != ModeAppend {
			return fiber.NewError(fiber.StatusBadRequest, "mode must be 'replace' or 'append'")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open uploaded file: "+err.Error())
		}
		defer file.Close()

		wb, err := ParseWorkbook(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result := Reconcile(wb, owner)

		// One transaction: the ledger either gets the full reconciled slice
		// or stays at its pre-upload state.
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if mode == ModeReplace {
				if err := tx.Where("owner = ?", owner).Delete(&models.InventoryUnit{}).Error; err != nil {
					return err
				}
			}
			if len(result.Units) > 0 {
				if err := tx.CreateInBatches(&result.Units, 200).Error; err != nil {
					return err
				}
			}
			if len(result.Returns) > 0 {
				if err := tx.Create(&result.Returns).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("Inventory upload for %s failed: %v", owner, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save reconciled inventory")
		}

		log.Printf("Inventory upload for %s: mode=%s units=%d sold=%d returned=%d",
			owner, mode, len(result.Units), result.Sold, len(result.Returns))

		return c.JSON(fiber.Map{
			"owner":    owner,
			"mode":     mode,
			"units":    len(result.Units),
			"sold":     result.Sold,
			"returned": len(result.Returns),
		})
	}
}
