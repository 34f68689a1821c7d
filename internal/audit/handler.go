package audit

import (
	"log"
	"strings"
	"time"

	"consignment-backend/internal/auth"
	"consignment-backend/internal/database"
	"consignment-backend/internal/export"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitAuditRequest struct {
	UnitIDs []uint `json:"unit_ids"`
	Comment string `json:"comment"`
}

// POST /api/audits
// Creates one pending audit row per selected on-hand unit. No notification:
// audits are reviewed from the portal.
func SubmitAuditHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var body SubmitAuditRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.UnitIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "unit_ids is required")
		}

		db := database.DB.Where("id IN ? AND status = ?", body.UnitIDs, models.StatusOnHand)
		if !caller.CanSeeAllCompanies() {
			db = db.Where("owner = ?", caller.Company)
		}
		var units []models.InventoryUnit
		if err := db.Find(&units).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load selected units")
		}

		batchID := uuid.NewString()
		now := time.Now()
		candidates := make([]models.AuditRecord, 0, len(units))
		companies := map[string]bool{}
		for i := range units {
			candidates = append(candidates, SnapshotUnit(&units[i], batchID, caller.Username, body.Comment, now))
			companies[units[i].Owner] = true
		}

		var existing []models.AuditRecord
		if len(candidates) > 0 {
			names := make([]string, 0, len(companies))
			for name := range companies {
				names = append(names, name)
			}
			if err := database.DB.Where("company IN ?", names).Find(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit log")
			}
		}

		kept := FilterDuplicates(candidates, existing)
		if len(kept) > 0 {
			if err := database.DB.Create(&kept).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not save audit request")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"batch_id":   batchID,
			"created":    len(kept),
			"duplicates": len(candidates) - len(kept),
			"skipped":    len(body.UnitIDs) - len(units),
		})
	}
}

func scopedAuditQuery(c *fiber.Ctx) (*gorm.DB, error) {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return nil, err
	}
	db := database.DB.Model(&models.AuditRecord{}).Order("id")
	if caller.CanSeeAllCompanies() {
		if company := strings.TrimSpace(c.Query("company")); company != "" {
			db = db.Where("company = ?", company)
		}
	} else {
		db = db.Where("company = ?", caller.Company)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	return db, nil
}

// GET /api/audits
func ListAuditsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db, err := scopedAuditQuery(c)
		if err != nil {
			return err
		}
		var records []models.AuditRecord
		if err := db.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit log")
		}
		return c.JSON(fiber.Map{"count": len(records), "audits": records})
	}
}

type CompleteAuditsRequest struct {
	IDs  []uint `json:"ids"`
	Note string `json:"note"`
}

// POST /api/admin/audits/complete
// Pending → Completed, terminal. Units stay on hand.
func CompleteAuditsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var body CompleteAuditsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.IDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ids is required")
		}

		var records []models.AuditRecord
		if err := database.DB.Where("id IN ? AND status = ?", body.IDs, models.RequestPending).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit log")
		}

		now := time.Now()
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := range records {
				Complete(&records[i], caller.Username, body.Note, now)
				if err := tx.Save(&records[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("Audit completion failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not complete audits")
		}

		return c.JSON(fiber.Map{
			"completed": len(records),
			"skipped":   len(body.IDs) - len(records),
		})
	}
}

var auditCSVHeader = []string{
	"company", "status", "requested_by", "request_time", "comment",
	"internal_serial", "mnfr_serial", "part_number", "clei", "po", "po_line", "date",
	"sales_price", "cost", "completion_note", "processed_by",
}

// GET /api/audits/export
func ExportAuditsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db, err := scopedAuditQuery(c)
		if err != nil {
			return err
		}
		var records []models.AuditRecord
		if err := db.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load audit log")
		}

		rows := make([][]string, 0, len(records))
		for i := range records {
			r := &records[i]
			rows = append(rows, []string{
				r.Company, string(r.Status), r.RequestedBy, r.RequestTime.Format(time.RFC3339), r.Comment,
				r.InternalSerial, r.MnfrSerial, r.PartNumber, r.CLEI, r.PO, r.POLine, r.RecordDate,
				export.Price(r.SalesPrice), export.Price(r.Cost),
				r.CompletionNote, r.ProcessedBy,
			})
		}
		return export.CSV(c, "audits.csv", auditCSVHeader, rows)
	}
}
