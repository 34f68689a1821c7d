package recall

import (
	"log"
	"strings"
	"time"

	"consignment-backend/internal/auth"
	"consignment-backend/internal/database"
	"consignment-backend/internal/export"
	"consignment-backend/internal/models"
	"consignment-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitRecallRequest struct {
	UnitIDs []uint `json:"unit_ids"`
	Comment string `json:"comment"`
}

// POST /api/recalls
// Creates one pending log row per selected on-hand unit. Units no longer
// on hand (or not visible to the caller) are skipped. Recipients are notified
// best-effort; the submit succeeds once the log rows are written.
func SubmitRecallHandler(notifier notify.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var body SubmitRecallRequest
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
		candidates := make([]models.RecallRecord, 0, len(units))
		companies := map[string]int{}
		for i := range units {
			candidates = append(candidates, SnapshotUnit(&units[i], batchID, caller.Username, body.Comment, now))
			companies[units[i].Owner]++
		}

		var existing []models.RecallRecord
		if len(candidates) > 0 {
			names := make([]string, 0, len(companies))
			for name := range companies {
				names = append(names, name)
			}
			if err := database.DB.Where("company IN ?", names).Find(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load recall log")
			}
		}

		kept := FilterDuplicates(candidates, existing)
		if len(kept) > 0 {
			if err := database.DB.Create(&kept).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not save recall request")
			}
		}

		// Notify per tenant; failures are logged, never surfaced
		if len(kept) > 0 {
			var rules []models.NotificationRule
			if err := database.DB.Find(&rules).Error; err != nil {
				log.Printf("Recall notification rules could not be loaded: %v", err)
			} else {
				perCompany := map[string]int{}
				for i := range kept {
					perCompany[kept[i].Company]++
				}
				for company, count := range perCompany {
					recipients := notify.ResolveRecipients(rules, company)
					subject, bodyText := notify.RecallMessage(company, caller.Username, count, body.Comment)
					if err := notifier.Send(recipients, subject, bodyText); err != nil {
						log.Printf("Recall notification for %s failed: %v", company, err)
					}
				}
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

func scopedRecallQuery(c *fiber.Ctx) (*gorm.DB, error) {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return nil, err
	}
	db := database.DB.Model(&models.RecallRecord{}).Order("id")
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

// GET /api/recalls
func ListRecallsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db, err := scopedRecallQuery(c)
		if err != nil {
			return err
		}
		var records []models.RecallRecord
		if err := db.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recall log")
		}
		return c.JSON(fiber.Map{"count": len(records), "recalls": records})
	}
}

type ReceiveRecallsRequest struct {
	Items []Receipt `json:"items"`
}

// POST /api/admin/recalls/receive
// Confirms physical receipt of pending recalls. Every selected row needs a
// tracking number or the whole batch is rejected. Each confirmed row removes
// exactly one matching unit from the master ledger.
func ReceiveRecallsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.CallerFromContext(c)
		if err != nil {
			return err
		}

		var body ReceiveRecallsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "items is required")
		}

		receipts := make(map[uint]Receipt, len(body.Items))
		ids := make([]uint, 0, len(body.Items))
		for _, it := range body.Items {
			it.TrackingNumber = strings.TrimSpace(it.TrackingNumber)
			receipts[it.RecordID] = it
			ids = append(ids, it.RecordID)
		}

		// Rows no longer pending are skipped, not fatal
		var records []models.RecallRecord
		if err := database.DB.Where("id IN ? AND status = ?", ids, models.RequestPending).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recall log")
		}
		if len(records) == 0 {
			return c.JSON(fiber.Map{"completed": 0, "removed": 0, "skipped": len(ids)})
		}

		if err := ValidateReceipts(records, receipts); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		removed := 0
		now := time.Now()
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			// Ledger slices are loaded once per company and kept in step
			// with deletions so N identical log rows remove N units.
			ledgers := map[string][]models.InventoryUnit{}

			for i := range records {
				rec := &records[i]
				receipt := receipts[rec.ID]

				rec.Status = models.RequestCompleted
				rec.TrackingNumber = receipt.TrackingNumber
				rec.LocationBin = receipt.LocationBin
				rec.LocationWarehouse = receipt.LocationWarehouse
				rec.ProcessedBy = caller.Username
				rec.ProcessedAt = &now
				if err := tx.Save(rec).Error; err != nil {
					return err
				}

				units, ok := ledgers[rec.Company]
				if !ok {
					if err := tx.Where("owner = ?", rec.Company).Find(&units).Error; err != nil {
						return err
					}
				}

				if idx, found := MatchUnitForRemoval(units, rec); found {
					if err := tx.Delete(&models.InventoryUnit{}, units[idx].ID).Error; err != nil {
						return err
					}
					units = append(units[:idx], units[idx+1:]...)
					removed++
				}
				ledgers[rec.Company] = units
			}
			return nil
		})
		if err != nil {
			log.Printf("Recall receipt failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm recall receipt")
		}

		return c.JSON(fiber.Map{
			"completed": len(records),
			"removed":   removed,
			"skipped":   len(ids) - len(records),
		})
	}
}

type RestockRecallsRequest struct {
	IDs []uint `json:"ids"`
}

// POST /api/admin/recalls/restock
// Completed → Restocked: re-creates one ledger unit per log row.
func RestockRecallsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RestockRecallsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.IDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ids is required")
		}

		var records []models.RecallRecord
		if err := database.DB.Where("id IN ? AND status = ?", body.IDs, models.RequestCompleted).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recall log")
		}

		restocked := 0
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			for i := range records {
				unit := RestockUnit(&records[i])
				if err := tx.Create(&unit).Error; err != nil {
					return err
				}
				records[i].Status = models.RequestRestocked
				if err := tx.Save(&records[i]).Error; err != nil {
					return err
				}
				restocked++
			}
			return nil
		})
		if err != nil {
			log.Printf("Recall restock failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not restock recalled units")
		}

		return c.JSON(fiber.Map{
			"restocked": restocked,
			"skipped":   len(body.IDs) - len(records),
		})
	}
}

var recallCSVHeader = []string{
	"company", "status", "requested_by", "request_time", "comment",
	"internal_serial", "mnfr_serial", "part_number", "clei", "po", "po_line", "date",
	"sales_price", "cost", "tracking_number", "location_bin", "location_warehouse", "processed_by",
}

// GET /api/recalls/export
func ExportRecallsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		db, err := scopedRecallQuery(c)
		if err != nil {
			return err
		}
		var records []models.RecallRecord
		if err := db.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recall log")
		}

		rows := make([][]string, 0, len(records))
		for i := range records {
			r := &records[i]
			rows = append(rows, []string{
				r.Company, string(r.Status), r.RequestedBy, r.RequestTime.Format(time.RFC3339), r.Comment,
				r.InternalSerial, r.MnfrSerial, r.PartNumber, r.CLEI, r.PO, r.POLine, r.RecordDate,
				export.Price(r.SalesPrice), export.Price(r.Cost),
				r.TrackingNumber, r.LocationBin, r.LocationWarehouse, r.ProcessedBy,
			})
		}
		return export.CSV(c, "recalls.csv", recallCSVHeader, rows)
	}
}
