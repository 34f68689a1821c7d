package inventory

import (
	"fmt"
	"strings"

	"consignment-backend/internal/auth"
	"consignment-backend/internal/database"
	"consignment-backend/internal/export"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// scopedOwner: which tenant slice the caller may see. Global callers may pass
// ?owner= to inspect a specific tenant ("view as"); everyone else is pinned
// to their own company.
func scopedOwner(c *fiber.Ctx) (string, error) {
	caller, err := auth.CallerFromContext(c)
	if err != nil {
		return "", err
	}
	if caller.CanSeeAllCompanies() {
		return strings.TrimSpace(c.Query("owner")), nil
	}
	return caller.Company, nil
}

func queryUnits(c *fiber.Ctx) ([]models.InventoryUnit, error) {
	owner, err := scopedOwner(c)
	if err != nil {
		return nil, err
	}

	db := database.DB.Model(&models.InventoryUnit{}).Order("id")
	if owner != "" {
		db = db.Where("owner = ?", owner)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		db = db.Where("status = ?", strings.ToUpper(status))
	}

	var units []models.InventoryUnit
	if err := db.Find(&units).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load inventory")
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filtered := units[:0]
		for _, u := range units {
			if unitMatches(&u, q) {
				filtered = append(filtered, u)
			}
		}
		units = filtered
	}

	return units, nil
}

// unitMatches: case-insensitive substring search across every descriptive
// field, mirroring the portal's search box.
func unitMatches(u *models.InventoryUnit, q string) bool {
	q = strings.ToLower(q)
	fields := []string{
		u.Owner, u.InternalSerial, u.MnfrSerial, u.PartNumber,
		u.CLEI, u.PO, u.POLine, u.RecordDate, string(u.Status),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, v := range u.Attrs {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
			return true
		}
	}
	return false
}

// GET /api/inventory
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		units, err := queryUnits(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"count": len(units),
			"units": units,
		})
	}
}

var unitCSVHeader = []string{
	"owner", "status", "internal_serial", "mnfr_serial", "part_number",
	"clei", "po", "po_line", "date", "sales_price", "cost",
}

func unitCSVRow(u *models.InventoryUnit) []string {
	return []string{
		u.Owner, string(u.Status), u.InternalSerial, u.MnfrSerial, u.PartNumber,
		u.CLEI, u.PO, u.POLine, u.RecordDate,
		export.Price(u.SalesPrice), export.Price(u.Cost),
	}
}

// GET /api/inventory/export
func ExportInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		units, err := queryUnits(c)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(units))
		for i := range units {
			rows = append(rows, unitCSVRow(&units[i]))
		}
		return export.CSV(c, "inventory.csv", unitCSVHeader, rows)
	}
}
