package inventory

import (
	"time"

	"consignment-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Result: the output of one reconciliation pass. Units is the tenant's new
// ledger slice; Returns holds the completed recall rows produced by the
// returned sheet.
type Result struct {
	Units   []models.InventoryUnit
	Returns []models.RecallRecord
	Sold    int
}

// matchTiers: the fixed key priority for sold/returned matching. PartNumber
// is the weakest key and only applies to rows no stronger key claimed.
var matchTiers = []struct {
	name    string
	rowKey  func(SheetRow) string
	unitKey func(*models.InventoryUnit) string
}{
	{"internal_serial", func(r SheetRow) string { return r.InternalSerial }, func(u *models.InventoryUnit) string { return u.InternalSerial }},
	{"mnfr_serial", func(r SheetRow) string { return r.MnfrSerial }, func(u *models.InventoryUnit) string { return u.MnfrSerial }},
	{"part_number", func(r SheetRow) string { return r.PartNumber }, func(u *models.InventoryUnit) string { return u.PartNumber }},
}

// Reconcile turns one parsed workbook into the tenant's ledger slice.
// Baseline rows start ON_HAND with zero prices; sold rows mark matching units
// SOLD and copy their price fields; returned rows extract matching units into
// completed recall records.
func Reconcile(wb *Workbook, owner string) *Result {
	zero := decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}

	units := make([]models.InventoryUnit, 0, len(wb.Baseline))
	for _, r := range wb.Baseline {
		u := models.InventoryUnit{
			Owner:          owner,
			InternalSerial: r.InternalSerial,
			MnfrSerial:     r.MnfrSerial,
			PartNumber:     r.PartNumber,
			CLEI:           r.CLEI,
			PO:             r.PO,
			POLine:         r.POLine,
			RecordDate:     r.RecordDate,
			Status:         models.StatusOnHand,
			SalesPrice:     zero,
			Cost:           zero,
		}
		if len(r.Attrs) > 0 {
			u.Attrs = datatypes.JSONMap(r.Attrs)
		}
		units = append(units, u)
	}

	result := &Result{}

	// Sold pass: annotate in place
	matched := make([]bool, len(units))
	for _, tier := range matchTiers {
		for _, key := range dedupKeys(wb.Sold, tier.rowKey) {
			row := lastRowForKey(wb.Sold, tier.rowKey, key)
			for i := range units {
				if matched[i] || tier.unitKey(&units[i]) != key {
					continue
				}
				matched[i] = true
				units[i].Status = models.StatusSold
				if row.SalesPrice.Valid {
					units[i].SalesPrice = row.SalesPrice
				}
				if row.Cost.Valid {
					units[i].Cost = row.Cost
				}
				result.Sold++
				break // one unit per surviving key
			}
		}
	}

	// Returned pass: extract into completed recall rows
	if len(wb.Returned) > 0 {
		batchID := uuid.NewString()
		now := time.Now()
		extracted := make([]bool, len(units))
		for _, tier := range matchTiers {
			for _, key := range dedupKeys(wb.Returned, tier.rowKey) {
				row := lastRowForKey(wb.Returned, tier.rowKey, key)
				for i := range units {
					if extracted[i] || tier.unitKey(&units[i]) != key {
						continue
					}
					extracted[i] = true
					rec := recallFromUnit(&units[i])
					rec.BatchID = batchID
					rec.RequestedBy = models.SystemProcessor
					rec.RequestTime = now
					rec.Status = models.RequestCompleted
					rec.ProcessedBy = models.SystemProcessor
					rec.ProcessedAt = &now
					rec.TrackingNumber = row.TrackingNumber
					rec.LocationBin = row.LocationBin
					rec.LocationWarehouse = row.LocationWarehouse
					result.Returns = append(result.Returns, rec)
					break
				}
			}
		}

		kept := units[:0]
		for i := range units {
			if !extracted[i] {
				kept = append(kept, units[i])
			}
		}
		units = kept
	}

	result.Units = units
	return result
}

// dedupKeys: distinct non-empty keys of the sheet, in first-occurrence order.
func dedupKeys(rows []SheetRow, key func(SheetRow) string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range rows {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// lastRowForKey: when a key repeats on the sheet, the last occurrence's
// values win.
func lastRowForKey(rows []SheetRow, key func(SheetRow) string, k string) SheetRow {
	var out SheetRow
	for _, r := range rows {
		if key(r) == k {
			out = r
		}
	}
	return out
}

func recallFromUnit(u *models.InventoryUnit) models.RecallRecord {
	return models.RecallRecord{
		Company:        u.Owner,
		InternalSerial: u.InternalSerial,
		MnfrSerial:     u.MnfrSerial,
		PartNumber:     u.PartNumber,
		CLEI:           u.CLEI,
		PO:             u.PO,
		POLine:         u.POLine,
		RecordDate:     u.RecordDate,
		SalesPrice:     u.SalesPrice,
		Cost:           u.Cost,
		Attrs:          u.Attrs,
	}
}
