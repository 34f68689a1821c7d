package recall

import (
	"fmt"
	"reflect"
	"time"

	"consignment-backend/internal/models"

	"github.com/shopspring/decimal"
)

// SnapshotUnit copies an on-hand unit into a pending recall row. The row is
// decoupled from the unit from this point on.
func SnapshotUnit(u *models.InventoryUnit, batchID, requestedBy, comment string, now time.Time) models.RecallRecord {
	return models.RecallRecord{
		BatchID:        batchID,
		Company:        u.Owner,
		RequestedBy:    requestedBy,
		RequestTime:    now,
		Comment:        comment,
		Status:         models.RequestPending,
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

func priceEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// equalIgnoringTime: two log rows are the same request if every field matches
// except identifiers and timestamps. This is the double-submission guard.
func equalIgnoringTime(a, b *models.RecallRecord) bool {
	return a.Company == b.Company &&
		a.RequestedBy == b.RequestedBy &&
		a.Comment == b.Comment &&
		a.Status == b.Status &&
		a.InternalSerial == b.InternalSerial &&
		a.MnfrSerial == b.MnfrSerial &&
		a.PartNumber == b.PartNumber &&
		a.CLEI == b.CLEI &&
		a.PO == b.PO &&
		a.POLine == b.POLine &&
		a.RecordDate == b.RecordDate &&
		priceEqual(a.SalesPrice, b.SalesPrice) &&
		priceEqual(a.Cost, b.Cost) &&
		a.TrackingNumber == b.TrackingNumber &&
		a.LocationBin == b.LocationBin &&
		a.LocationWarehouse == b.LocationWarehouse &&
		a.ProcessedBy == b.ProcessedBy &&
		reflect.DeepEqual(a.Attrs, b.Attrs)
}

// FilterDuplicates drops candidate rows already present in the log (same
// fields, timestamps aside). Candidates are also checked against each other.
func FilterDuplicates(candidates, existing []models.RecallRecord) []models.RecallRecord {
	kept := make([]models.RecallRecord, 0, len(candidates))
	for i := range candidates {
		dup := false
		for j := range existing {
			if equalIgnoringTime(&candidates[i], &existing[j]) {
				dup = true
				break
			}
		}
		for j := range kept {
			if dup {
				break
			}
			if equalIgnoringTime(&candidates[i], &kept[j]) {
				dup = true
			}
		}
		if !dup {
			kept = append(kept, candidates[i])
		}
	}
	return kept
}

// Receipt: per-row confirmation details supplied when the operator receives
// recalled equipment.
type Receipt struct {
	RecordID          uint   `json:"id"`
	TrackingNumber    string `json:"tracking_number"`
	LocationBin       string `json:"location_bin"`
	LocationWarehouse string `json:"location_warehouse"`
}

// ValidateReceipts rejects the whole batch when any selected row lacks a
// tracking number; nothing is partially applied.
func ValidateReceipts(records []models.RecallRecord, receipts map[uint]Receipt) error {
	for i := range records {
		r, ok := receipts[records[i].ID]
		if !ok || r.TrackingNumber == "" {
			return fmt.Errorf("recall row %d has no tracking number; batch rejected", records[i].ID)
		}
	}
	return nil
}

// MatchUnitForRemoval picks the single ledger unit a completed recall row
// removes: first by InternalSerial, then by PO, within the row's company.
// Exactly one unit per log row, so indistinguishable duplicates are never
// over-deleted. Returns the index into units, or false when nothing matches.
func MatchUnitForRemoval(units []models.InventoryUnit, rec *models.RecallRecord) (int, bool) {
	if rec.InternalSerial != "" {
		for i := range units {
			if units[i].Owner == rec.Company && units[i].InternalSerial == rec.InternalSerial {
				return i, true
			}
		}
	}
	if rec.PO != "" {
		for i := range units {
			if units[i].Owner == rec.Company && units[i].PO == rec.PO {
				return i, true
			}
		}
	}
	return 0, false
}

// RestockUnit reconstructs a ledger unit from a completed recall row. The
// result is functionally equivalent to the recalled unit, not byte-identical:
// workflow fields are stripped, Company maps back to Owner and the status is
// forced to ON_HAND.
func RestockUnit(rec *models.RecallRecord) models.InventoryUnit {
	return models.InventoryUnit{
		Owner:          rec.Company,
		InternalSerial: rec.InternalSerial,
		MnfrSerial:     rec.MnfrSerial,
		PartNumber:     rec.PartNumber,
		CLEI:           rec.CLEI,
		PO:             rec.PO,
		POLine:         rec.POLine,
		RecordDate:     rec.RecordDate,
		Status:         models.StatusOnHand,
		SalesPrice:     rec.SalesPrice,
		Cost:           rec.Cost,
		Attrs:          rec.Attrs,
	}
}
