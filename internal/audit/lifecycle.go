package audit

import (
	"reflect"
	"time"

	"consignment-backend/internal/models"

	"github.com/shopspring/decimal"
)

// SnapshotUnit copies an on-hand unit into a pending audit row.
func SnapshotUnit(u *models.InventoryUnit, batchID, requestedBy, comment string, now time.Time) models.AuditRecord {
	return models.AuditRecord{
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

func equalIgnoringTime(a, b *models.AuditRecord) bool {
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
		a.CompletionNote == b.CompletionNote &&
		a.ProcessedBy == b.ProcessedBy &&
		reflect.DeepEqual(a.Attrs, b.Attrs)
}

// FilterDuplicates: double-submission guard, same rule as the recall log.
func FilterDuplicates(candidates, existing []models.AuditRecord) []models.AuditRecord {
	kept := make([]models.AuditRecord, 0, len(candidates))
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

// Complete marks a pending audit row verified. Audits never touch the master
// ledger; the unit stays on hand.
func Complete(rec *models.AuditRecord, processedBy, note string, now time.Time) {
	rec.Status = models.RequestCompleted
	rec.CompletionNote = note
	rec.ProcessedBy = processedBy
	rec.ProcessedAt = &now
}
