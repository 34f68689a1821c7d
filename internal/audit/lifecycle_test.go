package audit

import (
	"testing"
	"time"

	"consignment-backend/internal/models"
)

func sampleUnit() models.InventoryUnit {
	return models.InventoryUnit{
		Owner:          "Acme",
		InternalSerial: "S1",
		PartNumber:     "P1",
		PO:             "PO-1",
		Status:         models.StatusOnHand,
	}
}

func TestSnapshotUnitStartsPending(t *testing.T) {
	unit := sampleUnit()
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	rec := SnapshotUnit(&unit, "batch-1", "alice", "quarterly count", now)

	if rec.Status != models.RequestPending {
		t.Errorf("status = %q, want Pending", rec.Status)
	}
	if rec.Company != "Acme" || rec.InternalSerial != "S1" || rec.PartNumber != "P1" || rec.PO != "PO-1" {
		t.Errorf("snapshot fields = %+v", rec)
	}
	if rec.RequestedBy != "alice" || rec.Comment != "quarterly count" || !rec.RequestTime.Equal(now) {
		t.Errorf("request metadata = %+v", rec)
	}
}

func TestFilterDuplicatesDropsResubmission(t *testing.T) {
	unit := sampleUnit()
	first := SnapshotUnit(&unit, "b1", "alice", "count", time.Now())
	second := SnapshotUnit(&unit, "b2", "alice", "count", time.Now().Add(time.Minute))

	kept := FilterDuplicates([]models.AuditRecord{second}, []models.AuditRecord{first})
	if len(kept) != 0 {
		t.Fatalf("kept = %d, want resubmission dropped", len(kept))
	}
}

func TestFilterDuplicatesCompletedRowDoesNotBlock(t *testing.T) {
	unit := sampleUnit()
	now := time.Now()

	done := SnapshotUnit(&unit, "b1", "alice", "count", now)
	Complete(&done, "ops", "verified", now)

	fresh := SnapshotUnit(&unit, "b2", "alice", "count", now)

	kept := FilterDuplicates([]models.AuditRecord{fresh}, []models.AuditRecord{done})
	if len(kept) != 1 {
		t.Fatalf("kept = %d, want a new request after the old one completed", len(kept))
	}
}

func TestFilterDuplicatesWithinBatch(t *testing.T) {
	unit := sampleUnit()
	now := time.Now()
	a := SnapshotUnit(&unit, "b1", "alice", "count", now)
	b := SnapshotUnit(&unit, "b1", "alice", "count", now)

	kept := FilterDuplicates([]models.AuditRecord{a, b}, nil)
	if len(kept) != 1 {
		t.Fatalf("kept = %d, want in-batch duplicate collapsed", len(kept))
	}
}

func TestComplete(t *testing.T) {
	unit := sampleUnit()
	rec := SnapshotUnit(&unit, "b1", "alice", "count", time.Now())
	done := time.Date(2026, 4, 3, 14, 30, 0, 0, time.UTC)

	Complete(&rec, "ops", "all present", done)

	if rec.Status != models.RequestCompleted {
		t.Errorf("status = %q, want Completed", rec.Status)
	}
	if rec.CompletionNote != "all present" || rec.ProcessedBy != "ops" {
		t.Errorf("completion fields = %+v", rec)
	}
	if rec.ProcessedAt == nil || !rec.ProcessedAt.Equal(done) {
		t.Errorf("processed_at = %v, want %v", rec.ProcessedAt, done)
	}
}
