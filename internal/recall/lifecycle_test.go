package recall

import (
	"testing"
	"time"

	"consignment-backend/internal/models"
)

func onHandUnit(owner, serial, po, part string) models.InventoryUnit {
	return models.InventoryUnit{
		Owner:          owner,
		InternalSerial: serial,
		PO:             po,
		PartNumber:     part,
		Status:         models.StatusOnHand,
	}
}

func TestFilterDuplicatesDropsResubmission(t *testing.T) {
	unit := onHandUnit("Acme", "S1", "PO-1", "P1")
	first := SnapshotUnit(&unit, "batch-1", "alice", "please recall", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	// Same selection submitted again: new batch, new timestamp, same fields
	second := SnapshotUnit(&unit, "batch-2", "alice", "please recall", time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC))

	kept := FilterDuplicates([]models.RecallRecord{second}, []models.RecallRecord{first})
	if len(kept) != 0 {
		t.Fatalf("kept = %d, want duplicate suppressed", len(kept))
	}
}

func TestFilterDuplicatesKeepsDistinctRequests(t *testing.T) {
	unit := onHandUnit("Acme", "S1", "PO-1", "P1")
	now := time.Now()
	existing := SnapshotUnit(&unit, "b1", "alice", "first", now)

	differentComment := SnapshotUnit(&unit, "b2", "alice", "second", now)
	differentUser := SnapshotUnit(&unit, "b3", "bob", "first", now)

	kept := FilterDuplicates(
		[]models.RecallRecord{differentComment, differentUser},
		[]models.RecallRecord{existing},
	)
	if len(kept) != 2 {
		t.Fatalf("kept = %d, want 2 distinct requests", len(kept))
	}
}

func TestFilterDuplicatesWithinBatch(t *testing.T) {
	unit := onHandUnit("Acme", "S1", "PO-1", "P1")
	now := time.Now()
	a := SnapshotUnit(&unit, "b1", "alice", "x", now)
	b := SnapshotUnit(&unit, "b1", "alice", "x", now)

	kept := FilterDuplicates([]models.RecallRecord{a, b}, nil)
	if len(kept) != 1 {
		t.Fatalf("kept = %d, want in-batch duplicate collapsed", len(kept))
	}
}

func TestValidateReceiptsRejectsMissingTracking(t *testing.T) {
	records := []models.RecallRecord{{ID: 1}, {ID: 2}}
	receipts := map[uint]Receipt{
		1: {RecordID: 1, TrackingNumber: "1Z1"},
		2: {RecordID: 2}, // no tracking number
	}

	if err := ValidateReceipts(records, receipts); err == nil {
		t.Fatal("expected the whole batch to be rejected")
	}

	receipts[2] = Receipt{RecordID: 2, TrackingNumber: "1Z2"}
	if err := ValidateReceipts(records, receipts); err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
}

func TestMatchUnitForRemovalSerialBeforePO(t *testing.T) {
	units := []models.InventoryUnit{
		onHandUnit("Acme", "", "PO-1", "P1"),
		onHandUnit("Acme", "S1", "PO-2", "P1"),
	}
	rec := models.RecallRecord{Company: "Acme", InternalSerial: "S1", PO: "PO-1"}

	idx, ok := MatchUnitForRemoval(units, &rec)
	if !ok || idx != 1 {
		t.Fatalf("idx = %d ok = %v, want the serial match at 1", idx, ok)
	}
}

func TestMatchUnitForRemovalFallsBackToPO(t *testing.T) {
	units := []models.InventoryUnit{
		onHandUnit("Acme", "S9", "PO-1", "P1"),
	}
	rec := models.RecallRecord{Company: "Acme", PO: "PO-1"}

	idx, ok := MatchUnitForRemoval(units, &rec)
	if !ok || idx != 0 {
		t.Fatalf("idx = %d ok = %v, want PO fallback", idx, ok)
	}
}

func TestMatchUnitForRemovalScopedToCompany(t *testing.T) {
	units := []models.InventoryUnit{
		onHandUnit("Other", "S1", "PO-1", "P1"),
	}
	rec := models.RecallRecord{Company: "Acme", InternalSerial: "S1", PO: "PO-1"}

	if _, ok := MatchUnitForRemoval(units, &rec); ok {
		t.Fatal("matched a unit owned by another tenant")
	}
}

func TestMatchUnitForRemovalOnePerRecord(t *testing.T) {
	// Five indistinguishable units: each log row claims exactly one.
	units := []models.InventoryUnit{}
	for i := 0; i < 5; i++ {
		units = append(units, onHandUnit("Acme", "", "PO-1", "X"))
	}
	rec := models.RecallRecord{Company: "Acme", PO: "PO-1"}

	removed := 0
	for i := 0; i < 2; i++ {
		idx, ok := MatchUnitForRemoval(units, &rec)
		if !ok {
			t.Fatalf("no match on pass %d", i)
		}
		units = append(units[:idx], units[idx+1:]...)
		removed++
	}
	if removed != 2 || len(units) != 3 {
		t.Fatalf("removed = %d remaining = %d, want 2/3", removed, len(units))
	}
}

func TestMatchUnitForRemovalNoMatchIsNoOp(t *testing.T) {
	units := []models.InventoryUnit{onHandUnit("Acme", "S1", "PO-1", "P1")}
	rec := models.RecallRecord{Company: "Acme", InternalSerial: "S404"}

	if _, ok := MatchUnitForRemoval(units, &rec); ok {
		t.Fatal("expected no match for an absent serial without a PO")
	}
}

func TestRestockUnit(t *testing.T) {
	now := time.Now()
	rec := models.RecallRecord{
		Company:        "Acme",
		Status:         models.RequestCompleted,
		InternalSerial: "S1",
		MnfrSerial:     "M1",
		PartNumber:     "P1",
		CLEI:           "C1",
		PO:             "PO-1",
		POLine:         "2",
		RecordDate:     "2025-06-01",
		TrackingNumber: "1Z1",
		ProcessedBy:    "ops",
		ProcessedAt:    &now,
	}

	unit := RestockUnit(&rec)

	if unit.Owner != "Acme" {
		t.Errorf("owner = %q, want the log row's company", unit.Owner)
	}
	if unit.Status != models.StatusOnHand {
		t.Errorf("status = %q, want ON_HAND", unit.Status)
	}
	if unit.InternalSerial != "S1" || unit.MnfrSerial != "M1" || unit.PartNumber != "P1" ||
		unit.CLEI != "C1" || unit.PO != "PO-1" || unit.POLine != "2" || unit.RecordDate != "2025-06-01" {
		t.Errorf("descriptive fields not carried over: %+v", unit)
	}
	if unit.ID != 0 {
		t.Errorf("id = %d, want a fresh row", unit.ID)
	}
}
