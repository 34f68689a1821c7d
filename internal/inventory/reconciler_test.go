package inventory

import (
	"testing"

	"consignment-backend/internal/models"

	"github.com/shopspring/decimal"
)

func price(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test price %q: %v", s, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func wantPrice(t *testing.T, got decimal.NullDecimal, want string) {
	t.Helper()
	if !got.Valid {
		t.Fatalf("price is unknown, want %s", want)
	}
	if got.Decimal.String() != want {
		t.Fatalf("price = %s, want %s", got.Decimal.String(), want)
	}
}

func TestReconcileBaselineDefaults(t *testing.T) {
	wb := &Workbook{
		Baseline: []SheetRow{
			{InternalSerial: "S1", PartNumber: "P1", PO: "PO-9"},
			{MnfrSerial: "M2"},
		},
	}

	result := Reconcile(wb, "Acme")

	if len(result.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(result.Units))
	}
	for _, u := range result.Units {
		if u.Owner != "Acme" {
			t.Errorf("owner = %q, want Acme", u.Owner)
		}
		if u.Status != models.StatusOnHand {
			t.Errorf("status = %q, want ON_HAND", u.Status)
		}
		wantPrice(t, u.SalesPrice, "0")
		wantPrice(t, u.Cost, "0")
	}
	if result.Sold != 0 || len(result.Returns) != 0 {
		t.Fatalf("sold = %d, returns = %d, want 0/0", result.Sold, len(result.Returns))
	}
}

func TestSoldTierPriority(t *testing.T) {
	wb := &Workbook{
		Baseline: []SheetRow{
			{InternalSerial: "A", MnfrSerial: "M1", PartNumber: "P1"},
			{MnfrSerial: "M1", PartNumber: "P1"},
			{PartNumber: "P1"},
		},
		Sold: []SheetRow{
			{InternalSerial: "A", SalesPrice: price(t, "10")},
			{MnfrSerial: "M1", SalesPrice: price(t, "20")},
			{PartNumber: "P1", SalesPrice: price(t, "30")},
		},
	}

	result := Reconcile(wb, "Acme")

	if result.Sold != 3 {
		t.Fatalf("sold = %d, want 3", result.Sold)
	}
	// The serial tier claims the first unit; it must not be re-priced by the
	// weaker keys it also carries.
	wantPrice(t, result.Units[0].SalesPrice, "10")
	wantPrice(t, result.Units[1].SalesPrice, "20")
	wantPrice(t, result.Units[2].SalesPrice, "30")
	for i, u := range result.Units {
		if u.Status != models.StatusSold {
			t.Errorf("unit %d status = %q, want SOLD", i, u.Status)
		}
	}
}

func TestSoldLastOccurrenceWins(t *testing.T) {
	wb := &Workbook{
		Baseline: []SheetRow{{InternalSerial: "A"}},
		Sold: []SheetRow{
			{InternalSerial: "A", SalesPrice: price(t, "10"), Cost: price(t, "5")},
			{InternalSerial: "A", SalesPrice: price(t, "99"), Cost: price(t, "45")},
		},
	}

	result := Reconcile(wb, "Acme")

	if result.Sold != 1 {
		t.Fatalf("sold = %d, want 1", result.Sold)
	}
	wantPrice(t, result.Units[0].SalesPrice, "99")
	wantPrice(t, result.Units[0].Cost, "45")
}

func TestPartNumberMatchesOneUnit(t *testing.T) {
	// Five indistinguishable units, one sold row: exactly one becomes SOLD.
	wb := &Workbook{
		Baseline: []SheetRow{
			{PartNumber: "X"}, {PartNumber: "X"}, {PartNumber: "X"},
			{PartNumber: "X"}, {PartNumber: "X"},
		},
		Sold: []SheetRow{
			{PartNumber: "X", SalesPrice: price(t, "100")},
		},
	}

	result := Reconcile(wb, "Acme")

	sold, onHand := 0, 0
	for _, u := range result.Units {
		switch u.Status {
		case models.StatusSold:
			sold++
			wantPrice(t, u.SalesPrice, "100")
		case models.StatusOnHand:
			onHand++
		}
	}
	if sold != 1 || onHand != 4 {
		t.Fatalf("sold = %d, on hand = %d, want 1/4", sold, onHand)
	}
}

func TestReturnedExtraction(t *testing.T) {
	wb := &Workbook{
		Baseline: []SheetRow{
			{InternalSerial: "A"}, {InternalSerial: "B"},
			{InternalSerial: "C"}, {InternalSerial: "D"},
		},
		Returned: []SheetRow{
			{InternalSerial: "B", TrackingNumber: "1Z999", LocationBin: "B-7", LocationWarehouse: "East"},
			{InternalSerial: "D"},
		},
	}

	result := Reconcile(wb, "Acme")

	if len(result.Units) != 2 {
		t.Fatalf("units = %d, want baseline(4) - returned(2) = 2", len(result.Units))
	}
	if len(result.Returns) != 2 {
		t.Fatalf("returns = %d, want 2", len(result.Returns))
	}
	for _, r := range result.Returns {
		if r.Status != models.RequestCompleted {
			t.Errorf("return status = %q, want Completed", r.Status)
		}
		if r.ProcessedBy != models.SystemProcessor {
			t.Errorf("processed_by = %q, want %q", r.ProcessedBy, models.SystemProcessor)
		}
		if r.Company != "Acme" {
			t.Errorf("company = %q, want Acme", r.Company)
		}
	}
	if result.Returns[0].TrackingNumber != "1Z999" || result.Returns[0].LocationBin != "B-7" || result.Returns[0].LocationWarehouse != "East" {
		t.Errorf("receipt fields not carried over: %+v", result.Returns[0])
	}
	for _, u := range result.Units {
		if u.InternalSerial == "B" || u.InternalSerial == "D" {
			t.Errorf("extracted unit %s still in ledger", u.InternalSerial)
		}
	}
}

func TestReturnedUnitExtractedOnce(t *testing.T) {
	// The returned row carries both a serial and a part number; the serial
	// tier extracts the unit and the part tier must not produce a second
	// record for it.
	wb := &Workbook{
		Baseline: []SheetRow{{InternalSerial: "A", PartNumber: "X"}},
		Returned: []SheetRow{{InternalSerial: "A", PartNumber: "X"}},
	}

	result := Reconcile(wb, "Acme")

	if len(result.Units) != 0 {
		t.Fatalf("units = %d, want 0", len(result.Units))
	}
	if len(result.Returns) != 1 {
		t.Fatalf("returns = %d, want exactly 1", len(result.Returns))
	}
}

func TestSoldSheetAbsent(t *testing.T) {
	wb := &Workbook{
		Baseline: []SheetRow{{InternalSerial: "A"}, {InternalSerial: "B"}},
	}

	result := Reconcile(wb, "Acme")

	for _, u := range result.Units {
		if u.Status != models.StatusOnHand {
			t.Errorf("status = %q, want ON_HAND with no sold sheet", u.Status)
		}
	}
}

func TestSoldUnknownPriceKeepsZero(t *testing.T) {
	// A sold row with no parseable price still marks the unit sold but keeps
	// the initialized zero rather than writing an unknown over it.
	wb := &Workbook{
		Baseline: []SheetRow{{InternalSerial: "A"}},
		Sold:     []SheetRow{{InternalSerial: "A"}},
	}

	result := Reconcile(wb, "Acme")

	if result.Units[0].Status != models.StatusSold {
		t.Fatalf("status = %q, want SOLD", result.Units[0].Status)
	}
	wantPrice(t, result.Units[0].SalesPrice, "0")
}
