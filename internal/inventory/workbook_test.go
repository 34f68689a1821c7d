package inventory

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, name := range order {
		if first {
			f.SetSheetName(f.GetSheetName(0), name)
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("could not add sheet %s: %v", name, err)
			}
		}
		for i, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("could not write row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("could not serialize workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbookSheetSelection(t *testing.T) {
	r := buildWorkbook(t, map[string][][]interface{}{
		"Summary": {
			{"Internal Serial"},
			{"IGNORED"},
		},
		"Inventory Recvd": {
			{"Internal Serial", "Part #"},
			{"S1", "P1"},
			{"S2", "P2"},
		},
		"Units SOLD": {
			{"Internal Serial", "Sales Price"},
			{"S1", "150.00"},
		},
		"Customer Returns": {
			{"Internal Serial", "Tracking Number"},
			{"S2", "1Z42"},
		},
	}, []string{"Summary", "Inventory Recvd", "Units SOLD", "Customer Returns"})

	wb, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}

	if len(wb.Baseline) != 2 {
		t.Fatalf("baseline rows = %d, want 2 (selected by sheet name, not position)", len(wb.Baseline))
	}
	if wb.Baseline[0].InternalSerial != "S1" || wb.Baseline[0].PartNumber != "P1" {
		t.Errorf("baseline row = %+v", wb.Baseline[0])
	}
	if len(wb.Sold) != 1 || wb.Sold[0].InternalSerial != "S1" {
		t.Fatalf("sold rows = %+v, want the Units SOLD sheet", wb.Sold)
	}
	if !wb.Sold[0].SalesPrice.Valid || wb.Sold[0].SalesPrice.Decimal.String() != "150" {
		t.Errorf("sold price = %+v, want 150", wb.Sold[0].SalesPrice)
	}
	if len(wb.Returned) != 1 || wb.Returned[0].TrackingNumber != "1Z42" {
		t.Fatalf("returned rows = %+v, want the Customer Returns sheet", wb.Returned)
	}
}

func TestParseWorkbookBaselineFallsBackToFirstSheet(t *testing.T) {
	r := buildWorkbook(t, map[string][][]interface{}{
		"Sheet A": {
			{"Internal Serial"},
			{"S1"},
		},
	}, []string{"Sheet A"})

	wb, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(wb.Baseline) != 1 || wb.Baseline[0].InternalSerial != "S1" {
		t.Fatalf("baseline = %+v, want the first sheet", wb.Baseline)
	}
	if wb.Sold != nil || wb.Returned != nil {
		t.Fatalf("sold/returned should be absent, got %v / %v", wb.Sold, wb.Returned)
	}
}

func TestParseWorkbookHeaderAliases(t *testing.T) {
	r := buildWorkbook(t, map[string][][]interface{}{
		"Inventory": {
			{"Internal Serial", "Mnfr Serial", "Part #", "CLEI", "PO", "PO Line Number", "Date", "Partner Allocation Cost", "Color"},
			{"S1", "M1", "P1", "C1", "PO-1", "4", "2025-06-01", "$1,234.50", "Blue"},
		},
	}, []string{"Inventory"})

	wb, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}

	row := wb.Baseline[0]
	if row.InternalSerial != "S1" || row.MnfrSerial != "M1" || row.PartNumber != "P1" {
		t.Errorf("keys = %q/%q/%q", row.InternalSerial, row.MnfrSerial, row.PartNumber)
	}
	if row.CLEI != "C1" || row.PO != "PO-1" || row.POLine != "4" || row.RecordDate != "2025-06-01" {
		t.Errorf("descriptive fields = %+v", row)
	}
	if !row.Cost.Valid || row.Cost.Decimal.String() != "1234.5" {
		t.Errorf("cost = %+v, want 1234.5", row.Cost)
	}
	if row.Attrs["Color"] != "Blue" {
		t.Errorf("unknown column not kept in attrs: %+v", row.Attrs)
	}
}

func TestParseWorkbookNonNumericPriceIsUnknown(t *testing.T) {
	r := buildWorkbook(t, map[string][][]interface{}{
		"Inventory": {
			{"Internal Serial", "Sales Price"},
			{"S1", "n/a"},
		},
	}, []string{"Inventory"})

	wb, err := ParseWorkbook(r)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if wb.Baseline[0].SalesPrice.Valid {
		t.Fatalf("price = %+v, want explicit unknown", wb.Baseline[0].SalesPrice)
	}
}

func TestParseWorkbookEmptyBaselineFails(t *testing.T) {
	r := buildWorkbook(t, map[string][][]interface{}{
		"Inventory": {
			{"Internal Serial", "Part #"},
		},
	}, []string{"Inventory"})

	if _, err := ParseWorkbook(r); err == nil {
		t.Fatal("expected an error for a baseline sheet with no data rows")
	}
}
