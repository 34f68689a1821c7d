package inventory

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetRow: one spreadsheet row mapped onto the known column set. Columns the
// alias table does not recognize are kept verbatim in Attrs.
type SheetRow struct {
	InternalSerial    string
	MnfrSerial        string
	PartNumber        string
	CLEI              string
	PO                string
	POLine            string
	RecordDate        string
	SalesPrice        decimal.NullDecimal
	Cost              decimal.NullDecimal
	TrackingNumber    string
	LocationBin       string
	LocationWarehouse string
	Attrs             map[string]interface{}
}

// Workbook: the three sheets a reconciliation upload may carry. Sold and
// Returned are nil when the workbook has no matching sheet.
type Workbook struct {
	Baseline []SheetRow
	Sold     []SheetRow
	Returned []SheetRow
}

// Header aliases, keyed by the normalized header (lowercased, alphanumerics
// only). Clients ship files with inconsistent column labels.
var headerAliases = map[string]string{
	"internalserial":        "internal_serial",
	"internalsn":            "internal_serial",
	"intserial":             "internal_serial",
	"mnfrserial":            "mnfr_serial",
	"mfrserial":             "mnfr_serial",
	"mfgserial":             "mnfr_serial",
	"manufacturerserial":    "mnfr_serial",
	"partnumber":            "part_number",
	"part":                  "part_number",
	"partno":                "part_number",
	"pn":                    "part_number",
	"clei":                  "clei",
	"po":                    "po",
	"purchaseorder":         "po",
	"poline":                "po_line",
	"polinenumber":          "po_line",
	"date":                  "date",
	"recorddate":            "date",
	"salesprice":            "sales_price",
	"price":                 "sales_price",
	"partnerallocationcost": "cost",
	"cost":                  "cost",
	"trackingnumber":        "tracking_number",
	"tracking":              "tracking_number",
	"locationbin":           "location_bin",
	"bin":                   "location_bin",
	"locationwarehouse":     "location_warehouse",
	"warehouse":             "location_warehouse",
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parsePrice: absent or non-parseable currency values become an explicit
// unknown (Valid=false), never an error.
func parsePrice(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// pickSheet: first sheet whose name contains any of the substrings,
// case-insensitive.
func pickSheet(sheets []string, substrings ...string) string {
	for _, name := range sheets {
		lower := strings.ToLower(name)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return name
			}
		}
	}
	return ""
}

// ParseWorkbook reads an xlsx upload and selects the baseline, sold and
// returned sheets by name. The baseline falls back to the first sheet when no
// name matches; sold and returned are optional.
func ParseWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	baselineName := pickSheet(sheets, "recv", "received", "inv")
	if baselineName == "" {
		baselineName = sheets[0]
	}

	wb := &Workbook{}

	wb.Baseline, err = parseSheet(f, baselineName)
	if err != nil {
		return nil, err
	}
	if len(wb.Baseline) == 0 {
		return nil, fmt.Errorf("baseline sheet %q has no data rows", baselineName)
	}

	if soldName := pickSheet(sheets, "sold"); soldName != "" && soldName != baselineName {
		wb.Sold, err = parseSheet(f, soldName)
		if err != nil {
			return nil, err
		}
	}
	if returnedName := pickSheet(sheets, "return"); returnedName != "" && returnedName != baselineName {
		wb.Returned, err = parseSheet(f, returnedName)
		if err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func parseSheet(f *excelize.File, sheetName string) ([]SheetRow, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// First row is the header row; map each column to a known field or Attrs
	headers := rows[0]
	fields := make([]string, len(headers))
	for i, h := range headers {
		if canonical, ok := headerAliases[normalizeHeader(h)]; ok {
			fields[i] = canonical
		} else {
			fields[i] = "" // unknown column, kept under its original header
		}
	}

	var out []SheetRow
	for _, raw := range rows[1:] {
		row := SheetRow{Attrs: map[string]interface{}{}}
		empty := true
		for i := 0; i < len(headers); i++ {
			// excelize trims trailing empty cells
			val := ""
			if i < len(raw) {
				val = strings.TrimSpace(raw[i])
			}
			if val == "" {
				continue
			}
			empty = false
			switch fields[i] {
			case "internal_serial":
				row.InternalSerial = val
			case "mnfr_serial":
				row.MnfrSerial = val
			case "part_number":
				row.PartNumber = val
			case "clei":
				row.CLEI = val
			case "po":
				row.PO = val
			case "po_line":
				row.POLine = val
			case "date":
				row.RecordDate = val
			case "sales_price":
				row.SalesPrice = parsePrice(val)
			case "cost":
				row.Cost = parsePrice(val)
			case "tracking_number":
				row.TrackingNumber = val
			case "location_bin":
				row.LocationBin = val
			case "location_warehouse":
				row.LocationWarehouse = val
			default:
				row.Attrs[strings.TrimSpace(headers[i])] = val
			}
		}
		if empty {
			continue
		}
		out = append(out, row)
	}

	return out, nil
}
