package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CSV renders rows as a downloadable CSV attachment.
func CSV(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	body, err := Render(header, rows)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV export")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

// Render builds the CSV bytes; split out so tests can check output without a
// fiber context.
func Render(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Price renders a nullable currency value; unknown prices export as empty
// cells rather than zeroes.
func Price(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
