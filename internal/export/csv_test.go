package export

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRender(t *testing.T) {
	body, err := Render(
		[]string{"Owner", "Part Number"},
		[][]string{
			{"Acme", "P1"},
			{"Acme", "has,comma"},
		},
	)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "Owner,Part Number\nAcme,P1\nAcme,\"has,comma\"\n"
	if string(body) != want {
		t.Fatalf("csv = %q, want %q", body, want)
	}
}

func TestPrice(t *testing.T) {
	if got := Price(decimal.NullDecimal{}); got != "" {
		t.Errorf("unknown price = %q, want empty cell", got)
	}

	d := decimal.NewFromFloat(1234.5)
	if got := Price(decimal.NullDecimal{Decimal: d, Valid: true}); got != "1234.50" {
		t.Errorf("price = %q, want 1234.50", got)
	}
}
