package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type UnitStatus string

const (
	StatusOnHand UnitStatus = "ON_HAND"
	StatusSold   UnitStatus = "SOLD"
)

// InventoryUnit: one physical unit of consigned equipment in the master
// ledger. InternalSerial, MnfrSerial and PartNumber are the matching keys, in
// that priority order; none is guaranteed unique. Columns the upload sheet
// carries beyond the known set land in Attrs.
type InventoryUnit struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Owner          string     `gorm:"size:100;index;not null" json:"owner"`
	InternalSerial string     `gorm:"size:100;index" json:"internal_serial"`
	MnfrSerial     string     `gorm:"size:100;index" json:"mnfr_serial"`
	PartNumber     string     `gorm:"size:100;index" json:"part_number"`
	CLEI           string     `gorm:"size:50" json:"clei"`
	PO             string     `gorm:"size:100" json:"po"`
	POLine         string     `gorm:"size:50" json:"po_line"`
	RecordDate     string     `gorm:"size:50" json:"record_date"`
	Status         UnitStatus `gorm:"size:20;index;not null" json:"status"`

	SalesPrice decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"sales_price"`
	Cost       decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cost"`

	Attrs datatypes.JSONMap `json:"attrs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
