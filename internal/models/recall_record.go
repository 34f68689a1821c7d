package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestCompleted RequestStatus = "Completed"
	RequestRestocked RequestStatus = "Restocked"
)

// SystemProcessor: ProcessedBy value for recall rows created automatically
// from a "returned" upload sheet.
const SystemProcessor = "System Upload"

// RecallRecord: one row of the recall log. It snapshots the unit's
// descriptive fields at request time; mutating the log never touches the
// master ledger until an explicit receive/restock transition runs.
type RecallRecord struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	BatchID     string        `gorm:"size:36;index" json:"batch_id"`
	Company     string        `gorm:"size:100;index;not null" json:"company"`
	RequestedBy string        `gorm:"size:100" json:"requested_by"`
	RequestTime time.Time     `json:"request_time"`
	Comment     string        `gorm:"size:255" json:"comment"`
	Status      RequestStatus `gorm:"size:20;index;not null" json:"status"`

	// Unit snapshot
	InternalSerial string              `gorm:"size:100" json:"internal_serial"`
	MnfrSerial     string              `gorm:"size:100" json:"mnfr_serial"`
	PartNumber     string              `gorm:"size:100" json:"part_number"`
	CLEI           string              `gorm:"size:50" json:"clei"`
	PO             string              `gorm:"size:100" json:"po"`
	POLine         string              `gorm:"size:50" json:"po_line"`
	RecordDate     string              `gorm:"size:50" json:"record_date"`
	SalesPrice     decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"sales_price"`
	Cost           decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cost"`
	Attrs          datatypes.JSONMap   `json:"attrs"`

	// Receipt details, filled when the recall is confirmed received
	TrackingNumber    string     `gorm:"size:100" json:"tracking_number"`
	LocationBin       string     `gorm:"size:100" json:"location_bin"`
	LocationWarehouse string     `gorm:"size:100" json:"location_warehouse"`
	ProcessedBy       string     `gorm:"size:100" json:"processed_by"`
	ProcessedAt       *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
