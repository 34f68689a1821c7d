package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AuditRecord: one row of the audit log. Audits verify on-hand equipment
// without physical movement, so completing one never mutates the ledger.
type AuditRecord struct {
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

	CompletionNote string     `gorm:"size:255" json:"completion_note"`
	ProcessedBy    string     `gorm:"size:100" json:"processed_by"`
	ProcessedAt    *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
