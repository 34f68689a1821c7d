package models

import "time"

// Company: a tenant. Every inventory unit and request record belongs to
// exactly one company, keyed by name.
type Company struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null;unique" json:"name"`
	Address      string    `gorm:"size:255" json:"address"`
	ContactName  string    `gorm:"size:100" json:"contact_name"`
	ContactEmail string    `gorm:"size:100" json:"contact_email"`
	ContactPhone string    `gorm:"size:50" json:"contact_phone"`
	LogoPath     string    `gorm:"size:255" json:"logo_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
