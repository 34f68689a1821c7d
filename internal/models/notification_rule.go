package models

import "time"

// NotificationRuleAll: wildcard company value, the rule's address is notified
// for every tenant's recalls.
const NotificationRuleAll = "ALL"

type NotificationRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Company   string    `gorm:"size:100;index;not null" json:"company"` // tenant name or "ALL"
	Email     string    `gorm:"size:100;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
