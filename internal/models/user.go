package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"
)

// GlobalCompany: users of the operator company see every tenant's data,
// regardless of role.
const GlobalCompany = "WestWorld"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null" json:"role"`
	Company      string    `gorm:"size:100;index" json:"company"`
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"size:100" json:"email"`
	Theme        string    `gorm:"size:50" json:"theme"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanSeeAllCompanies: admins and operator-company managers see all tenants.
func (u *User) CanSeeAllCompanies() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleManager && u.Company == GlobalCompany
}
