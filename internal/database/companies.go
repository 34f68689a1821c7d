package database

import (
	"strings"

	"consignment-backend/internal/models"

	"gorm.io/gorm"
)

// SyncCompanies harvests company names from user accounts and inventory
// owners and creates registry rows for any that are missing. Matching is
// case-insensitive on the trimmed name; the first spelling seen wins.
// Returns the number of companies created.
func SyncCompanies(db *gorm.DB) (int, error) {
	var existing []models.Company
	if err := db.Find(&existing).Error; err != nil {
		return 0, err
	}

	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}

	var names []string
	if err := db.Model(&models.User{}).Distinct("company").Pluck("company", &names).Error; err != nil {
		return 0, err
	}
	var owners []string
	if err := db.Model(&models.InventoryUnit{}).Distinct("owner").Pluck("owner", &owners).Error; err != nil {
		return 0, err
	}
	names = append(names, owners...)

	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if known[key] {
			continue
		}
		if err := db.Create(&models.Company{Name: name}).Error; err != nil {
			return created, err
		}
		known[key] = true
		created++
	}

	return created, nil
}
