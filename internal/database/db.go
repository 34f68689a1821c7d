package database

import (
	"log"

	"consignment-backend/internal/config"
	"consignment-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	// Legacy role migration: early deployments stored viewer accounts with
	// role 'client'. Run before AutoMigrate so existing rows stay valid.
	if DB.Migrator().HasTable(&models.User{}) {
		var legacyCount int64
		DB.Raw("SELECT COUNT(*) FROM users WHERE role = 'client'").Scan(&legacyCount)
		if legacyCount > 0 {
			log.Printf("Migrating %d legacy 'client' users to role 'viewer'...", legacyCount)
			if err := DB.Exec("UPDATE users SET role = 'viewer' WHERE role = 'client'").Error; err != nil {
				log.Printf("Legacy role migration failed: %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.InventoryUnit{},
		&models.RecallRecord{},
		&models.AuditRecord{},
		&models.NotificationRule{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Companies appear in three independent places (registry, user accounts,
	// inventory owners); reconcile them into the registry on every start so
	// uploads done before a company was registered still show up.
	created, err := SyncCompanies(DB)
	if err != nil {
		log.Printf("Company sync failed: %v", err)
	} else if created > 0 {
		log.Printf("Company sync created %d missing companies", created)
	}

	log.Println("Database connected, migration complete.")
}
