package database

import (
	"fmt"
	"log"

	"github.com/aasanchez0794/Angelito-Familiar/internal/config"
	"github.com/aasanchez0794/Angelito-Familiar/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

// Columns every usable participants table must carry. A table missing any of
// them predates the current schema and its rows cannot be migrated in place
// (assignments and PINs from an older draw are meaningless against a new one).
var requiredColumns = []string{
	"phone", "name", "pin",
	"assigned_to_phone", "assigned_to_name",
	"registered_at", "revealed_at",
}

func AutoMigrate(db *gorm.DB, allowDestructive bool) {
	if err := Migrate(db, allowDestructive); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

// Migrate recreates or creates the participants table. If the existing table
// is missing required columns, the only path forward is dropping it, which
// throws away the current draw; that happens only when allowDestructive is
// set, otherwise startup stops with an explicit error.
func Migrate(db *gorm.DB, allowDestructive bool) error {
	migrator := db.Migrator()

	if migrator.HasTable(&models.Participant{}) {
		var missing []string
		for _, col := range requiredColumns {
			if !migrator.HasColumn(&models.Participant{}, col) {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			if !allowDestructive {
				return fmt.Errorf(
					"participants table is missing columns %v; set DB_ALLOW_DESTRUCTIVE=true to drop and reseed (destroys the current draw)",
					missing,
				)
			}
			log.Printf("participants table is missing columns %v, dropping table (DB_ALLOW_DESTRUCTIVE is set)", missing)
			if err := migrator.DropTable(&models.Participant{}); err != nil {
				return err
			}
		}
	}

	return db.AutoMigrate(&models.Participant{})
}
