package database

import (
	"fmt"
	"log"

	config "builder-market/configs"
	"builder-market/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Builder{},
		&models.SchedulingSettings{},
		&models.AvailabilityRule{},
		&models.AvailabilityException{},
		&models.SessionType{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// The exclusion constraint is the double-booking guarantee: two concurrent
	// inserts with overlapping [start_utc, end_utc) for the same builder cannot
	// both commit. Application-level re-checks only fail fast.
	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.Fatalf("🔥 Failed to enable btree_gist: %v", err)
	}
	err = DB.Exec(`
		DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
				ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
					EXCLUDE USING gist (builder_id WITH =, tstzrange(start_utc, end_utc) WITH &&)
					WHERE (status <> 'cancelled');
			END IF;
		END $$;
	`).Error
	if err != nil {
		log.Fatalf("🔥 Failed to create booking overlap constraint: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}
