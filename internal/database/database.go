package database

import (
	"vesta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres pooler URL).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all models. The unique index on Portfolios
// (company, employee, type) and on ShareTransfers.transfer_number back the
// idempotency guarantees in the settlement workflow.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.Employee{},
		&models.User{},
		&models.EquityPlan{},
		&models.Grant{},
		&models.VestingEvent{},
		&models.Portfolio{},
		&models.ShareTransfer{},
		&models.PerformanceMetric{},
		&models.VestingMilestone{},
		&models.VestingEventLog{},
	)
}
