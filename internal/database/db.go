package database

import (
	"fmt"
	"log"

	"usermanager/internal/config"
	"usermanager/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema idempotently using the configured strategy.
func Migrate(db *gorm.DB, mode, dsn string) error {
	switch mode {
	case config.MigrationModeSQL:
		return RunSQLMigrations(dsn)
	case config.MigrationModeAuto, "":
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unknown migration mode %q", mode)
	}
}

// AutoMigrate lets gorm create or extend the tables, including the users_roles and
// role_permissions join tables with their composite primary keys.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Println("Schema auto-migrated")
	return nil
}
