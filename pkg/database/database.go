package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agenda-api/internal/model"
	"agenda-api/pkg/config"
)

// Open connects to the configured database, tunes the pool and runs
// the schema migration.
func Open(cfg *config.DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres", "":
		// PreferSimpleProtocol avoids "prepared statement already
		// exists" errors behind connection poolers.
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.GetDSN(),
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the shared schema. All tables carry a
// tenant_id discriminator column; isolation is row-level, not
// schema-per-tenant.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Client{},
		&model.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := installOverlapBackstop(db); err != nil {
			return err
		}
	}
	return nil
}

// installOverlapBackstop adds an exclusion constraint so that two
// concurrent writers cannot both commit overlapping appointments for
// the same user even if both passed the pre-write check. Violations
// surface with SQLSTATE 23P01 and are mapped to a conflict error.
func installOverlapBackstop(db *gorm.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$ BEGIN
			ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				tenant_id WITH =,
				user_id WITH =,
				tstzrange(start_time, end_time) WITH &&
			) WHERE (deleted_at IS NULL);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to install overlap backstop: %w", err)
		}
	}
	return nil
}
