// Package persistence owns the database schema and opens the configured
// catalog and chat stores.
package persistence

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// MigrationManager applies the embedded schema migrations for one dialect.
type MigrationManager struct {
	pool    *pgxpool.Pool
	db      *sql.DB
	dialect string
	logger  logger.Logger
}

// NewPostgresMigrationManager creates a migration manager from pgxpool.
func NewPostgresMigrationManager(pool *pgxpool.Pool, log logger.Logger) *MigrationManager {
	return &MigrationManager{pool: pool, dialect: "postgres", logger: log}
}

// NewSQLiteMigrationManager creates a migration manager for an open SQLite
// database. The database stays open after migrating.
func NewSQLiteMigrationManager(db *sql.DB, log logger.Logger) *MigrationManager {
	return &MigrationManager{db: db, dialect: "sqlite", logger: log}
}

// RunMigrations executes pending migrations.
func (m *MigrationManager) RunMigrations() error {
	migrator, done, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer done()

	log := m.logger.WithFields(logger.StringField("dialect", m.dialect))
	log.Info("Starting database migrations")

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		log.Error("Failed to run migrations", logger.ErrorField(err))
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, _ := migrator.Version()
	log.Info("Successfully applied migrations", logger.IntField("version", int(version)))
	return nil
}

// Version reports the current schema version and whether it is dirty.
// A database without migrations reports version 0.
func (m *MigrationManager) Version() (uint, bool, error) {
	migrator, done, err := m.createMigrator()
	if err != nil {
		return 0, false, fmt.Errorf("create migrator: %w", err)
	}
	defer done()

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// createMigrator returns the migrator and a func releasing what it opened.
// Closing a migrate driver closes its *sql.DB, so SQLite migrators are never
// closed; the store owns that handle.
func (m *MigrationManager) createMigrator() (*migrate.Migrate, func(), error) {
	sourceDriver, err := iofs.New(migrationFS, "migrations/"+m.dialect)
	if err != nil {
		return nil, nil, fmt.Errorf("create embedded migration source: %w", err)
	}

	var driver database.Driver
	done := func() {}
	switch m.dialect {
	case "postgres":
		db := stdlib.OpenDBFromPool(m.pool)
		driver, err = postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			_ = db.Close()
		}
	case "sqlite":
		driver, err = sqlite3.WithInstance(m.db, &sqlite3.Config{})
	default:
		err = fmt.Errorf("unknown dialect %q", m.dialect)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create %s driver: %w", m.dialect, err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, m.dialect, driver)
	if err != nil {
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	if m.dialect == "postgres" {
		done = func() { _, _ = migrator.Close() }
	}
	return migrator, done, nil
}
