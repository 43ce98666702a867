package persistence

import (
	"context"
	"fmt"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence/postgres"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence/sqlite"
	"github.com/lewisedginton/storefront_chatbot/pkg/config"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// Stores bundles the catalog and chat stores of one backend.
type Stores struct {
	Driver   string
	Catalog  catalog.Reader
	Products catalog.Writer
	Chat     chat.Store

	ping       func(context.Context) error
	migrations *MigrationManager
	close      func() error
}

// Open connects to the database named by cfg. Pending migrations are applied
// when cfg.AutoMigrate is set.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*Stores, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = log.WithFields(logger.StringField("driver", cfg.Driver()))

	var stores *Stores
	switch cfg.Driver() {
	case config.DriverPostgres:
		connString, err := cfg.GetConnectionConfig()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.Connect(ctx, connString)
		if err != nil {
			return nil, err
		}
		store := postgres.New(pool, log)
		stores = &Stores{
			Catalog:    store,
			Products:   store,
			Chat:       store,
			ping:       store.Ping,
			migrations: NewPostgresMigrationManager(pool, log),
			close:      store.Close,
		}
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		store := sqlite.New(db, log)
		stores = &Stores{
			Catalog:    store,
			Products:   store,
			Chat:       store,
			ping:       store.Ping,
			migrations: NewSQLiteMigrationManager(db, log),
			close:      store.Close,
		}
	default:
		products := catalog.NewMemoryStore()
		stores = &Stores{
			Catalog:  products,
			Products: products,
			Chat:     chat.NewMemoryStore(),
			ping:     func(context.Context) error { return nil },
			close:    func() error { return nil },
		}
	}
	stores.Driver = cfg.Driver()

	if cfg.AutoMigrate {
		if err := stores.Migrate(); err != nil {
			_ = stores.Close()
			return nil, err
		}
	}
	log.Info("Database opened", logger.StringField("url", cfg.Redacted()))
	return stores, nil
}

// Migrate applies pending migrations. The memory backend has none.
func (s *Stores) Migrate() error {
	if s.migrations == nil {
		return nil
	}
	return s.migrations.RunMigrations()
}

// SchemaVersion reports the applied migration version.
func (s *Stores) SchemaVersion() (uint, bool, error) {
	if s.migrations == nil {
		return 0, false, nil
	}
	return s.migrations.Version()
}

// Ping checks the backend is reachable.
func (s *Stores) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("%s ping: %w", s.Driver, err)
	}
	return nil
}

// Close releases the backend connection.
func (s *Stores) Close() error {
	return s.close()
}
