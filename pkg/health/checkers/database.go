package checkers

import (
	"context"
	"fmt"
)

// Pinger is satisfied by *pgxpool.Pool and by adapters around *sql.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker verifies a database connection with a ping.
type DatabaseChecker struct {
	db   Pinger
	name string
}

// NewDatabaseChecker creates a database health checker. An empty name defaults to "database".
func NewDatabaseChecker(db Pinger, name string) *DatabaseChecker {
	if name == "" {
		name = "database"
	}
	return &DatabaseChecker{db: db, name: name}
}

// Name returns the name of this health check.
func (d *DatabaseChecker) Name() string {
	return d.name
}

// Check pings the database.
func (d *DatabaseChecker) Check(ctx context.Context) error {
	if err := d.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
