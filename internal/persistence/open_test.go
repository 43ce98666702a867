package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence"
	"github.com/lewisedginton/storefront_chatbot/pkg/config"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/utils"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		migrate     bool
		wantDriver  string
		wantVersion uint
		wantErr     string
	}{
		{name: "memory", url: "memory://", wantDriver: config.DriverMemory},
		{name: "sqlite migrated", url: "sqlite:///" + filepath.Join(t.TempDir(), "a.db"), migrate: true, wantDriver: config.DriverSQLite, wantVersion: 2},
		{name: "sqlite without migrations", url: "sqlite:///" + filepath.Join(t.TempDir(), "b.db"), wantDriver: config.DriverSQLite},
		{name: "unknown scheme", url: "mysql://localhost/db", wantErr: "unsupported database url scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			stores, err := persistence.Open(ctx, config.DatabaseConfig{URL: tt.url, AutoMigrate: tt.migrate}, logger.NewNop())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = stores.Close() })

			assert.Equal(t, tt.wantDriver, stores.Driver)
			assert.NoError(t, stores.Ping(ctx))
			version, dirty, err := stores.SchemaVersion()
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
			assert.False(t, dirty)
		})
	}
}

func TestOpenSQLiteStoresAreUsable(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatabaseConfig{URL: "sqlite:///" + filepath.Join(t.TempDir(), "shop.db"), AutoMigrate: true}

	stores, err := persistence.Open(ctx, cfg, logger.NewNop())
	require.NoError(t, err)

	_, err = stores.Products.CreateProduct(ctx, catalog.NewProduct{Title: "Kindle", Price: 99, Category: "Electronics", Rating: 4.5})
	require.NoError(t, err)
	require.NoError(t, stores.Close())

	// Reopening sees the same data and has nothing left to migrate.
	stores, err = persistence.Open(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })

	got, err := stores.Catalog.Search(ctx, catalog.SearchFilter{Query: utils.ToPtr("kindle")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 99.0, got[0].Price)
}
