package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog/catalogtest"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/internal/chat/chattest"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence/sqlite"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// setupTestStore opens a migrated database in a temporary directory.
func setupTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewNop()
	require.NoError(t, persistence.NewSQLiteMigrationManager(db, log).RunMigrations())
	return sqlite.New(db, log)
}

func TestStoreCatalogSuite(t *testing.T) {
	catalogtest.RunStoreSuite(t, func(t *testing.T) catalogtest.Store {
		return setupTestStore(t)
	})
}

func TestStoreCaseFolding(t *testing.T) {
	catalogtest.RunCaseFoldingSuite(t, setupTestStore(t))
}

func TestStoreChatSuite(t *testing.T) {
	chattest.RunStoreSuite(t, func(t *testing.T) chat.Store {
		return setupTestStore(t)
	})
}

func TestStoreEmptyCatalog(t *testing.T) {
	catalogtest.RunEmptyStoreSuite(t, setupTestStore(t))
}

func TestStorePing(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	store := setupTestStore(t)
	migrations := persistence.NewSQLiteMigrationManager(store.DB(), logger.NewNop())

	require.NoError(t, migrations.RunMigrations())
	version, dirty, err := migrations.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// The store is still usable after the migrator is done with it.
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStoreTimesRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("CEST", 2*60*60))

	session := chat.Session{ID: "chat_1", UserID: "u", Name: chat.DefaultSessionName, IsActive: true, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, store.CreateSession(ctx, session))

	got, err := store.GetSession(ctx, "chat_1")
	require.NoError(t, err)
	assert.True(t, at.Equal(got.CreatedAt))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestStoreAppendKeepsLatestUpdate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateSession(ctx, chat.Session{ID: "chat_1", UserID: "u", IsActive: true, CreatedAt: at, UpdatedAt: at}))
	require.NoError(t, store.AppendMessage(ctx, chat.Message{ID: "msg_1", SessionID: "chat_1", Content: "late", CreatedAt: at.Add(-time.Hour)}))

	got, err := store.GetSession(ctx, "chat_1")
	require.NoError(t, err)
	assert.True(t, at.Equal(got.UpdatedAt), "an older message does not move the session back")
}
