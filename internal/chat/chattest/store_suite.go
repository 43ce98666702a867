// Package chattest holds the behaviour every chat.Store must share.
package chattest

import (
	"context"
	"testing"
	"time"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/pkg/prefixed_uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreSuite exercises a store returned by newStore. Each subtest gets a
// fresh store.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) chat.Store) {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	session := func(user string, at time.Time) chat.Session {
		return chat.Session{
			ID:        prefixed_uuid.New("chat").String(),
			UserID:    user,
			Name:      chat.DefaultSessionName,
			IsActive:  true,
			CreatedAt: at,
			UpdatedAt: at,
		}
	}
	message := func(sessionID, content string, at time.Time, meta *chat.MessageMetadata) chat.Message {
		return chat.Message{
			ID:        prefixed_uuid.New("msg").String(),
			SessionID: sessionID,
			Content:   content,
			IsBot:     meta != nil,
			Metadata:  meta,
			CreatedAt: at,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		s := session("user-1", base)

		require.NoError(t, store.CreateSession(ctx, s))
		got, err := store.GetSession(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, chat.DefaultSessionName, got.Name)
		assert.True(t, got.IsActive)
		assert.True(t, base.Equal(got.CreatedAt))

		_, err = store.GetSession(ctx, prefixed_uuid.New("chat").String())
		assert.ErrorIs(t, err, chat.ErrSessionNotFound)
	})

	t.Run("list orders by last update and filters by user", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		older := session("user-1", base)
		newer := session("user-1", base.Add(time.Hour))
		other := session("user-2", base.Add(2*time.Hour))
		for _, s := range []chat.Session{older, newer, other} {
			require.NoError(t, store.CreateSession(ctx, s))
		}

		list, err := store.ListSessions(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)

		// A new message moves the older session to the front.
		require.NoError(t, store.AppendMessage(ctx, message(older.ID, "hello", base.Add(3*time.Hour), nil)))
		list, err = store.ListSessions(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, older.ID, list[0].ID)
		assert.True(t, base.Add(3*time.Hour).Equal(list[0].UpdatedAt))

		none, err := store.ListSessions(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("messages keep order and typed metadata", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		s := session("user-1", base)
		require.NoError(t, store.CreateSession(ctx, s))

		meta := &chat.MessageMetadata{
			Intent:      "product_search",
			Products:    []catalog.ProductSummary{{ID: 7, Title: "MacBook Air", Price: 999, Category: "Electronics", Brand: "Apple", Rating: 4.8, StockQuantity: 3}},
			Suggestions: []string{"Show me more", "Filter by price"},
		}
		require.NoError(t, store.AppendMessage(ctx, message(s.ID, "laptop", base.Add(time.Second), nil)))
		require.NoError(t, store.AppendMessage(ctx, message(s.ID, "I found 1 products for you!", base.Add(2*time.Second), meta)))

		msgs, err := store.ListMessages(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "laptop", msgs[0].Content)
		assert.False(t, msgs[0].IsBot)
		assert.Nil(t, msgs[0].Metadata)
		assert.True(t, msgs[1].IsBot)
		require.NotNil(t, msgs[1].Metadata)
		assert.Equal(t, *meta, *msgs[1].Metadata)

		err = store.AppendMessage(ctx, message(prefixed_uuid.New("chat").String(), "orphan", base, nil))
		assert.ErrorIs(t, err, chat.ErrSessionNotFound)
	})

	t.Run("delete removes messages", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		s := session("user-1", base)
		require.NoError(t, store.CreateSession(ctx, s))
		require.NoError(t, store.AppendMessage(ctx, message(s.ID, "hi", base.Add(time.Second), nil)))

		require.NoError(t, store.DeleteSession(ctx, s.ID))
		_, err := store.GetSession(ctx, s.ID)
		assert.ErrorIs(t, err, chat.ErrSessionNotFound)
		msgs, err := store.ListMessages(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, msgs)

		assert.ErrorIs(t, store.DeleteSession(ctx, s.ID), chat.ErrSessionNotFound)
	})
}
