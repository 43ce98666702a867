package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/dialogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) (*MemoryStore, *Service) {
	t.Helper()
	products := catalog.NewMemoryStore()
	for _, p := range []catalog.NewProduct{
		{Title: "MacBook Air", Description: "Thin laptop", Price: 999, Category: "Electronics", Brand: "Apple", Rating: 4.8, StockQuantity: 4},
		{Title: "Kindle", Description: "E-reader", Price: 90, Category: "Electronics", Brand: "Amazon", Rating: 4.6, StockQuantity: 10},
		{Title: "Running Shoes", Description: "Lightweight trainers", Price: 80, Category: "Sports", Brand: "Nike", Rating: 4.3, StockQuantity: 20},
	} {
		_, err := products.CreateProduct(context.Background(), p)
		require.NoError(t, err)
	}

	store := NewMemoryStore()
	svc := NewService(store, dialogue.NewAssistant(products), nil)

	tick := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return store, svc
}

func TestServiceQueryCreatesSession(t *testing.T) {
	store, svc := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Query(ctx, "user-1", "", "Kindle")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.SessionID, "chat-"))
	assert.Equal(t, "product_search", res.Intent)
	assert.Equal(t, "I found 1 products for you! Here are some great options:", res.Message)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Kindle", res.Products[0].Title)

	msgs, err := store.ListMessages(ctx, res.SessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Kindle", msgs[0].Content)
	assert.False(t, msgs[0].IsBot)
	assert.True(t, strings.HasPrefix(msgs[0].ID, "msg-"))
	assert.Equal(t, res.Message, msgs[1].Content)
	require.NotNil(t, msgs[1].Metadata)
	assert.Equal(t, "product_search", msgs[1].Metadata.Intent)
	assert.Equal(t, res.Products, msgs[1].Metadata.Products)
	assert.Equal(t, res.Suggestions, msgs[1].Metadata.Suggestions)
}

func TestServiceQueryUsesWholeMessageAsQuery(t *testing.T) {
	_, svc := setupTestService(t)

	// The full sentence is also a free-text filter, so it matches nothing.
	res, err := svc.Query(context.Background(), "user-1", "", "find electronics under $100")
	require.NoError(t, err)
	assert.Equal(t, "product_search", res.Intent)
	assert.Empty(t, res.Products)
	assert.True(t, strings.HasPrefix(res.Message, "I couldn't find any products"))
}

func TestServiceQueryContinuesSession(t *testing.T) {
	store, svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.Query(ctx, "user-1", "", "hello")
	require.NoError(t, err)
	second, err := svc.Query(ctx, "user-1", first.SessionID, "ok, bye!")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "goodbye", second.Intent)
	assert.Empty(t, second.Products)
	assert.Empty(t, second.Suggestions)

	msgs, err := store.ListMessages(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Len(t, msgs, 4)

	sessions, err := svc.Sessions(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestServiceQueryErrors(t *testing.T) {
	_, svc := setupTestService(t)
	ctx := context.Background()

	owned, err := svc.Query(ctx, "user-1", "", "hello")
	require.NoError(t, err)

	tests := []struct {
		name      string
		user      string
		sessionID string
		message   string
		wantErr   error
	}{
		{name: "blank message", user: "user-1", message: "   ", wantErr: ErrEmptyMessage},
		{name: "unknown session", user: "user-1", sessionID: "chat-6f1c2d14-8a7e-4c3b-9a52-0d2b9e4f1a77", message: "hi", wantErr: ErrSessionNotFound},
		{name: "malformed session id", user: "user-1", sessionID: "42", message: "hi", wantErr: ErrSessionNotFound},
		{name: "another user's session", user: "user-2", sessionID: owned.SessionID, message: "hi", wantErr: ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Query(ctx, tt.user, tt.sessionID, tt.message)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServiceSessions(t *testing.T) {
	_, svc := setupTestService(t)
	ctx := context.Background()

	a, err := svc.Query(ctx, "user-1", "", "hello")
	require.NoError(t, err)
	b, err := svc.Query(ctx, "user-1", "", "laptop")
	require.NoError(t, err)
	_, err = svc.Query(ctx, "user-2", "", "hello")
	require.NoError(t, err)

	sessions, err := svc.Sessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, b.SessionID, sessions[0].ID)
	assert.Equal(t, a.SessionID, sessions[1].ID)

	latest, err := svc.LatestSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, b.SessionID, latest.ID)

	detail, err := svc.Session(ctx, "user-1", a.SessionID)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionName, detail.Name)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hello", detail.Messages[0].Content)

	_, err = svc.Session(ctx, "user-2", a.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, svc.DeleteSession(ctx, "user-2", a.SessionID), ErrSessionNotFound)
	require.NoError(t, svc.DeleteSession(ctx, "user-1", a.SessionID))
	_, err = svc.Session(ctx, "user-1", a.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceLatestSessionCreatesOnFirstUse(t *testing.T) {
	_, svc := setupTestService(t)

	session, err := svc.LatestSession(context.Background(), "telegram:99")
	require.NoError(t, err)
	assert.Equal(t, "telegram:99", session.UserID)

	again, err := svc.LatestSession(context.Background(), "telegram:99")
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)
}
