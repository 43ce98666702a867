package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	appconfig "github.com/lewisedginton/storefront_chatbot/internal/config"
	"github.com/lewisedginton/storefront_chatbot/internal/dialogue"
	"github.com/lewisedginton/storefront_chatbot/internal/monitoring"
	"github.com/lewisedginton/storefront_chatbot/pkg/config"
	"github.com/lewisedginton/storefront_chatbot/pkg/httpmiddleware"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/metrics"
)

var seedProducts = []catalog.NewProduct{
	{Title: "MacBook Air", Description: "Thin and light laptop", Price: 999, Category: "Electronics", Brand: "Apple", Rating: 4.8, StockQuantity: 12},
	{Title: "Kindle", Description: "E-reader", Price: 99, Category: "Electronics", Brand: "Amazon", Rating: 4.5, StockQuantity: 40},
	{Title: "Running Shoes", Description: "Lightweight trainers", Price: 120, Category: "Sports", Brand: "Nike", Rating: 4.3, StockQuantity: 25},
	{Title: "Yoga Mat", Description: "Non-slip", Price: 30, Category: "Sports", Brand: "Adidas", Rating: 4.0, StockQuantity: 60},
}

func testConfig() *appconfig.AppConfig {
	return &appconfig.AppConfig{
		ServiceName: "storefront-test",
		Version:     "test",
		Environment: "development",
		HTTP: config.HTTPServerConfig{
			Port:            8000,
			ReadTimeout:     5 * time.Second,
			IdleTimeout:     5 * time.Second,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: time.Second,
			MaxBodyBytes:    1024,
		},
		Security: appconfig.SecurityConfig{
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			UserIDHeader:       "X-User-ID",
		},
	}
}

type testServer struct {
	handler  http.Handler
	products *catalog.MemoryStore
	metrics  *metrics.Metrics
}

// setupTestServer builds the API over in-memory stores seeded with seedProducts.
func setupTestServer(t *testing.T, mutate ...func(*appconfig.AppConfig)) *testServer {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	log := logger.NewNop()

	products := catalog.NewMemoryStore()
	for _, p := range seedProducts {
		_, err := products.CreateProduct(context.Background(), p)
		require.NoError(t, err)
	}
	m := metrics.NewMetrics(true, true, log)
	assistant := dialogue.NewAssistant(products, dialogue.WithLogger(log), dialogue.WithMetrics(m))

	srv := New(cfg, Deps{
		Chat:    chat.NewService(chat.NewMemoryStore(), assistant, log),
		Catalog: products,
		Health:  monitoring.NewHealthMonitor(monitoring.Config{Logger: log, Version: cfg.Version}),
		Metrics: m,
	}, log)
	return &testServer{handler: srv.Handler(), products: products, metrics: m}
}

func (ts *testServer) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIndexAndHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "storefront-test", body["service"])
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	rec = ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStripPrefix(t *testing.T) {
	ts := setupTestServer(t, func(c *appconfig.AppConfig) { c.Security.StripPrefix = "/shop" })

	rec := ts.do(t, http.MethodGet, "/shop/api/products/categories", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Electronics", "Sports"}, decode[[]string](t, rec))
}

func TestChatRequiresUser(t *testing.T) {
	ts := setupTestServer(t)

	for _, tt := range []struct{ method, path, body string }{
		{http.MethodPost, "/api/chat/query", `{"message":"hello"}`},
		{http.MethodGet, "/api/chat/sessions", ""},
		{http.MethodGet, "/api/chat/ws", ""},
	} {
		t.Run(tt.path, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, "", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode[httpmiddleware.ErrorBody](t, rec)
			assert.Equal(t, "missing user identity", body.Error)
		})
	}
}

func TestChatQuery(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/chat/query", "alice", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	greeting := decode[chat.QueryResult](t, rec)
	assert.Equal(t, "greeting", greeting.Intent)
	assert.NotEmpty(t, greeting.Message)
	assert.Len(t, greeting.Suggestions, 4)
	assert.Empty(t, greeting.Products)
	assert.True(t, strings.HasPrefix(greeting.SessionID, "chat-"))

	rec = ts.do(t, http.MethodPost, "/api/chat/query", "alice",
		`{"message":"Kindle","session_id":"`+greeting.SessionID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	search := decode[chat.QueryResult](t, rec)
	assert.Equal(t, "product_search", search.Intent)
	assert.Equal(t, greeting.SessionID, search.SessionID)
	require.Len(t, search.Products, 1)
	assert.Equal(t, "Kindle", search.Products[0].Title)

	rec = ts.do(t, http.MethodGet, "/api/chat/sessions/"+greeting.SessionID, "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[chat.SessionWithMessages](t, rec)
	require.Len(t, session.Messages, 4)
	assert.Equal(t, "hello", session.Messages[0].Content)
	require.NotNil(t, session.Messages[3].Metadata)
	assert.Equal(t, "product_search", session.Messages[3].Metadata.Intent)
}

func TestChatQueryErrors(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/chat/query", "alice", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	owned := decode[chat.QueryResult](t, rec).SessionID

	tests := []struct {
		name   string
		user   string
		body   string
		status int
	}{
		{name: "empty message", user: "alice", body: `{"message":"   "}`, status: http.StatusBadRequest},
		{name: "malformed json", user: "alice", body: `{"message":`, status: http.StatusBadRequest},
		{name: "unknown field", user: "alice", body: `{"msg":"hi"}`, status: http.StatusBadRequest},
		{name: "body too large", user: "alice", body: `{"message":"` + strings.Repeat("a", 2048) + `"}`, status: http.StatusRequestEntityTooLarge},
		{name: "unknown session", user: "alice", body: `{"message":"hi","session_id":"chat-00000000-0000-0000-0000-000000000000"}`, status: http.StatusNotFound},
		{name: "malformed session id", user: "alice", body: `{"message":"hi","session_id":"nope"}`, status: http.StatusNotFound},
		{name: "another user's session", user: "bob", body: `{"message":"hi","session_id":"` + owned + `"}`, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/chat/query", tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.status, decode[httpmiddleware.ErrorBody](t, rec).Status)
		})
	}
}

func TestChatSessions(t *testing.T) {
	ts := setupTestServer(t)

	var ids []string
	for _, msg := range []string{"hello", "help"} {
		rec := ts.do(t, http.MethodPost, "/api/chat/query", "alice", `{"message":"`+msg+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		ids = append(ids, decode[chat.QueryResult](t, rec).SessionID)
	}

	rec := ts.do(t, http.MethodGet, "/api/chat/sessions", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sessions := decode[[]chat.Session](t, rec)
	require.Len(t, sessions, 2)
	assert.Equal(t, chat.DefaultSessionName, sessions[0].Name)

	rec = ts.do(t, http.MethodGet, "/api/chat/sessions", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = ts.do(t, http.MethodDelete, "/api/chat/sessions/"+ids[0], "bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/chat/sessions/"+ids[0], "alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/chat/sessions/"+ids[0], "alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "default ordering", query: "", want: []string{"MacBook Air", "Kindle", "Running Shoes", "Yoga Mat"}},
		{name: "skip and limit", query: "?skip=1&limit=2", want: []string{"Kindle", "Running Shoes"}},
		{name: "category", query: "?category=sport", want: []string{"Running Shoes", "Yoga Mat"}},
		{name: "search", query: "?search=reader", want: []string{"Kindle"}},
		{name: "search matches category", query: "?search=SPORTS", want: []string{"Running Shoes", "Yoga Mat"}},
		{name: "search matches brand", query: "?search=adidas", want: []string{"Yoga Mat"}},
		{name: "brand", query: "?brand=NIKE", want: []string{"Running Shoes"}},
		{name: "price range", query: "?min_price=50&max_price=150", want: []string{"Kindle", "Running Shoes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/products"+tt.query, "", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			products := decode[[]catalog.ProductSummary](t, rec)
			titles := make([]string, 0, len(products))
			for _, p := range products {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestListProductsRejectsBadParameters(t *testing.T) {
	ts := setupTestServer(t)

	for _, query := range []string{"?limit=101", "?limit=0", "?skip=-1", "?skip=2147483648", "?skip=4294967296", "?min_price=abc", "?max_price=-5"} {
		t.Run(query, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/products"+query, "", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProductLookups(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/products/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kindle", decode[catalog.Product](t, rec).Title)

	for _, path := range []string{"/api/products/999", "/api/products/abc"} {
		rec = ts.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec = ts.do(t, http.MethodGet, "/api/products/brands", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Adidas", "Amazon", "Apple", "Nike"}, decode[[]string](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/products/popular?limit=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	popular := decode[[]catalog.ProductSummary](t, rec)
	require.Len(t, popular, 1)
	assert.Equal(t, "MacBook Air", popular[0].Title)

	rec = ts.do(t, http.MethodGet, "/api/products/popular?limit=500", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat/query", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-User-ID")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseProductFilter(t *testing.T) {
	filter, err := parseProductFilter(map[string][]string{
		"skip": {"5"}, "limit": {"10"}, "search": {"lap"}, "max_price": {"99.5"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, filter.Offset)
	assert.Equal(t, 10, filter.Limit)
	require.NotNil(t, filter.Query)
	assert.Equal(t, "lap", *filter.Query)
	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, 99.5, *filter.MaxPrice)
	assert.Nil(t, filter.MinPrice)

	_, err = parseProductFilter(map[string][]string{"skip": {"x"}, "limit": {"1000"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skip must be an integer between 0 and 2147483647")
	assert.Contains(t, err.Error(), "limit must be between 1 and 100")

	filter, err = parseProductFilter(map[string][]string{"skip": {"2147483647"}})
	require.NoError(t, err)
	assert.Equal(t, catalog.MaxOffset, filter.Offset)

	_, err = parseProductFilter(map[string][]string{"skip": {"4294967296"}})
	assert.ErrorContains(t, err, "skip must be an integer between 0 and 2147483647")
}

func TestListProductsLargestSkipIsEmpty(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/products?skip=2147483647", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]catalog.ProductSummary](t, rec))
}
