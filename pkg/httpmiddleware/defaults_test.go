package httpmiddleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.NotNil(t, config.CORS)
	assert.True(t, config.EnableCorrelationID)
	assert.True(t, config.EnableRecovery)
	assert.False(t, config.EnableLogging)
	assert.False(t, config.EnableStripPrefix)
}

func TestWithLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewLogger(logger.Config{Level: logger.DebugLevel, Output: buf})

	router := chi.NewRouter()
	WithLogger(router, log)
	router.Get("/api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(logger.CorrelationIDHeader))
		_, _ = w.Write([]byte("[]"))
	})
	router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	t.Run("request is served and logged", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", rec.Body.String())
		assert.Contains(t, buf.String(), "HTTP response sent")
	})

	t.Run("heartbeat", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("panics are recovered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestApplyMinimalConfigWithStripPrefix(t *testing.T) {
	router := chi.NewRouter()
	ApplyToRouter(router, Config{StripPrefix: "/shop", EnableStripPrefix: true})
	router.Get("/api/products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shop/api/products", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
