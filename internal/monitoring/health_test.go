package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeConnector struct{ err error }

func (f fakeConnector) Ready() error { return f.err }

func setupTestRouter(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	cfg.FailureThreshold = 1
	cfg.Version = "1.2.3"
	r := chi.NewRouter()
	NewHealthMonitor(cfg).Routes(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthMonitorHealthy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	router := setupTestRouter(t, Config{
		Database:          fakePinger{},
		Redis:             client,
		DependencyURLs:    []string{upstream.URL},
		TelegramConnector: fakeConnector{},
	})

	tests := []struct {
		path string
		want string
	}{
		{path: "/health/live", want: "process"},
		{path: "/health/ready", want: "database"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, router, tt.path)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, "healthy", body["status"])
			assert.Contains(t, body["checks"], tt.want)
		})
	}

	code, body := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	readiness := body["readiness"].(map[string]any)
	checks := readiness["checks"].(map[string]any)
	assert.Len(t, checks, 4)
	assert.Contains(t, checks, "redis")
	assert.Contains(t, checks, "telegram_connector")
}

func TestHealthMonitorUnhealthyDependency(t *testing.T) {
	router := setupTestRouter(t, Config{
		Database:          fakePinger{err: errors.New("connection refused")},
		TelegramConnector: fakeConnector{},
	})

	code, body := get(t, router, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "error", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "ok", checks["telegram_connector"].(map[string]any)["status"])

	code, body = get(t, router, "/health/live")
	assert.Equal(t, http.StatusOK, code, "liveness ignores dependencies")
	assert.Equal(t, "healthy", body["status"])

	code, body = get(t, router, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestHealthMonitorDefaults(t *testing.T) {
	hm := NewHealthMonitor(Config{})
	assert.Equal(t, "dev", hm.version)
	assert.NotNil(t, hm.logger)
}
