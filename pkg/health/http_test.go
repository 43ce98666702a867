package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	tests := []struct {
		name       string
		check      *mockCheck
		readiness  bool
		wantCode   int
		wantStatus string
	}{
		{name: "liveness ok", check: &mockCheck{name: "process"}, wantCode: http.StatusOK, wantStatus: "healthy"},
		{name: "readiness ok", check: &mockCheck{name: "database"}, readiness: true, wantCode: http.StatusOK, wantStatus: "healthy"},
		{
			name:       "readiness failing",
			check:      &mockCheck{name: "database", err: errors.New("connection refused")},
			readiness:  true,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(WithFailureThreshold(1))
			handler := h.LivenessHandler()
			if tt.readiness {
				h.AddReadinessCheck(tt.check)
				handler = h.ReadinessHandler()
			} else {
				h.AddLivenessCheck(tt.check)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			require.Contains(t, body.Checks, tt.check.name)
			if tt.check.err != nil {
				assert.Equal(t, "error", body.Checks[tt.check.name].Status)
				assert.Equal(t, "connection refused", body.Checks[tt.check.name].Error)
				assert.Contains(t, body.Message, tt.check.name)
			} else {
				assert.Equal(t, "ok", body.Checks[tt.check.name].Status)
			}
		})
	}
}
