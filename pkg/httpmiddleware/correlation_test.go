package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	var headerID, contextID string
	handler := CorrelationID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerID = r.Header.Get(logger.CorrelationIDHeader)
		contextID = logger.GetCorrelationIDFromContext(r.Context())
	}))

	tests := []struct {
		name    string
		inbound string
	}{
		{name: "no inbound header"},
		{name: "valid inbound id is replaced", inbound: uuid.NewString()},
		{name: "garbage inbound id is replaced", inbound: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tt.inbound != "" {
				req.Header.Set(logger.CorrelationIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			_, err := uuid.Parse(headerID)
			require.NoError(t, err)
			assert.NotEqual(t, tt.inbound, headerID)
			assert.Equal(t, headerID, contextID)
			assert.Equal(t, headerID, rec.Header().Get(logger.CorrelationIDHeader))
		})
	}
}
