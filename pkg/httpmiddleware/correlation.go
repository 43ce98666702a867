// Package httpmiddleware assembles the chi middleware stack shared by the
// storefront HTTP surfaces.
package httpmiddleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// CorrelationID stamps every request with a fresh correlation ID in both the
// X-Correlation-ID header and the request context. Client-supplied IDs are
// discarded so that IDs in our logs are always ours. The ID is echoed back on
// the response.
func CorrelationID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			r.Header.Set(logger.CorrelationIDHeader, id)
			w.Header().Set(logger.CorrelationIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logger.WithCorrelationIDContext(r.Context(), id)))
		})
	}
}
