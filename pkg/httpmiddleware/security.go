package httpmiddleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

// CORSConfig represents CORS configuration options
type CORSConfig struct {
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowedOrigins   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows the local storefront frontends with credentials.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization", "X-User-ID", "X-CSRF-Token"},
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// CORS middleware configures Cross-Origin Resource Sharing
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedMethods:   config.AllowedMethods,
		AllowedHeaders:   config.AllowedHeaders,
		AllowedOrigins:   config.AllowedOrigins,
		ExposedHeaders:   config.ExposedHeaders,
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	})
}

// Security adds security headers. A nil opts uses the secure package defaults.
func Security(opts *secure.Options) func(http.Handler) http.Handler {
	if opts == nil {
		return secure.New().Handler
	}
	return secure.New(*opts).Handler
}

// DefaultSecurityOptions returns headers suited to a JSON API. isDev relaxes
// host and SSL checks for local work.
func DefaultSecurityOptions(isDev bool) *secure.Options {
	return &secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      isDev,
	}
}
