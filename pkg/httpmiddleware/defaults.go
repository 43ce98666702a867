package httpmiddleware

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/unrolled/secure"
)

// Config selects and parameterises the shared middleware stack.
// Start from DefaultConfig and adjust.
type Config struct {
	Logger      logger.Logger
	StripPrefix string
	CORS        *CORSConfig
	Security    *secure.Options
	Timeout     time.Duration

	EnableCorrelationID bool
	EnableLogging       bool // requires Logger
	EnableRecovery      bool
	EnableStackTrace    bool
	EnableCORS          bool
	EnableSecurity      bool
	EnableCompression   bool
	EnableHeartbeat     bool
	EnableRealIP        bool
	EnableTimeout       bool
	EnableStripPrefix   bool // requires StripPrefix
}

// DefaultConfig returns the production middleware selection.
func DefaultConfig() Config {
	corsConfig := DefaultCORSConfig()
	return Config{
		CORS:                &corsConfig,
		Timeout:             30 * time.Second,
		EnableCorrelationID: true,
		EnableRecovery:      true,
		EnableCORS:          true,
		EnableSecurity:      true,
		EnableCompression:   true,
		EnableHeartbeat:     true,
		EnableRealIP:        true,
		EnableTimeout:       true,
	}
}

// ApplyToRouter installs the enabled middleware, outermost first:
// correlation ID, security headers, real IP, logging, recovery, strip prefix,
// CORS, timeout, compression, then the /ping heartbeat.
func ApplyToRouter(router chi.Router, config Config) {
	if config.EnableCorrelationID {
		router.Use(CorrelationID())
	}
	if config.EnableSecurity {
		router.Use(Security(config.Security))
	}
	if config.EnableRealIP {
		router.Use(middleware.RealIP)
	}
	if config.EnableLogging && config.Logger != nil {
		router.Use(config.Logger.HTTPMiddleware)
	}
	if config.EnableRecovery {
		log := config.Logger
		if log == nil {
			log = logger.NewNop()
		}
		router.Use(Recovery(log, config.EnableStackTrace))
	}
	if config.EnableStripPrefix && config.StripPrefix != "" {
		router.Use(StripPrefix(config.StripPrefix))
	}
	if config.EnableCORS && config.CORS != nil {
		router.Use(CORS(*config.CORS))
	}
	if config.EnableTimeout && config.Timeout > 0 {
		router.Use(middleware.Timeout(config.Timeout))
	}
	if config.EnableCompression {
		router.Use(middleware.Compress(5, "application/json", "text/plain"))
	}
	if config.EnableHeartbeat {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// WithLogger applies DefaultConfig with request logging enabled.
func WithLogger(router chi.Router, log logger.Logger) {
	config := DefaultConfig()
	config.Logger = log
	config.EnableLogging = true
	ApplyToRouter(router, config)
}
