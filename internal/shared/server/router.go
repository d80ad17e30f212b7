package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nutriscan-backend/internal/products"
	"nutriscan-backend/internal/scans"
	"nutriscan-backend/internal/services/health"
	"nutriscan-backend/internal/shared/config"
	"nutriscan-backend/internal/shared/metrics"
	"nutriscan-backend/internal/shared/server/middleware"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	ScanHandler    *scans.Handler
	ProductHandler *products.Handler
	HealthHandler  *health.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig()),
	)

	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(r)
	}
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.ScanHandler != nil {
		deps.ScanHandler.RegisterRoutes(api)
	}
	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig throttles scan submission harder than reads: every
// submitted scan runs the full pipeline, reads are repository lookups.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"SCAN": {Rate: 100.0 / 3600.0, Burst: 20},
			"READ": {Rate: 10, Burst: 30},
		},
		DefaultGroup: "READ",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/api/v1/scans") {
				return "SCAN"
			}
			return "READ"
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
