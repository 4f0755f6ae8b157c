package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/analyses"
	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/history"
	"github.com/Smith-Faldu/legal-lens/internal/services/health"
	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
	"github.com/Smith-Faldu/legal-lens/internal/shared/config"
	"github.com/Smith-Faldu/legal-lens/internal/shared/metrics"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/middleware"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
	"github.com/Smith-Faldu/legal-lens/internal/users"
)

const aiRateLimitGroup = "AI"

// RouterDeps are the handlers and verifier mounted by NewRouter.
type RouterDeps struct {
	Verifier  auth.Verifier
	Health    *health.Service
	Documents *documents.Handler
	Analyses  *analyses.Handler
	History   *history.Handler
	Users     *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps RouterDeps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	respond.HideDetails(!cfg.IsDevLike())

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	hs := deps.Health
	if hs == nil {
		hs = health.NewService()
	}
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, hs.Status())
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Verifier))

	aiLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			aiRateLimitGroup: middleware.PerMinute(cfg.AIRateLimitPerMinute),
		},
		DefaultGroup: aiRateLimitGroup,
	})

	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}
	if deps.History != nil {
		deps.History.RegisterRoutes(api)
	}
	if deps.Analyses != nil {
		deps.Analyses.RegisterRoutes(api, aiLimit)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	return r
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
