package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/NicholasPiano/arktic/api/actions"
	"github.com/NicholasPiano/arktic/api/admin"
	"github.com/NicholasPiano/arktic/api/health"
	"github.com/NicholasPiano/arktic/api/jobs"
	"github.com/NicholasPiano/arktic/api/revisions"
	"github.com/NicholasPiano/arktic/api/suggestions"
	"github.com/NicholasPiano/arktic/api/types"
	"github.com/NicholasPiano/arktic/api/version"
	"github.com/NicholasPiano/arktic/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil {
		return fmt.Errorf("handler dependencies are nil")
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	v1 := engine.Group("/api/v1")

	if cfg.RateLimiting.Enabled {
		v1.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized,
			cfg.RateLimiting.RPS, cfg.RateLimiting.Burst))
	}

	jobs.RegisterRoutes(v1, deps)
	revisions.RegisterRoutes(v1, deps)
	actions.RegisterRoutes(v1, deps)
	suggestions.RegisterRoutes(v1, deps)
	admin.RegisterRoutes(v1, deps)

	return nil
}
