package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"vidforge/generator"
	"vidforge/registry"
	"vidforge/types"
)

// Runner is the pipeline entry point the API layer drives.
type Runner interface {
	GenerateAll(ctx context.Context, taskID string, data map[string]any, progress generator.ProgressFunc) (types.Result, error)
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(store *registry.Store, runner Runner) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterGenerationRoutes(r, store, runner)
	RegisterHealthRoutes(r)
	return r
}
