// Package recommend provides the recommendation bounded context module.
package recommend

import (
	"time"

	"vespera_backend/internal/dataset"
	apphttp "vespera_backend/internal/http"
	"vespera_backend/internal/recommend/handler"
	"vespera_backend/internal/recommend/service"
	"vespera_backend/platform/cache"
	"vespera_backend/platform/logger"
	"vespera_backend/platform/validator"
)

// Module is the recommendation bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the recommendation module around an
// already-loaded dataset snapshot.
func NewModule(snap *dataset.Snapshot, datasetPath, tariffsPath string, c *cache.Cache, cacheTTL time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(snap, datasetPath, tariffsPath, c, cacheTTL, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "recommend"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts recommendation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/recommendations", m.handler.Recommend)
	ctx.Protected.GET("/projects", m.handler.ListProjects)
	ctx.Protected.POST("/projects/reload", m.handler.Reload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
