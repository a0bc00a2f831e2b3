// Package consumption provides the device-based consumption estimation module.
package consumption

import (
	"vespera_backend/internal/consumption/handler"
	"vespera_backend/internal/consumption/service"
	apphttp "vespera_backend/internal/http"
	"vespera_backend/platform/validator"
)

// Module is the consumption bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the consumption module.
func NewModule(val *validator.Validator) *Module {
	return &Module{handler: handler.New(service.New(), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "consumption"
}

// RegisterRoutes mounts consumption routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/consumption/estimate", m.handler.Estimate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
