// Package trading provides the share trading bounded context module.
// This file defines the module that encapsulates trading setup and route registration.
package trading

import (
	"vespera_backend/internal/events"
	apphttp "vespera_backend/internal/http"
	"vespera_backend/internal/trading/handler"
	"vespera_backend/internal/trading/repository"
	"vespera_backend/internal/trading/service"
	"vespera_backend/platform/logger"
	"vespera_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the trading bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the trading module with all its dependencies.
// Project pricing is resolved through the recommendation module's service.
func NewModule(pool *pgxpool.Pool, projects service.ProjectReader, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, projects, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "trading"
}

// Service returns the trading service for use by the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts trading routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/trades/buy", m.handler.Buy)
	ctx.Protected.POST("/trades/sell", m.handler.Sell)
	ctx.Protected.GET("/holdings", m.handler.ListHoldings)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
