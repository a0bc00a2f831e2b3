// Package accounts provides the user account bounded context module.
// This file defines the module that encapsulates account setup and route registration.
package accounts

import (
	"vespera_backend/internal/accounts/handler"
	"vespera_backend/internal/accounts/repository"
	"vespera_backend/internal/accounts/service"
	"vespera_backend/internal/events"
	apphttp "vespera_backend/internal/http"
	"vespera_backend/platform/config"
	"vespera_backend/platform/logger"
	"vespera_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the accounts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the accounts module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "accounts"
}

// Service returns the accounts service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts account routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	// Protected user routes
	ctx.Protected.GET("/users/me", m.handler.Me)
	ctx.Protected.POST("/users/me/funds", m.handler.AddFunds)
	ctx.Protected.PATCH("/users/me/consumption", m.handler.UpdateConsumption)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
