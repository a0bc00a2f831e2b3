package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vespera_backend/internal/accounts"
	"vespera_backend/internal/accounts/service"
	"vespera_backend/internal/accounts/transport"
	"vespera_backend/platform/httpkit"
	"vespera_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for account registration and wallet operations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new accounts handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the public auth routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// Register creates an account keyed by phone number.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.Register(c.Request.Context(), req.Phone, req.Name, req.Password, req.MonthlyConsumptionKWh)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, toProfileResponse(profile))
}

// Login verifies credentials and returns an access token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Phone, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AuthResponse{AccessToken: token})
}

// Me returns the caller's profile.
// GET /api/v1/users/me
func (h *Handler) Me(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

// AddFunds credits the caller's wallet.
// POST /api/v1/users/me/funds
func (h *Handler) AddFunds(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	var req transport.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	balance, err := h.svc.AddFunds(c.Request.Context(), userID, req.Amount)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.BalanceResponse{BalanceINR: balance})
}

// UpdateConsumption stores a new monthly consumption figure.
// PATCH /api/v1/users/me/consumption
func (h *Handler) UpdateConsumption(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	var req transport.UpdateConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	profile, err := h.svc.UpdateConsumption(c.Request.Context(), userID, req.MonthlyConsumptionKWh)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toProfileResponse(profile))
}

func toProfileResponse(profile accounts.Profile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:                    profile.ID.String(),
		Phone:                 profile.Phone,
		Name:                  profile.Name,
		MonthlyConsumptionKWh: profile.MonthlyConsumptionKWh,
		BalanceINR:            profile.BalanceINR,
		CreatedAt:             profile.CreatedAt,
		UpdatedAt:             profile.UpdatedAt,
	}
}
