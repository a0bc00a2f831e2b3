package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vespera_backend/internal/trading/service"
	"vespera_backend/internal/trading/transport"
	"vespera_backend/platform/httpkit"
	"vespera_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for share trading.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new trading handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Buy purchases shares in a project.
// POST /api/v1/trades/buy
func (h *Handler) Buy(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	req, ok := h.bindTrade(c)
	if !ok {
		return
	}

	result, err := h.svc.Buy(c.Request.Context(), userID, req.ProjectKey, req.Shares)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Sell liquidates shares in a project.
// POST /api/v1/trades/sell
func (h *Handler) Sell(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	req, ok := h.bindTrade(c)
	if !ok {
		return
	}

	result, err := h.svc.Sell(c.Request.Context(), userID, req.ProjectKey, req.Shares)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListHoldings returns the caller's portfolio.
// GET /api/v1/holdings
func (h *Handler) ListHoldings(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListHoldings(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bindTrade(c *gin.Context) (transport.TradeRequest, bool) {
	var req transport.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return req, false
	}
	return req, true
}
