package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vespera_backend/internal/consumption/service"
	"vespera_backend/internal/consumption/transport"
	"vespera_backend/platform/httpkit"
	"vespera_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for consumption estimation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new consumption handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Estimate returns daily/monthly consumption for a device inventory.
// POST /api/v1/consumption/estimate
func (h *Handler) Estimate(c *gin.Context) {
	var req transport.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	httpkit.OK(c, h.svc.Estimate(req))
}
