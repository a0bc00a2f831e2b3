package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vespera_backend/internal/recommend/service"
	"vespera_backend/internal/recommend/transport"
	"vespera_backend/platform/httpkit"
	"vespera_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for recommendations and projects.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new recommendation handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Recommend returns the best project and share allocation for the
// caller's monthly consumption.
// POST /api/v1/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	var req transport.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Recommend(c.Request.Context(), req.MonthlyConsumptionKWh)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProjects returns the derived project table.
// GET /api/v1/projects
func (h *Handler) ListProjects(c *gin.Context) {
	httpkit.OK(c, h.svc.ListProjects(c.Request.Context()))
}

// Reload re-reads the dataset source and swaps the snapshot.
// POST /api/v1/projects/reload
func (h *Handler) Reload(c *gin.Context) {
	result, err := h.svc.Reload(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
