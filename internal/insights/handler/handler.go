package handler

import (
	"net/http"

	leadsservice "dealerhub_backend/internal/leads/service"

	"dealerhub_backend/internal/insights/service"
	"dealerhub_backend/internal/insights/transport"
	"dealerhub_backend/platform/httpkit"
	"dealerhub_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for market insights.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new insights handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers insight routes. The search route sits behind
// a rate limiter because every call is a paid external API request.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, searchLimit gin.HandlerFunc) {
	rg.POST("/search", searchLimit, h.Search)
	rg.POST("/convert", h.Convert)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Convert(c *gin.Context) {
	var req transport.ConvertInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ConvertToLead(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

func actorFrom(c *gin.Context) *leadsservice.Actor {
	identity := httpkit.GetIdentity(c)
	if identity == nil || !identity.IsAuthenticated() {
		return nil
	}
	return &leadsservice.Actor{
		UserID:   identity.UserID(),
		Role:     identity.Role(),
		DealerID: identity.DealerID(),
	}
}
