package handler

import (
	"net/http"
	"strconv"

	"campaign_portal_backend/internal/engagement/service"
	"campaign_portal_backend/internal/engagement/transport"
	"campaign_portal_backend/platform/httpkit"
	"campaign_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc       *service.Service
	validator *validator.Validator
}

func New(svc *service.Service, v *validator.Validator) *Handler {
	return &Handler{svc: svc, validator: v}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("", h.Record)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List requires either a leadId or a campaignId filter.
func (h *Handler) List(c *gin.Context) {
	leadID, okLead := parseQueryID(c, "leadId")
	campaignID, okCampaign := parseQueryID(c, "campaignId")
	if !okLead || !okCampaign {
		return
	}

	switch {
	case leadID != nil:
		items, err := h.svc.ListByLead(c.Request.Context(), *leadID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, items)
	case campaignID != nil:
		items, err := h.svc.ListByCampaign(c.Request.Context(), *campaignID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, items)
	default:
		httpkit.Error(c, http.StatusBadRequest, "leadId or campaignId filter is required", nil)
	}
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	metric, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, metric)
}

func (h *Handler) Record(c *gin.Context) {
	var req transport.RecordMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	metric, err := h.svc.Record(c.Request.Context(), req, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, metric)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	metric, err := h.svc.Update(c.Request.Context(), id, req, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, metric)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid metric id", nil)
		return 0, false
	}
	return id, true
}

func parseQueryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name+" filter", nil)
		return nil, false
	}
	return &id, true
}
