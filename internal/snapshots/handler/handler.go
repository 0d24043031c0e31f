package handler

import (
	"net/http"
	"strconv"

	"campaign_portal_backend/internal/snapshots/service"
	"campaign_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAll)
	rg.POST("/campaign/:id", h.Capture)
	rg.GET("/campaign/:id", h.ListByCampaign)
}

func (h *Handler) Capture(c *gin.Context) {
	id, ok := parseCampaignID(c)
	if !ok {
		return
	}

	snap, err := h.svc.Capture(c.Request.Context(), id, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, snap)
}

func (h *Handler) ListByCampaign(c *gin.Context) {
	id, ok := parseCampaignID(c)
	if !ok {
		return
	}

	snaps, err := h.svc.ListByCampaign(c.Request.Context(), id, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snaps)
}

func (h *Handler) ListAll(c *gin.Context) {
	snaps, err := h.svc.ListAll(c.Request.Context(), httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snaps)
}

func parseCampaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid campaign id", nil)
		return 0, false
	}
	return id, true
}
