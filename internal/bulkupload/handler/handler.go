package handler

import (
	"net/http"
	"strconv"

	"campaign_portal_backend/internal/bulkupload/service"
	"campaign_portal_backend/internal/bulkupload/transport"
	"campaign_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the bulk upload routes. The ingest route carries the
// stricter upload rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadLimiter *httpkit.UploadRateLimiter) {
	if uploadLimiter != nil {
		rg.POST("", uploadLimiter.RateLimit(), h.Ingest)
	} else {
		rg.POST("", h.Ingest)
	}
	rg.GET("/logs", h.ListLogs)
	rg.GET("/logs/:id/details", h.ListDetails)
}

func (h *Handler) Ingest(c *gin.Context) {
	var req transport.BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.svc.Ingest(c.Request.Context(), req, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListLogs(c *gin.Context) {
	logs, err := h.svc.ListLogs(c.Request.Context(), httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, logs)
}

func (h *Handler) ListDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid upload id", nil)
		return
	}

	details, err := h.svc.ListDetails(c.Request.Context(), id, httpkit.GetIdentity(c).UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, details)
}
