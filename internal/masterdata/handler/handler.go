package handler

import (
	"campaign_portal_backend/internal/masterdata/service"
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
	rg.GET("/segments", h.ListSegments)
	rg.GET("/buyers", h.ListBuyers)
	rg.GET("/agencies", h.ListAgencies)
	rg.GET("/brands", h.ListBrands)
}

func (h *Handler) ListSegments(c *gin.Context) {
	items, err := h.svc.ListSegments(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) ListBuyers(c *gin.Context) {
	items, err := h.svc.ListBuyers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) ListAgencies(c *gin.Context) {
	items, err := h.svc.ListAgencies(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) ListBrands(c *gin.Context) {
	items, err := h.svc.ListBrands(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}
