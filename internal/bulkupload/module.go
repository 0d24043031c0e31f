// Package bulkupload provides the bulk lead ingestion bounded context:
// batch validation and insertion with a full per-row audit trail.
package bulkupload

import (
	"campaign_portal_backend/internal/bulkupload/handler"
	"campaign_portal_backend/internal/bulkupload/repository"
	"campaign_portal_backend/internal/bulkupload/service"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/logger"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the bulk upload bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the bulk upload module.
func NewModule(
	pool *pgxpool.Pool,
	campaigns service.CampaignReader,
	segments service.SegmentResolver,
	recomputer service.Recomputer,
	bus events.Bus,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, campaigns, segments, recomputer, bus, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bulkupload"
}

// Service returns the bulk upload service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts bulk upload routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads/bulk-upload")
	m.handler.RegisterRoutes(group, ctx.UploadRateLimiter)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
