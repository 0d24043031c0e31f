// Package leads provides the lead bounded context: lead CRUD with automatic
// segment classification and campaign aggregate recompute triggers.
package leads

import (
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/internal/leads/handler"
	"campaign_portal_backend/internal/leads/repository"
	"campaign_portal_backend/internal/leads/segment"
	"campaign_portal_backend/internal/leads/service"
	"campaign_portal_backend/platform/logger"
	"campaign_portal_backend/platform/validator"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module.
func NewModule(
	pool *pgxpool.Pool,
	campaigns service.CampaignReader,
	catalog segment.CatalogReader,
	recomputer service.Recomputer,
	bus events.Bus,
	v *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	resolver := segment.NewResolver(catalog, log)
	svc := service.New(repo, campaigns, resolver, recomputer, bus, log)

	return &Module{
		handler: handler.New(svc, v),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
