// Package campaigns provides the campaign bounded context: campaign CRUD and
// the lead/engagement-driven aggregate metrics recomputer that owns the
// campaign's cached totalLeads/openRate/conversionRate fields.
package campaigns

import (
	"campaign_portal_backend/internal/campaigns/handler"
	"campaign_portal_backend/internal/campaigns/repository"
	"campaign_portal_backend/internal/campaigns/service"
	"campaign_portal_backend/internal/events"
	"campaign_portal_backend/platform/validator"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module.
func NewModule(pool *pgxpool.Pool, refs service.ReferenceChecker, bus events.Bus, v *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, refs, bus)

	return &Module{
		handler: handler.New(svc, v),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the campaign service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/campaigns")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
