// Package snapshots provides the campaign performance snapshot bounded
// context.
package snapshots

import (
	"campaign_portal_backend/internal/snapshots/handler"
	"campaign_portal_backend/internal/snapshots/repository"
	"campaign_portal_backend/internal/snapshots/service"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the snapshots bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the snapshots module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "snapshots"
}

// RegisterRoutes mounts snapshot routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/performance-snapshots")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
