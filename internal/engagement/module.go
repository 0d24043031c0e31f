// Package engagement provides the engagement metrics bounded context.
package engagement

import (
	"campaign_portal_backend/internal/engagement/handler"
	"campaign_portal_backend/internal/engagement/repository"
	"campaign_portal_backend/internal/engagement/service"
	"campaign_portal_backend/platform/logger"
	"campaign_portal_backend/platform/validator"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the engagement bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the engagement module.
func NewModule(pool *pgxpool.Pool, leads service.LeadReader, recomputer service.Recomputer, v *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, recomputer, log)

	return &Module{
		handler: handler.New(svc, v),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "engagement"
}

// Service returns the engagement service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts engagement metric routes on the provided router
// context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/engagement-metrics")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
