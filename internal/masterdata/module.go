// Package masterdata provides the read-only reference data bounded context:
// segment catalog, buyers, agencies, and brands.
package masterdata

import (
	"campaign_portal_backend/internal/masterdata/cache"
	"campaign_portal_backend/internal/masterdata/handler"
	"campaign_portal_backend/internal/masterdata/repository"
	"campaign_portal_backend/internal/masterdata/service"
	"campaign_portal_backend/platform/config"
	"campaign_portal_backend/platform/logger"

	apphttp "campaign_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the master data bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the master data module.
// The redis client may be nil, in which case the segment catalog is read
// straight from the database on every resolution.
func NewModule(pool *pgxpool.Pool, rdb *redis.Client, cfg config.SegmentCacheConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	segmentCache := cache.NewSegmentCache(repo, rdb, cfg.GetSegmentCacheTTL(), log)
	svc := service.New(repo, segmentCache)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "masterdata"
}

// Service returns the master data service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts master data routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/master-data")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
