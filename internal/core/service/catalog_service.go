package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// CatalogService reads the bookable service catalog.
type CatalogService struct {
	res *resource[domain.Service]
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(transport ports.Transport, ttl time.Duration, log zerolog.Logger, opts ...cache.Option) *CatalogService {
	return &CatalogService{res: newResource(resourceConfig[domain.Service]{
		kind:     "service",
		plural:   "services",
		listPath: "/api/ServiceCatalog",
		itemPath: "/api/ServiceCatalog",
		id:       func(s domain.Service) int64 { return s.ServiceID },
		ttl:      ttl,
	}, transport, log, opts...)}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Service, error) {
	return s.res.list(ctx)
}

func (s *CatalogService) Get(ctx context.Context, serviceID int64) (*domain.Service, error) {
	return s.res.get(ctx, serviceID)
}

func (s *CatalogService) InvalidateAll() {
	s.res.InvalidateAll()
}
