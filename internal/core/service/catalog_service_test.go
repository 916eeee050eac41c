package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
)

func TestCatalogService_GetByID(t *testing.T) {
	tr := &stubTransport{fn: func(method, path string, _ any) ([]byte, error) {
		if path == "/api/ServiceCatalog/3" {
			return []byte(`{"success":true,"data":{"serviceId":3,"serviceName":"HIV Testing","price":50,"isActive":true}}`), nil
		}
		return nil, statusError(method, path, http.StatusNotFound)
	}}
	svc := NewCatalogService(tr, cache.DefaultTTL, zerolog.Nop())
	ctx := context.Background()

	for range 2 {
		s, err := svc.Get(ctx, 3)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if s.ServiceName != "HIV Testing" {
			t.Fatalf("unexpected service: %+v", s)
		}
	}
	if n := tr.count(http.MethodGet, "/api/ServiceCatalog/3"); n != 1 {
		t.Fatalf("expected cached item, got %d fetches", n)
	}

	if _, err := svc.Get(ctx, 4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
