package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
)

func failingDashboard() *stubTransport {
	return &stubTransport{fn: func(method, path string, _ any) ([]byte, error) {
		return nil, statusError(method, path, http.StatusServiceUnavailable)
	}}
}

func TestDashboardService_StatsCached(t *testing.T) {
	tr := &stubTransport{fn: func(string, string, any) ([]byte, error) {
		return []byte(`{"success":true,"data":{"totalUsers":5,"totalBookings":9,"totalRevenue":120.5}}`), nil
	}}
	svc := NewDashboardService(tr, cache.DefaultTTL, false, zerolog.Nop())
	ctx := context.Background()

	for range 2 {
		r, err := svc.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats returned error: %v", err)
		}
		if r.Demo || r.Data.TotalBookings != 9 || r.Data.TotalRevenue != 120.5 {
			t.Fatalf("unexpected report: %+v", r)
		}
	}
	if n := tr.count(http.MethodGet, "/api/Dashboard/stats"); n != 1 {
		t.Fatalf("expected 1 fetch, got %d", n)
	}

	svc.InvalidateAll()
	_, _ = svc.Stats(ctx)
	if n := tr.count(http.MethodGet, "/api/Dashboard/stats"); n != 2 {
		t.Fatalf("expected refetch after invalidation, got %d", n)
	}
}

func TestDashboardService_FailurePropagatesWithoutDemo(t *testing.T) {
	svc := NewDashboardService(failingDashboard(), cache.DefaultTTL, false, zerolog.Nop())

	_, err := svc.Revenue(context.Background())
	var te *domain.TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestDashboardService_DemoFallback(t *testing.T) {
	svc := NewDashboardService(failingDashboard(), cache.DefaultTTL, true, zerolog.Nop())
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if !stats.Demo || stats.Data.TotalUsers == 0 {
		t.Fatalf("expected labeled demo data, got %+v", stats)
	}

	popular, err := svc.PopularServices(ctx, 2)
	if err != nil {
		t.Fatalf("PopularServices returned error: %v", err)
	}
	if !popular.Demo || len(popular.Data) != 2 {
		t.Fatalf("expected 2 demo services, got %+v", popular)
	}
}

func TestDashboardService_Overview(t *testing.T) {
	tr := &stubTransport{fn: func(method, path string, _ any) ([]byte, error) {
		switch {
		case path == "/api/Dashboard/stats":
			return []byte(`{"totalUsers":3}`), nil
		case path == "/api/Dashboard/revenue/monthly/2024":
			return []byte(`[{"month":1,"revenue":10,"bookings":1}]`), nil
		case strings.HasPrefix(path, "/api/Dashboard/services/popular"):
			if path != "/api/Dashboard/services/popular?limit=5" {
				t.Errorf("unexpected popular path %s", path)
			}
			return []byte(`{"success":true,"data":[{"serviceId":1,"serviceName":"A","bookingCount":4}]}`), nil
		}
		return nil, statusError(method, path, http.StatusNotFound)
	}}
	svc := NewDashboardService(tr, cache.DefaultTTL, false, zerolog.Nop())

	o, err := svc.Overview(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if o.Stats.Data.TotalUsers != 3 || len(o.Monthly.Data) != 1 || len(o.Popular.Data) != 1 {
		t.Fatalf("unexpected overview: %+v", o)
	}
}

func TestDashboardService_OverviewFailsWhenAnyReportFails(t *testing.T) {
	tr := &stubTransport{fn: func(method, path string, _ any) ([]byte, error) {
		if path == "/api/Dashboard/stats" {
			return nil, statusError(method, path, http.StatusForbidden)
		}
		return []byte(`[]`), nil
	}}
	svc := NewDashboardService(tr, cache.DefaultTTL, false, zerolog.Nop())

	if _, err := svc.Overview(context.Background(), 2024); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
