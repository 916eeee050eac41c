package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/envelope"
	"github.com/carepoint/portal-client/internal/core/ports"
	"github.com/carepoint/portal-client/internal/metrics"
)

const defaultPopularLimit = 5

// DashboardService serves manager reporting. Normalized payloads are cached
// per path; bookings invalidate the whole cache.
//
// When demo mode is on, a failed fetch is answered with sample data and the
// report is marked Demo. With demo mode off the failure propagates.
type DashboardService struct {
	transport ports.Transport
	cache     *cache.Cache[string, []byte]
	demo      bool
	log       zerolog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(transport ports.Transport, ttl time.Duration, demo bool, log zerolog.Logger, opts ...cache.Option) *DashboardService {
	return &DashboardService{
		transport: transport,
		cache:     cache.New[string, []byte]("dashboard", ttl, opts...),
		demo:      demo,
		log:       log.With().Str("resource", "dashboard").Logger(),
	}
}

func (s *DashboardService) InvalidateAll() {
	s.cache.InvalidateAll()
}

func (s *DashboardService) Stats(ctx context.Context) (ports.Report[domain.DashboardStats], error) {
	return fetchReport(ctx, s, "stats", "/api/Dashboard/stats", decodeObject[domain.DashboardStats], demoStats)
}

func (s *DashboardService) Revenue(ctx context.Context) (ports.Report[domain.RevenueStats], error) {
	return fetchReport(ctx, s, "revenue", "/api/Dashboard/revenue", decodeObject[domain.RevenueStats], demoRevenue)
}

func (s *DashboardService) Users(ctx context.Context) (ports.Report[domain.UserStats], error) {
	return fetchReport(ctx, s, "users", "/api/Dashboard/users", decodeObject[domain.UserStats], demoUsers)
}

func (s *DashboardService) Bookings(ctx context.Context) (ports.Report[domain.BookingStats], error) {
	return fetchReport(ctx, s, "bookings", "/api/Dashboard/bookings", decodeObject[domain.BookingStats], demoBookings)
}

func (s *DashboardService) Services(ctx context.Context) (ports.Report[domain.ServiceStats], error) {
	return fetchReport(ctx, s, "services", "/api/Dashboard/services", decodeObject[domain.ServiceStats], demoServices)
}

func (s *DashboardService) MonthlyRevenue(ctx context.Context, year int) (ports.Report[[]domain.MonthlyRevenue], error) {
	return fetchReport(ctx, s, "monthly_revenue", pathf("/api/Dashboard/revenue/monthly/%d", year), envelope.DecodeList[domain.MonthlyRevenue], demoMonthlyRevenue)
}

func (s *DashboardService) RevenueByService(ctx context.Context) (ports.Report[[]domain.ServiceRevenue], error) {
	return fetchReport(ctx, s, "revenue_by_service", "/api/Dashboard/revenue/by-service", envelope.DecodeList[domain.ServiceRevenue], demoRevenueByService)
}

func (s *DashboardService) PopularServices(ctx context.Context, limit int) (ports.Report[[]domain.PopularService], error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	return fetchReport(ctx, s, "popular_services", pathf("/api/Dashboard/services/popular?limit=%d", limit), envelope.DecodeList[domain.PopularService], func() []domain.PopularService {
		out := demoPopularServices()
		if len(out) > limit {
			out = out[:limit]
		}
		return out
	})
}

// Overview fetches the landing page figures concurrently.
func (s *DashboardService) Overview(ctx context.Context, year int) (*ports.DashboardOverview, error) {
	var out ports.DashboardOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.Stats(gctx)
		out.Stats = r
		return err
	})
	g.Go(func() error {
		r, err := s.MonthlyRevenue(gctx, year)
		out.Monthly = r
		return err
	})
	g.Go(func() error {
		r, err := s.PopularServices(gctx, defaultPopularLimit)
		out.Popular = r
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func fetchReport[T any](
	ctx context.Context,
	s *DashboardService,
	name, path string,
	decode func([]byte) (T, error),
	demo func() T,
) (ports.Report[T], error) {
	data, err := fetchPayload(ctx, s, name, path, decode)
	if err == nil {
		return ports.Report[T]{Data: data}, nil
	}
	if !s.demo {
		return ports.Report[T]{}, err
	}

	metrics.DemoFallbacksTotal.WithLabelValues(name).Inc()
	s.log.Warn().Err(err).Str("report", name).Msg("serving demo data")
	return ports.Report[T]{Data: demo(), Demo: true}, nil
}

// fetchPayload caches the raw body and decodes on every read, so callers
// never share a mutable value.
func fetchPayload[T any](ctx context.Context, s *DashboardService, name, path string, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if raw, ok := s.cache.Get(path); ok {
		return decode(raw)
	}

	gen := s.cache.Generation()
	raw, err := s.transport.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, &domain.FetchError{Op: "dashboard " + name, Err: err}
	}
	v, err := decode(raw)
	if err != nil {
		return zero, &domain.FetchError{Op: "dashboard " + name, Err: err}
	}
	s.cache.PutIfCurrent(path, raw, gen)
	return v, nil
}

func decodeObject[T any](raw []byte) (T, error) {
	v, err := envelope.DecodeObject[T](raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return *v, nil
}
