package ports

import (
	"context"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// Report wraps manager reporting data. Demo is true when the remote fetch
// failed and the value is labeled sample data served in demo mode.
type Report[T any] struct {
	Data T
	Demo bool
}

// DashboardOverview bundles the figures the manager landing page shows.
type DashboardOverview struct {
	Stats   Report[domain.DashboardStats]
	Monthly Report[[]domain.MonthlyRevenue]
	Popular Report[[]domain.PopularService]
}

type DashboardService interface {
	Stats(ctx context.Context) (Report[domain.DashboardStats], error)
	Revenue(ctx context.Context) (Report[domain.RevenueStats], error)
	Users(ctx context.Context) (Report[domain.UserStats], error)
	Bookings(ctx context.Context) (Report[domain.BookingStats], error)
	Services(ctx context.Context) (Report[domain.ServiceStats], error)
	MonthlyRevenue(ctx context.Context, year int) (Report[[]domain.MonthlyRevenue], error)
	RevenueByService(ctx context.Context) (Report[[]domain.ServiceRevenue], error)
	PopularServices(ctx context.Context, limit int) (Report[[]domain.PopularService], error)
	Overview(ctx context.Context, year int) (*DashboardOverview, error)
}
