package ports

import (
	"cmp"
	"context"
	"slices"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// ClinicRepository backs the sandbox API's resource routes. Lookups of a
// missing identity return an error matching domain.ErrNotFound.
type ClinicRepository interface {
	Employees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, in domain.EmployeeInput) (domain.Employee, error)
	UpdateEmployee(ctx context.Context, userID int64, in domain.EmployeeInput) (domain.Employee, error)
	DeleteEmployee(ctx context.Context, userID int64) error

	Qualifications(ctx context.Context) ([]domain.Qualification, error)
	CreateQualification(ctx context.Context, in domain.QualificationInput) (domain.Qualification, error)
	UpdateQualification(ctx context.Context, id int64, in domain.QualificationInput) (domain.Qualification, error)
	DeleteQualification(ctx context.Context, id int64) error

	Services(ctx context.Context) ([]domain.Service, error)
	Service(ctx context.Context, serviceID int64) (domain.Service, error)

	Feedback(ctx context.Context, filter FeedbackFilter) ([]domain.FeedbackEntry, error)
	FeedbackEntry(ctx context.Context, id int64) (domain.FeedbackEntry, error)
	CreateFeedback(ctx context.Context, in domain.FeedbackInput) (domain.FeedbackEntry, error)
	UpdateFeedback(ctx context.Context, id int64, in domain.FeedbackInput) (domain.FeedbackEntry, error)
	DeleteFeedback(ctx context.Context, id int64) error

	CreateBooking(ctx context.Context, userID int64, in domain.BookingInput) (domain.Booking, error)

	Report(ctx context.Context) (ClinicReport, error)
	Ping(ctx context.Context) error
}

// FeedbackFilter narrows a feedback listing; zero fields match everything.
type FeedbackFilter struct {
	UserID    int64
	ServiceID int64
}

// ClinicReport is a point-in-time view of the figures behind the dashboard
// routes.
type ClinicReport struct {
	Stats     domain.DashboardStats
	Revenue   domain.RevenueStats
	Users     domain.UserStats
	Bookings  domain.BookingStats
	Services  domain.ServiceStats
	ByService []domain.ServiceRevenue
	// Monthly is keyed by year; each slice holds 12 months in order.
	Monthly map[int][]domain.MonthlyRevenue
}

// MonthlyRevenue returns twelve entries for year, zero-filled.
func (r ClinicReport) MonthlyRevenue(year int) []domain.MonthlyRevenue {
	if months, ok := r.Monthly[year]; ok {
		return months
	}
	return EmptyYear()
}

// PopularServices ranks services by booking count, at most limit entries.
func (r ClinicReport) PopularServices(limit int) []domain.PopularService {
	ranked := slices.Clone(r.ByService)
	slices.SortStableFunc(ranked, func(a, b domain.ServiceRevenue) int {
		return cmp.Compare(b.Bookings, a.Bookings)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.PopularService, len(ranked))
	for i, sr := range ranked {
		out[i] = domain.PopularService{ServiceID: sr.ServiceID, ServiceName: sr.ServiceName, BookingCount: sr.Bookings}
	}
	return out
}

// EmptyYear returns months 1 through 12 with no revenue.
func EmptyYear() []domain.MonthlyRevenue {
	out := make([]domain.MonthlyRevenue, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	return out
}
