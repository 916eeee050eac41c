package ports

import (
	"context"

	"github.com/carepoint/portal-client/internal/core/domain"
)

// EmployeeFilter is applied client-side after the canonical list is fetched.
// Empty fields match everything.
type EmployeeFilter struct {
	Role   string
	Search string
}

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	Get(ctx context.Context, userID int64) (*domain.Employee, error)
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	Update(ctx context.Context, userID int64, in domain.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, userID int64) error
}

type QualificationService interface {
	List(ctx context.Context) ([]domain.Qualification, error)
	// ForConsultant returns nil without error when the consultant has no entry.
	ForConsultant(ctx context.Context, userID int64) (*domain.Qualification, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]domain.Service, error)
	Get(ctx context.Context, serviceID int64) (*domain.Service, error)
}

type FeedbackService interface {
	List(ctx context.Context) ([]domain.FeedbackEntry, error)
	Get(ctx context.Context, feedbackID int64) (*domain.FeedbackEntry, error)
	ForService(ctx context.Context, serviceID int64) ([]domain.FeedbackEntry, error)
	ForUserAndService(ctx context.Context, userID, serviceID int64) ([]domain.FeedbackEntry, error)
	Create(ctx context.Context, in domain.FeedbackInput) (*domain.FeedbackEntry, error)
	Update(ctx context.Context, feedbackID int64, in domain.FeedbackInput) (*domain.FeedbackEntry, error)
	Delete(ctx context.Context, feedbackID int64) error
}

type BookingService interface {
	Create(ctx context.Context, in domain.BookingInput) (*domain.Booking, error)
}
