package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// EmployeeService reads and manages staff accounts. The API has no
// fetch-by-id route for employees, so Get resolves against the cached list.
type EmployeeService struct {
	res *resource[domain.Employee]
}

var _ ports.EmployeeService = (*EmployeeService)(nil)

func NewEmployeeService(transport ports.Transport, ttl time.Duration, log zerolog.Logger, opts ...cache.Option) *EmployeeService {
	return &EmployeeService{res: newResource(resourceConfig[domain.Employee]{
		kind:        "employee",
		plural:      "employees",
		listPath:    "/api/Users/employees",
		itemPath:    "/api/Users",
		createPath:  "/api/Users",
		getFromList: true,
		id:          func(e domain.Employee) int64 { return e.UserID },
		ttl:         ttl,
	}, transport, log, opts...)}
}

// List returns the employees matching filter, in the API's order.
func (s *EmployeeService) List(ctx context.Context, filter ports.EmployeeFilter) ([]domain.Employee, error) {
	all, err := s.res.list(ctx)
	if err != nil {
		return nil, err
	}
	return FilterEmployees(all, filter), nil
}

func (s *EmployeeService) Get(ctx context.Context, userID int64) (*domain.Employee, error) {
	return s.res.get(ctx, userID)
}

func (s *EmployeeService) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.create(ctx, in)
}

func (s *EmployeeService) Update(ctx context.Context, userID int64, in domain.EmployeeInput) (*domain.Employee, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.update(ctx, userID, in)
}

func (s *EmployeeService) Delete(ctx context.Context, userID int64) error {
	return s.res.remove(ctx, userID)
}

func (s *EmployeeService) InvalidateAll() {
	s.res.InvalidateAll()
}

// FilterEmployees keeps the employees that hold filter.Role and whose name or
// email contains filter.Search, case-insensitively. It does not modify list
// and preserves relative order.
func FilterEmployees(list []domain.Employee, filter ports.EmployeeFilter) []domain.Employee {
	role := strings.TrimSpace(filter.Role)
	term := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]domain.Employee, 0, len(list))
	for _, e := range list {
		if role != "" && !hasRole(e.Roles, role) {
			continue
		}
		if term != "" && !matchesSearch(e, term) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func matchesSearch(e domain.Employee, term string) bool {
	for _, field := range []string{e.FirstName, e.LastName, e.FullName(), e.Email} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
