// Package memory is the in-process repository behind the sandbox API. It
// holds accounts, the clinic's resources and bookings, and derives the
// dashboard figures from them.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

const (
	bookingPending   = "Pending"
	bookingCompleted = "Completed"
	bookingCancelled = "Cancelled"
)

type account struct {
	user    domain.User
	hash    []byte
	created time.Time
}

type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	cost int

	nextID         int64
	accounts       map[int64]*account
	qualifications map[int64]domain.Qualification
	services       map[int64]domain.Service
	feedback       map[int64]domain.FeedbackEntry
	bookings       map[int64]domain.Booking
}

var (
	_ ports.AccountRepository = (*Store)(nil)
	_ ports.ClinicRepository  = (*Store)(nil)
)

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithBcryptCost sets the password hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:            time.Now,
		cost:           bcrypt.DefaultCost,
		nextID:         1,
		accounts:       make(map[int64]*account),
		qualifications: make(map[int64]domain.Qualification),
		services:       make(map[int64]domain.Service),
		feedback:       make(map[int64]domain.FeedbackEntry),
		bookings:       make(map[int64]domain.Booking),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ── Accounts ─────────────────────────────────────────────────────────────────

func (s *Store) CreateAccount(_ context.Context, u domain.User, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTakenLocked(u.Email, 0) {
		return domain.User{}, domain.ErrUserExists
	}
	if len(u.Roles) == 0 {
		u.Roles = []string{domain.RoleCustomer}
	}
	u.UserID = s.idLocked()
	s.accounts[u.UserID] = &account{user: u, hash: hash, created: s.now()}
	return u, nil
}

func (s *Store) Authenticate(_ context.Context, email, password string) (domain.User, error) {
	s.mu.RLock()
	var found *account
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Email, email) {
			found = a
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(found.hash, []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return found.user, nil
}

func (s *Store) Account(_ context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return domain.User{}, notFound("user", userID)
	}
	return a.user, nil
}

func (s *Store) UpdateProfile(_ context.Context, userID int64, patch domain.ProfileUpdate) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return domain.User{}, notFound("user", userID)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.user.FirstName, patch.FirstName)
	set(&a.user.LastName, patch.LastName)
	set(&a.user.PhoneNumber, patch.PhoneNumber)
	set(&a.user.DateOfBirth, patch.DateOfBirth)
	set(&a.user.Sex, patch.Sex)
	return a.user, nil
}

// ── Employees ────────────────────────────────────────────────────────────────

// Employees lists every account holding a role other than Customer.
func (s *Store) Employees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Employee{}
	for _, id := range slices.Sorted(maps.Keys(s.accounts)) {
		u := s.accounts[id].user
		if isEmployee(u) {
			out = append(out, toEmployee(u))
		}
	}
	return out, nil
}

func (s *Store) CreateEmployee(ctx context.Context, in domain.EmployeeInput) (domain.Employee, error) {
	password := in.Password
	if password == "" {
		password = "changeme"
	}
	u, err := s.CreateAccount(ctx, domain.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Roles:       slices.Clone(in.Roles),
	}, password)
	if err != nil {
		return domain.Employee{}, err
	}
	return toEmployee(u), nil
}

func (s *Store) UpdateEmployee(_ context.Context, userID int64, in domain.EmployeeInput) (domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok || !isEmployee(a.user) {
		return domain.Employee{}, notFound("employee", userID)
	}
	if s.emailTakenLocked(in.Email, userID) {
		return domain.Employee{}, domain.ErrUserExists
	}
	a.user.FirstName = in.FirstName
	a.user.LastName = in.LastName
	a.user.Email = in.Email
	a.user.PhoneNumber = in.PhoneNumber
	a.user.Roles = slices.Clone(in.Roles)
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
		if err != nil {
			return domain.Employee{}, fmt.Errorf("hash password: %w", err)
		}
		a.hash = hash
	}
	return toEmployee(a.user), nil
}

func (s *Store) DeleteEmployee(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok || !isEmployee(a.user) {
		return notFound("employee", userID)
	}
	delete(s.accounts, userID)
	return nil
}

// ── Qualifications ───────────────────────────────────────────────────────────

func (s *Store) Qualifications(_ context.Context) ([]domain.Qualification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.qualifications), nil
}

func (s *Store) CreateQualification(_ context.Context, in domain.QualificationInput) (domain.Qualification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[in.ConsultantID]; !ok {
		return domain.Qualification{}, notFound("consultant", in.ConsultantID)
	}
	q := qualificationFrom(s.idLocked(), in)
	s.qualifications[q.QualificationID] = q
	return q, nil
}

func (s *Store) UpdateQualification(_ context.Context, id int64, in domain.QualificationInput) (domain.Qualification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.qualifications[id]; !ok {
		return domain.Qualification{}, notFound("qualification", id)
	}
	q := qualificationFrom(id, in)
	s.qualifications[id] = q
	return q, nil
}

func (s *Store) DeleteQualification(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.qualifications[id]; !ok {
		return notFound("qualification", id)
	}
	delete(s.qualifications, id)
	return nil
}

// ── Service catalog ──────────────────────────────────────────────────────────

func (s *Store) Services(_ context.Context) ([]domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.services), nil
}

func (s *Store) Service(_ context.Context, serviceID int64) (domain.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[serviceID]
	if !ok {
		return domain.Service{}, notFound("service", serviceID)
	}
	return svc, nil
}

// AddService registers a catalog entry and returns it with its id.
func (s *Store) AddService(svc domain.Service) domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ServiceID = s.idLocked()
	s.services[svc.ServiceID] = svc
	return svc
}

// ── Feedback ─────────────────────────────────────────────────────────────────

func (s *Store) Feedback(_ context.Context, filter ports.FeedbackFilter) ([]domain.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.FeedbackEntry{}
	for _, f := range sortedValues(s.feedback) {
		if filter.UserID != 0 && f.UserID != filter.UserID {
			continue
		}
		if filter.ServiceID != 0 && f.ServiceID != filter.ServiceID {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Store) FeedbackEntry(_ context.Context, id int64) (domain.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.feedback[id]
	if !ok {
		return domain.FeedbackEntry{}, notFound("feedback", id)
	}
	return f, nil
}

func (s *Store) CreateFeedback(_ context.Context, in domain.FeedbackInput) (domain.FeedbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[in.ServiceID]; !ok {
		return domain.FeedbackEntry{}, notFound("service", in.ServiceID)
	}
	f := domain.FeedbackEntry{
		FeedbackID: s.idLocked(),
		UserID:     in.UserID,
		ServiceID:  in.ServiceID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  s.now().UTC(),
	}
	s.feedback[f.FeedbackID] = f
	return f, nil
}

func (s *Store) UpdateFeedback(_ context.Context, id int64, in domain.FeedbackInput) (domain.FeedbackEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedback[id]
	if !ok {
		return domain.FeedbackEntry{}, notFound("feedback", id)
	}
	f.Rating = in.Rating
	f.Comment = in.Comment
	s.feedback[id] = f
	return f, nil
}

func (s *Store) DeleteFeedback(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.feedback[id]; !ok {
		return notFound("feedback", id)
	}
	delete(s.feedback, id)
	return nil
}

// ── Bookings ─────────────────────────────────────────────────────────────────

func (s *Store) CreateBooking(_ context.Context, userID int64, in domain.BookingInput) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.services[in.ServiceID]; !ok {
		return domain.Booking{}, notFound("service", in.ServiceID)
	}
	b := domain.Booking{
		BookingID:       s.idLocked(),
		ServiceID:       in.ServiceID,
		UserID:          userID,
		AppointmentTime: in.AppointmentTime,
		Notes:           in.Notes,
		Status:          bookingPending,
	}
	s.bookings[b.BookingID] = b
	return b, nil
}

// SetBookingStatus moves a booking to status, e.g. Completed.
func (s *Store) SetBookingStatus(bookingID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return notFound("booking", bookingID)
	}
	b.Status = status
	s.bookings[bookingID] = b
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *Store) idLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) emailTakenLocked(email string, except int64) bool {
	for id, a := range s.accounts {
		if id != except && strings.EqualFold(a.user.Email, email) {
			return true
		}
	}
	return false
}

func isEmployee(u domain.User) bool {
	return slices.ContainsFunc(u.Roles, func(r string) bool {
		return !strings.EqualFold(r, domain.RoleCustomer)
	})
}

func toEmployee(u domain.User) domain.Employee {
	e := domain.Employee{
		UserID:      u.UserID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Roles:       slices.Clone(u.Roles),
	}
	if u.DateOfBirth != "" {
		e.DateOfBirth = &u.DateOfBirth
	}
	if u.Sex != "" {
		e.Sex = &u.Sex
	}
	return e
}

func qualificationFrom(id int64, in domain.QualificationInput) domain.Qualification {
	return domain.Qualification{
		QualificationID: id,
		ConsultantID:    in.ConsultantID,
		Qualifications:  in.Qualifications,
		Experience:      in.Experience,
		Specialization:  in.Specialization,
	}
}

func sortedValues[V any](m map[int64]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range slices.SortedFunc(maps.Keys(m), cmp.Compare[int64]) {
		out = append(out, m[k])
	}
	return out
}

func notFound(kind string, id int64) error {
	return &domain.NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}
