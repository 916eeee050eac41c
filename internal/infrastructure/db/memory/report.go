package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

const appointmentLayout = "2006-01-02T15:04:05"

// Report derives the dashboard figures from the current bookings. Revenue
// counts the catalog price of every booking that was not cancelled.
func (s *Store) Report(_ context.Context) (ports.ClinicReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	r := ports.ClinicReport{Monthly: make(map[int][]domain.MonthlyRevenue)}

	for _, a := range s.accounts {
		r.Users.TotalUsers++
		if isEmployee(a.user) {
			r.Users.TotalStaff++
		} else {
			r.Users.TotalCustomers++
		}
		if sameMonth(a.created, now) {
			r.Users.NewUsersMonth++
		}
	}

	for _, svc := range s.services {
		r.Services.TotalServices++
		if svc.IsActive {
			r.Services.ActiveServices++
		}
	}

	active := make(map[int64]struct{})
	byService := make(map[int64]*domain.ServiceRevenue)
	for _, b := range s.bookings {
		r.Bookings.TotalBookings++
		switch {
		case strings.EqualFold(b.Status, bookingPending):
			r.Bookings.PendingBookings++
		case strings.EqualFold(b.Status, bookingCompleted):
			r.Bookings.CompletedBookings++
		case strings.EqualFold(b.Status, bookingCancelled):
			r.Bookings.CancelledBookings++
			continue
		default:
			r.Bookings.ConfirmedBookings++
		}
		if b.UserID != 0 {
			active[b.UserID] = struct{}{}
		}

		svc := s.services[b.ServiceID]
		sr, ok := byService[b.ServiceID]
		if !ok {
			sr = &domain.ServiceRevenue{ServiceID: b.ServiceID, ServiceName: svc.ServiceName}
			byService[b.ServiceID] = sr
		}
		sr.Revenue += svc.Price
		sr.Bookings++
		r.Revenue.TotalRevenue += svc.Price

		at, err := time.ParseInLocation(appointmentLayout, b.AppointmentTime, now.Location())
		if err != nil {
			continue
		}
		months, ok := r.Monthly[at.Year()]
		if !ok {
			months = ports.EmptyYear()
			r.Monthly[at.Year()] = months
		}
		months[at.Month()-1].Revenue += svc.Price
		months[at.Month()-1].Bookings++

		if sameMonth(at, now) {
			r.Revenue.MonthlyRevenue += svc.Price
		}
		if d := now.Sub(at); d >= 0 && d < 7*24*time.Hour {
			r.Revenue.WeeklyRevenue += svc.Price
		}
		if sameDay(at, now) {
			r.Revenue.DailyRevenue += svc.Price
		}
	}
	r.Users.ActiveUsers = len(active)

	for _, sr := range byService {
		r.ByService = append(r.ByService, *sr)
	}
	slices.SortFunc(r.ByService, func(a, b domain.ServiceRevenue) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.ServiceID, b.ServiceID)
	})

	r.Stats = domain.DashboardStats{
		TotalUsers:        r.Users.TotalUsers,
		TotalBookings:     r.Bookings.TotalBookings,
		TotalRevenue:      r.Revenue.TotalRevenue,
		TotalServices:     r.Services.TotalServices,
		PendingBookings:   r.Bookings.PendingBookings,
		CompletedBookings: r.Bookings.CompletedBookings,
	}
	return r, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
