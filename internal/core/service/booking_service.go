package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// BookingService creates appointments. Booking data is per-request and is
// never cached. A booking changes the figures of dependent accessors (the
// manager dashboard), which are invalidated after every write whose outcome
// is success or unknown.
type BookingService struct {
	res        *resource[domain.Booking]
	dependents []Invalidator
	log        zerolog.Logger
}

var _ ports.BookingService = (*BookingService)(nil)

func NewBookingService(transport ports.Transport, log zerolog.Logger, dependents ...Invalidator) *BookingService {
	return &BookingService{
		res: newResource(resourceConfig[domain.Booking]{
			kind:     "booking",
			plural:   "bookings",
			listPath: "/api/testbooking",
			id:       func(b domain.Booking) int64 { return b.BookingID },
			ttl:      0,
		}, transport, log),
		dependents: dependents,
		log:        log,
	}
}

// Create books in.ServiceID at in.AppointmentTime.
func (s *BookingService) Create(ctx context.Context, in domain.BookingInput) (*domain.Booking, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}

	booking, err := s.res.create(ctx, in)
	if err == nil || writeOutcomeUnknown(err) {
		for _, d := range s.dependents {
			d.InvalidateAll()
		}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("booking_id", booking.BookingID).
		Int64("service_id", in.ServiceID).
		Str("appointment_time", in.AppointmentTime).
		Msg("booking created")
	return booking, nil
}
