package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) InvalidateAll() { c.n++ }

func validBooking() domain.BookingInput {
	return domain.BookingInput{ServiceID: 2, AppointmentTime: "2024-07-01T10:30:00", Notes: "first visit"}
}

func TestBookingService_CreateInvalidatesDependents(t *testing.T) {
	tr := &stubTransport{fn: func(string, string, any) ([]byte, error) {
		return []byte(`{"success":true,"data":{"bookingId":31,"serviceId":2,"appointmentTime":"2024-07-01T10:30:00","status":"Pending"}}`), nil
	}}
	dash := &countingInvalidator{}
	svc := NewBookingService(tr, zerolog.Nop(), dash)

	b, err := svc.Create(context.Background(), validBooking())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if b.BookingID != 31 || b.Status != "Pending" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if dash.n != 1 {
		t.Fatalf("expected dependents invalidated once, got %d", dash.n)
	}
	if n := tr.count(http.MethodPost, "/api/testbooking"); n != 1 {
		t.Fatalf("expected one POST, got %d", n)
	}
}

func TestBookingService_Outcomes(t *testing.T) {
	cases := []struct {
		name           string
		body           string
		err            error
		wantInvalidate int
		wantIs         error
	}{
		{"declined", `{"success":false,"message":"slot taken"}`, nil, 0, domain.ErrDeclined},
		{"conflict", "", statusError(http.MethodPost, "/api/testbooking", http.StatusConflict), 0, nil},
		{"server error", "", statusError(http.MethodPost, "/api/testbooking", http.StatusBadGateway), 1, nil},
		{"timeout", "", &domain.TransportError{Method: http.MethodPost, Path: "/api/testbooking", Message: "request timed out"}, 1, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &stubTransport{fn: func(string, string, any) ([]byte, error) {
				if tc.err != nil {
					return nil, tc.err
				}
				return []byte(tc.body), nil
			}}
			dash := &countingInvalidator{}
			svc := NewBookingService(tr, zerolog.Nop(), dash)

			_, err := svc.Create(context.Background(), validBooking())
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
				t.Fatalf("expected %v in chain, got %v", tc.wantIs, err)
			}
			if dash.n != tc.wantInvalidate {
				t.Fatalf("expected %d invalidations, got %d", tc.wantInvalidate, dash.n)
			}
		})
	}
}

func TestBookingService_Validation(t *testing.T) {
	tr := &stubTransport{fn: func(string, string, any) ([]byte, error) { return nil, nil }}
	svc := NewBookingService(tr, zerolog.Nop())

	_, err := svc.Create(context.Background(), domain.BookingInput{AppointmentTime: "tomorrow"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Field("serviceId"); !ok {
		t.Fatalf("expected serviceId violation, got %+v", ve.Violations)
	}
	if v, ok := ve.Field("appointmentTime"); !ok || v.Rule != "datetime" {
		t.Fatalf("expected datetime violation, got %+v", ve.Violations)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("expected no request, got %d", len(tr.calls))
	}
}
