package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/carepoint/portal-client/internal/api/middleware"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/infrastructure/db/memory"
)

// Seeded identities.
const (
	managerID    = int64(1)
	consultantID = int64(2)
	customerID   = int64(6)
	stiServiceID = int64(9)
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(memory.WithBcryptCost(bcrypt.MinCost))
	if err := memory.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func asUser(c echo.Context, id int64, roles ...string) {
	c.Set(middleware.CtxUserID, id)
	c.Set(middleware.CtxRoles, roles)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestFeedbackHandler_CreateUsesCaller(t *testing.T) {
	e := newEcho()
	h := NewFeedbackHandler(seededStore(t))

	rec := httptest.NewRecorder()
	body := `{"userId":99,"serviceId":9,"rating":4,"comment":"quick"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/Feedback", body), rec)
	asUser(c, customerID, domain.RoleCustomer)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var f domain.FeedbackEntry
	decodeData(t, rec, &f)
	if f.UserID != customerID || f.ServiceID != stiServiceID || f.Rating != 4 {
		t.Fatalf("unexpected feedback: %+v", f)
	}
}

func TestFeedbackHandler_UpdateRequiresOwnership(t *testing.T) {
	e := newEcho()
	store := seededStore(t)
	h := NewFeedbackHandler(store)

	f, err := store.CreateFeedback(context.Background(), domain.FeedbackInput{UserID: customerID, ServiceID: stiServiceID, Rating: 5})
	if err != nil {
		t.Fatalf("create feedback: %v", err)
	}
	id := strconv.FormatInt(f.FeedbackID, 10)

	cases := []struct {
		name    string
		userID  int64
		roles   []string
		wantErr error
	}{
		{"other customer", consultantID, []string{domain.RoleConsultant}, domain.ErrForbidden},
		{"owner", customerID, []string{domain.RoleCustomer}, nil},
		{"manager", managerID, []string{domain.RoleManager}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPut, "/api/Feedback/"+id, `{"serviceId":9,"rating":3}`), rec)
			c.SetParamNames("id")
			c.SetParamValues(id)
			asUser(c, tc.userID, tc.roles...)

			err := h.Update(c)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestFeedbackHandler_ForService(t *testing.T) {
	e := newEcho()
	store := seededStore(t)
	h := NewFeedbackHandler(store)

	ctx := context.Background()
	for _, svc := range []int64{stiServiceID, stiServiceID, stiServiceID + 1} {
		if _, err := store.CreateFeedback(ctx, domain.FeedbackInput{UserID: customerID, ServiceID: svc, Rating: 4}); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/Feedback/service/9", nil), rec)
	c.SetParamNames("serviceId")
	c.SetParamValues("9")

	if err := h.ForService(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var list []domain.FeedbackEntry
	decodeData(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
}

func TestQualificationHandler_ListUsesResultEnvelope(t *testing.T) {
	e := newEcho()
	h := NewQualificationHandler(seededStore(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/staffqualification", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp struct {
		Result []domain.Qualification `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Result) != 2 {
		t.Fatalf("expected 2 seeded qualifications, got %d", len(resp.Result))
	}
}

func TestEmployeeHandler_ListIsBareArray(t *testing.T) {
	e := newEcho()
	h := NewEmployeeHandler(seededStore(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/Users/employees", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var list []domain.Employee
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("expected bare array: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 employees, got %d", len(list))
	}
}

func TestBookingHandler_CreateAnswersRawObject(t *testing.T) {
	e := newEcho()
	h := NewBookingHandler(seededStore(t), quietLog())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/testbooking", `{"serviceId":9,"appointmentTime":"2024-06-01T09:00:00"}`), rec)
	asUser(c, customerID, domain.RoleCustomer)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var b domain.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if b.BookingID == 0 || b.ServiceID != stiServiceID || b.UserID != customerID {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestDashboardHandler_StatsCountBookings(t *testing.T) {
	e := newEcho()
	store := seededStore(t)
	h := NewDashboardHandler(store)

	stats := func() domain.DashboardStats {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/Dashboard/stats", nil), rec)
		if err := h.Stats(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var s domain.DashboardStats
		decodeData(t, rec, &s)
		return s
	}

	before := stats()
	if _, err := store.CreateBooking(context.Background(), customerID, domain.BookingInput{ServiceID: stiServiceID, AppointmentTime: "2024-06-01T09:00:00"}); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	after := stats()
	if after.TotalBookings != before.TotalBookings+1 {
		t.Fatalf("expected bookings %d, got %d", before.TotalBookings+1, after.TotalBookings)
	}
}

func TestDashboardHandler_MonthlyRevenueRejectsBadYear(t *testing.T) {
	e := newEcho()
	h := NewDashboardHandler(seededStore(t))

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/Dashboard/revenue/monthly/abc", nil), httptest.NewRecorder())
	c.SetParamNames("year")
	c.SetParamValues("abc")

	err := h.MonthlyRevenue(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestDashboardHandler_PopularServicesLimit(t *testing.T) {
	e := newEcho()
	h := NewDashboardHandler(seededStore(t))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/Dashboard/services/popular?limit=2", nil), rec)

	if err := h.PopularServices(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var list []domain.PopularService
	decodeData(t, rec, &list)
	if len(list) > 2 {
		t.Fatalf("expected at most 2 entries, got %d", len(list))
	}
}
