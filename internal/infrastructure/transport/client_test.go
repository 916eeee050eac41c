package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

type stubSessions struct {
	session *domain.Session
}

func (s *stubSessions) Current() (*domain.Session, bool) {
	return s.session, s.session != nil
}

func TestClient_InjectsAuthAndBody(t *testing.T) {
	var gotAuth, gotReqID, gotCT string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(HeaderRequestID)
		gotCT = r.Header.Get("Content-Type")
		if r.URL.Path != "/api/testbooking" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true,"data":{"bookingId":1}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/"}, &stubSessions{session: &domain.Session{Token: "abc"}}, zerolog.Nop())
	raw, err := c.Do(context.Background(), http.MethodPost, "/api/testbooking", map[string]any{"serviceId": 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(raw) != `{"success":true,"data":{"bookingId":1}}` {
		t.Fatalf("unexpected body %s", raw)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("expected request id header")
	}
	if gotCT != "application/json" {
		t.Fatalf("expected json content type, got %q", gotCT)
	}
	if gotBody["serviceId"] != float64(7) {
		t.Fatalf("unexpected body %+v", gotBody)
	}
}

func TestClient_NoSessionNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Fatalf("unexpected auth header %q", h)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Fatalf("unexpected content type on GET")
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, &stubSessions{}, zerolog.Nop())
	if _, err := c.Do(context.Background(), http.MethodGet, "api/ServiceCatalog", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Non2xxBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"feedback not found"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, zerolog.Nop())
	_, err := c.Do(context.Background(), http.MethodDelete, "/api/Feedback/9", nil)

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusNotFound || te.Message != "feedback not found" {
		t.Fatalf("unexpected error %+v", te)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain")
	}
	if te.Ambiguous() {
		t.Fatalf("404 must not be ambiguous")
	}
}

func TestClient_StatusTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil, zerolog.Nop())
	_, err := c.Do(context.Background(), http.MethodGet, "/api/auth/profile", nil)

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Message != "Unauthorized" {
		t.Fatalf("expected status text message, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized in chain")
	}
}

func TestClient_TimeoutIsAmbiguousNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{BaseURL: srv.URL}, nil, zerolog.Nop())
	_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil, ports.WithTimeout(20*time.Millisecond))

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != 0 || te.Message != "request timed out" || !te.Ambiguous() {
		t.Fatalf("unexpected error %+v", te)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain")
	}
}
