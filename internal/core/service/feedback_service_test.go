package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
)

type stubSessions struct {
	sess *domain.Session
}

func (s *stubSessions) Current() (*domain.Session, bool) {
	return s.sess, s.sess != nil
}

const feedbackForService = `{"success":true,"data":[{"feedbackId":1,"userId":7,"serviceId":2,"rating":5,"comment":"great"}]}`

func TestFeedbackService_SubListsCachedSeparately(t *testing.T) {
	tr := &stubTransport{fn: func(method, path string, _ any) ([]byte, error) {
		switch path {
		case "/api/Feedback/service/2":
			return []byte(feedbackForService), nil
		case "/api/Feedback/user/7/service/2":
			return []byte(`{"success":true,"data":[]}`), nil
		}
		return nil, statusError(method, path, http.StatusNotFound)
	}}
	svc := NewFeedbackService(tr, nil, cache.DefaultTTL, zerolog.Nop())
	ctx := context.Background()

	for range 2 {
		got, err := svc.ForService(ctx, 2)
		if err != nil {
			t.Fatalf("ForService returned error: %v", err)
		}
		if len(got) != 1 || got[0].Rating != 5 {
			t.Fatalf("unexpected feedback: %+v", got)
		}
		mine, err := svc.ForUserAndService(ctx, 7, 2)
		if err != nil {
			t.Fatalf("ForUserAndService returned error: %v", err)
		}
		if mine == nil || len(mine) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", mine)
		}
	}

	if n := tr.count(http.MethodGet, "/api/Feedback/service/2"); n != 1 {
		t.Fatalf("expected 1 fetch for service feedback, got %d", n)
	}
	if n := tr.count(http.MethodGet, "/api/Feedback/user/7/service/2"); n != 1 {
		t.Fatalf("expected 1 fetch for user feedback, got %d", n)
	}
}

func TestFeedbackService_CreateUsesSessionUserAndInvalidates(t *testing.T) {
	var posted domain.FeedbackInput
	tr := &stubTransport{fn: func(method, path string, body any) ([]byte, error) {
		if method == http.MethodPost {
			posted = body.(domain.FeedbackInput)
			return []byte(`{"success":true,"data":{"feedbackId":9,"userId":7,"serviceId":2,"rating":4}}`), nil
		}
		return []byte(feedbackForService), nil
	}}
	sessions := &stubSessions{sess: &domain.Session{Token: "t", User: domain.User{UserID: 7}}}
	svc := NewFeedbackService(tr, sessions, cache.DefaultTTL, zerolog.Nop())
	ctx := context.Background()

	_, _ = svc.ForService(ctx, 2)
	created, err := svc.Create(ctx, domain.FeedbackInput{ServiceID: 2, Rating: 4})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.FeedbackID != 9 {
		t.Fatalf("unexpected feedback: %+v", created)
	}
	if posted.UserID != 7 {
		t.Fatalf("expected session user on the request, got %d", posted.UserID)
	}

	_, _ = svc.ForService(ctx, 2)
	if n := tr.count(http.MethodGet, "/api/Feedback/service/2"); n != 2 {
		t.Fatalf("expected sub-list refetch after create, got %d", n)
	}
}

func TestFeedbackService_RatingOutOfRange(t *testing.T) {
	tr := &stubTransport{fn: func(string, string, any) ([]byte, error) { return nil, nil }}
	svc := NewFeedbackService(tr, nil, cache.DefaultTTL, zerolog.Nop())

	_, err := svc.Create(context.Background(), domain.FeedbackInput{ServiceID: 2, Rating: 6})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	v, ok := ve.Field("rating")
	if !ok || v.Rule != "max" {
		t.Fatalf("expected max violation on rating, got %+v", ve.Violations)
	}
}

func TestFeedbackService_DeclinedUpdate(t *testing.T) {
	tr := &stubTransport{fn: func(method, _ string, _ any) ([]byte, error) {
		if method == http.MethodPut {
			return []byte(`{"success":false,"message":"feedback is locked"}`), nil
		}
		return []byte(feedbackForService), nil
	}}
	svc := NewFeedbackService(tr, nil, cache.DefaultTTL, zerolog.Nop())

	_, err := svc.Update(context.Background(), 1, domain.FeedbackInput{UserID: 7, ServiceID: 2, Rating: 3})
	if !errors.Is(err, domain.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	var ne *domain.NormalizationError
	if !errors.As(err, &ne) || ne.Reason != "feedback is locked" {
		t.Fatalf("expected server message, got %v", err)
	}
}
