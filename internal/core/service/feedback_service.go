package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// FeedbackService manages customer ratings. Server-side filtered lists are
// cached beside the aggregate list and dropped with it on every write.
type FeedbackService struct {
	res      *resource[domain.FeedbackEntry]
	sessions ports.SessionProvider
}

var _ ports.FeedbackService = (*FeedbackService)(nil)

func NewFeedbackService(transport ports.Transport, sessions ports.SessionProvider, ttl time.Duration, log zerolog.Logger, opts ...cache.Option) *FeedbackService {
	return &FeedbackService{
		res: newResource(resourceConfig[domain.FeedbackEntry]{
			kind:     "feedback",
			plural:   "feedback",
			listPath: "/api/Feedback",
			itemPath: "/api/Feedback",
			id:       func(f domain.FeedbackEntry) int64 { return f.FeedbackID },
			ttl:      ttl,
		}, transport, log, opts...),
		sessions: sessions,
	}
}

func (s *FeedbackService) List(ctx context.Context) ([]domain.FeedbackEntry, error) {
	return s.res.list(ctx)
}

func (s *FeedbackService) Get(ctx context.Context, feedbackID int64) (*domain.FeedbackEntry, error) {
	return s.res.get(ctx, feedbackID)
}

func (s *FeedbackService) ForService(ctx context.Context, serviceID int64) ([]domain.FeedbackEntry, error) {
	key := cacheKey{scope: "service", id: serviceID}
	return s.res.collection(ctx, key, pathf("/api/Feedback/service/%d", serviceID), "list feedback for service")
}

func (s *FeedbackService) ForUserAndService(ctx context.Context, userID, serviceID int64) ([]domain.FeedbackEntry, error) {
	key := cacheKey{scope: "user-service", id: userID, id2: serviceID}
	return s.res.collection(ctx, key, pathf("/api/Feedback/user/%d/service/%d", userID, serviceID), "list feedback for user and service")
}

// Create submits feedback. UserID defaults to the session user.
func (s *FeedbackService) Create(ctx context.Context, in domain.FeedbackInput) (*domain.FeedbackEntry, error) {
	in = s.withUser(in)
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.create(ctx, in)
}

func (s *FeedbackService) Update(ctx context.Context, feedbackID int64, in domain.FeedbackInput) (*domain.FeedbackEntry, error) {
	in = s.withUser(in)
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.update(ctx, feedbackID, in)
}

func (s *FeedbackService) Delete(ctx context.Context, feedbackID int64) error {
	return s.res.remove(ctx, feedbackID)
}

func (s *FeedbackService) InvalidateAll() {
	s.res.InvalidateAll()
}

func (s *FeedbackService) withUser(in domain.FeedbackInput) domain.FeedbackInput {
	if in.UserID != 0 || s.sessions == nil {
		return in
	}
	if sess, ok := s.sessions.Current(); ok {
		in.UserID = sess.User.UserID
	}
	return in
}
