package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carepoint/portal-client/internal/core/cache"
	"github.com/carepoint/portal-client/internal/core/domain"
	"github.com/carepoint/portal-client/internal/core/ports"
)

// QualificationService serves consultant qualifications. Lookups by
// consultant scan the cached full list; qualification sets are small.
type QualificationService struct {
	res *resource[domain.Qualification]
}

var _ ports.QualificationService = (*QualificationService)(nil)

func NewQualificationService(transport ports.Transport, ttl time.Duration, log zerolog.Logger, opts ...cache.Option) *QualificationService {
	return &QualificationService{res: newResource(resourceConfig[domain.Qualification]{
		kind:     "qualification",
		plural:   "qualifications",
		listPath: "/api/staffqualification",
		itemPath: "/api/staffqualification",
		id:       func(q domain.Qualification) int64 { return q.QualificationID },
		ttl:      ttl,
	}, transport, log, opts...)}
}

func (s *QualificationService) List(ctx context.Context) ([]domain.Qualification, error) {
	return s.res.list(ctx)
}

// ForConsultant returns the qualification whose ConsultantID is userID, or
// nil when the consultant has none.
func (s *QualificationService) ForConsultant(ctx context.Context, userID int64) (*domain.Qualification, error) {
	all, err := s.res.list(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range all {
		if q.ConsultantID == userID {
			return &q, nil
		}
	}
	return nil, nil
}

func (s *QualificationService) Get(ctx context.Context, qualificationID int64) (*domain.Qualification, error) {
	return s.res.get(ctx, qualificationID)
}

func (s *QualificationService) Create(ctx context.Context, in domain.QualificationInput) (*domain.Qualification, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.create(ctx, in)
}

func (s *QualificationService) Update(ctx context.Context, qualificationID int64, in domain.QualificationInput) (*domain.Qualification, error) {
	if err := validateForm(in); err != nil {
		return nil, err
	}
	return s.res.update(ctx, qualificationID, in)
}

func (s *QualificationService) Delete(ctx context.Context, qualificationID int64) error {
	return s.res.remove(ctx, qualificationID)
}

func (s *QualificationService) InvalidateAll() {
	s.res.InvalidateAll()
}
