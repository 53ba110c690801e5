// Package gateway connects the enrolment wizard to a lead store.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-enrolment/internal/models"
	"course-enrolment/internal/wizard"
)

// LeadWriter is the part of models.LeadStore the gateway needs.
type LeadWriter interface {
	CreateLead(ctx context.Context, lead *models.Lead) error
}

// Publisher announces a lead after it has been written.
type Publisher interface {
	PublishLeadCreated(ctx context.Context, lead *models.Lead) error
}

type Option func(*Store)

// WithTimeout bounds each write. Zero means no extra deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Store is a wizard.Gateway that writes one lead per call. It makes a single
// attempt and reports every failure as wizard.ErrWriteFailed.
type Store struct {
	leads     LeadWriter
	publisher Publisher
	timeout   time.Duration
	log       *zap.Logger
}

var _ wizard.Gateway = (*Store)(nil)

func New(leads LeadWriter, opts ...Option) *Store {
	s := &Store{leads: leads, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Submit(ctx context.Context, rec wizard.Record) (string, error) {
	lead := &models.Lead{
		ID:           uuid.New(),
		Name:         rec.Name,
		Email:        rec.Email,
		Phone:        rec.Phone,
		Education:    rec.Education,
		Experience:   rec.Experience,
		Interests:    rec.Interests,
		Expectations: rec.Expectations,
		CourseType:   rec.CourseType,
		Status:       rec.Status,
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusPending
	}

	writeCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.leads.CreateLead(writeCtx, lead); err != nil {
		fields := []zap.Field{
			zap.String("course", rec.CourseType),
			zap.Error(err),
		}
		var werr *models.WriteError
		if errors.As(err, &werr) {
			fields = append(fields, zap.String("sqlstate", werr.Code), zap.Bool("transient", werr.Transient()))
		}
		s.log.Error("lead write failed", fields...)
		return "", wizard.ErrWriteFailed
	}

	s.log.Info("lead created", zap.String("lead_id", lead.ID.String()), zap.String("course", lead.CourseType))

	if s.publisher != nil {
		if err := s.publisher.PublishLeadCreated(ctx, lead); err != nil {
			s.log.Warn("lead created but not announced", zap.String("lead_id", lead.ID.String()), zap.Error(err))
		}
	}
	return lead.ID.String(), nil
}
