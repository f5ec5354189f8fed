package users

import (
	"context"
	"strings"
	"time"

	"hotlunchhub/pkg/logger"
)

type Options struct {
	UnknownRoleNoop bool
	Compensate      bool
	IdempotencyTTL  time.Duration
}

type Option func(*Service)

func WithIdempotency(store IdempotencyStore) Option {
	return func(s *Service) {
		if store != nil {
			s.idempotency = store
		}
	}
}

func WithEvents(publisher EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

type Service struct {
	repo        Repository
	identities  IdentityProvider
	idempotency IdempotencyStore
	events      EventPublisher
	metrics     Metrics
	log         logger.Logger
	opts        Options
	now         func() time.Time
}

func NewService(repo Repository, identities IdentityProvider, log logger.Logger, opts Options, extra ...Option) *Service {
	s := &Service{
		repo:        repo,
		identities:  identities,
		idempotency: noopIdempotency{},
		events:      noopEvents{},
		metrics:     noopMetrics{},
		log:         log,
		opts:        opts,
		now:         time.Now,
	}
	for _, apply := range extra {
		apply(s)
	}
	return s
}

func (s *Service) publish(ctx context.Context, event Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("users.events: publish failed", "type", event.Type, "err", err)
	}
}

// compensate rolls back a failed saga and reports the outcome. The original
// failure is what the caller sees.
func (s *Service) compensate(ctx context.Context, sg *saga, cause error, userID string) {
	step, _ := StepOf(cause)
	undone, err := sg.rollback(ctx)
	if err != nil {
		s.log.InternalError("users."+sg.operation+": compensation failed", err, "user_id", userID, "failed_step", step)
		s.publish(ctx, Event{Type: EventCompensationFailed, UserID: userID, Step: step, Error: err.Error()})
		return
	}
	if len(undone) > 0 {
		s.log.Warn("users."+sg.operation+": compensated", "user_id", userID, "failed_step", step, "undone", strings.Join(undone, ","))
		s.publish(ctx, Event{Type: EventCompensated, UserID: userID, Step: step, Error: cause.Error()})
	}
}
