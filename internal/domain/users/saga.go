package users

import (
	"context"
	"errors"
	"fmt"
)

const (
	outcomeOK                 = "ok"
	outcomeFailed             = "failed"
	outcomeCompensated        = "compensated"
	outcomeCompensationFailed = "compensation_failed"
)

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// saga runs dependent writes across the identity provider and the database.
// Each completed step may leave an undo; rollback runs them newest first.
type saga struct {
	operation  string
	compensate bool
	metrics    Metrics
	done       []compensation
}

func newSaga(operation string, compensate bool, metrics Metrics) *saga {
	return &saga{operation: operation, compensate: compensate, metrics: metrics}
}

func (s *saga) run(ctx context.Context, step string, do func(ctx context.Context) error, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		s.metrics.ObserveStep(s.operation, step, outcomeFailed)
		return &StepError{Operation: s.operation, Step: step, Err: err}
	}
	s.metrics.ObserveStep(s.operation, step, outcomeOK)
	if undo != nil {
		s.done = append(s.done, compensation{step: step, undo: undo})
	}
	return nil
}

// rollback undoes completed steps. It keeps going past failures and returns
// them joined. The request context may already be cancelled, so undo work
// runs on a detached one.
func (s *saga) rollback(ctx context.Context) ([]string, error) {
	if !s.compensate || len(s.done) == 0 {
		return nil, nil
	}

	ctx = context.WithoutCancel(ctx)
	var (
		undone []string
		errs   []error
	)
	for i := len(s.done) - 1; i >= 0; i-- {
		c := s.done[i]
		if err := c.undo(ctx); err != nil {
			s.metrics.ObserveStep(s.operation, c.step, outcomeCompensationFailed)
			errs = append(errs, fmt.Errorf("undo %s: %w", c.step, err))
			continue
		}
		s.metrics.ObserveStep(s.operation, c.step, outcomeCompensated)
		undone = append(undone, c.step)
	}
	s.done = nil
	return undone, errors.Join(errs...)
}
