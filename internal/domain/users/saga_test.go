package users

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSagaRollbackRunsNewestFirstOnDetachedContext(t *testing.T) {
	metrics := &fakeMetrics{}
	sg := newSaga("test", true, metrics)

	var order []string
	ctx, cancel := context.WithCancel(context.Background())
	for _, step := range []string{"a", "b", "c"} {
		step := step
		if err := sg.run(ctx, step, func(context.Context) error { return nil }, func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			order = append(order, step)
			return nil
		}); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	cancel()

	undone, err := sg.rollback(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Join(order, ",") != "c,b,a" || strings.Join(undone, ",") != "c,b,a" {
		t.Fatalf("expected reverse order, got %v / %v", order, undone)
	}
}

func TestSagaRollbackContinuesPastFailures(t *testing.T) {
	sg := newSaga("test", true, &fakeMetrics{})
	boom := errors.New("boom")

	_ = sg.run(context.Background(), "first", func(context.Context) error { return nil }, func(context.Context) error { return nil })
	_ = sg.run(context.Background(), "second", func(context.Context) error { return nil }, func(context.Context) error { return boom })

	undone, err := sg.rollback(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined boom, got %v", err)
	}
	if len(undone) != 1 || undone[0] != "first" {
		t.Fatalf("expected first undone, got %v", undone)
	}
}

func TestSagaWithoutCompensationKeepsState(t *testing.T) {
	sg := newSaga("test", false, &fakeMetrics{})
	called := false
	_ = sg.run(context.Background(), "only", func(context.Context) error { return nil }, func(context.Context) error {
		called = true
		return nil
	})

	undone, err := sg.rollback(context.Background())
	if err != nil || len(undone) != 0 || called {
		t.Fatalf("expected no rollback, got %v %v %v", undone, err, called)
	}
}
