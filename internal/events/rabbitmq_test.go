package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	failNext  bool
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _ string, key string, _, _ bool, msg amqp.Publishing) error {
	if c.failNext {
		c.failNext = false
		return errors.New("channel closed")
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func staticDial(ch *fakeChannel) dialFunc {
	return func(string, string) (channel, func() error, error) {
		return ch, func() error { return nil }, nil
	}
}

func TestPublishRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	publisher := newPublisher("amqp://test", "hotlunchhub.events", logger.Discard(), staticDial(ch), 8)

	event := users.Event{Type: users.EventUserCreated, UserID: "uid-1", Role: "cook", OccurredAt: time.Unix(1700000000, 0).UTC()}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(ch.keys) != 1 || ch.keys[0] != "user.created" {
		t.Fatalf("expected routing key user.created, got %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing %+v", msg)
	}

	var decoded users.Event
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.UserID != "uid-1" || decoded.Role != "cook" {
		t.Fatalf("unexpected body %+v", decoded)
	}
	if !ch.closed {
		t.Fatalf("expected channel closed on shutdown")
	}
}

func TestPublishRedialsAfterFailure(t *testing.T) {
	first := &fakeChannel{failNext: true}
	second := &fakeChannel{}
	dials := 0
	dial := func(string, string) (channel, func() error, error) {
		dials++
		if dials == 1 {
			return first, func() error { return nil }, nil
		}
		return second, func() error { return nil }, nil
	}
	publisher := newPublisher("amqp://test", "x", logger.Discard(), dial, 8)

	for i := 0; i < 2; i++ {
		if err := publisher.Publish(context.Background(), users.Event{Type: users.EventRecordDeleted}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	_ = publisher.Close()

	if !first.closed {
		t.Fatalf("expected failed channel closed")
	}
	if dials != 2 || len(second.published) != 1 {
		t.Fatalf("expected redial, got %d dials and %d messages", dials, len(second.published))
	}
}

func TestPublishDoesNotWaitForBroker(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	dial := func(string, string) (channel, func() error, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil, nil, errors.New("dial timeout")
	}
	publisher := newPublisher("amqp://test", "x", logger.Discard(), dial, 1)
	defer func() {
		close(release)
		_ = publisher.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := publisher.Publish(ctx, users.Event{Type: users.EventUserCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	<-entered

	if err := publisher.Publish(ctx, users.Event{Type: users.EventUserCreated}); err != nil {
		t.Fatalf("expected second event queued, got %v", err)
	}
	if err := publisher.Publish(ctx, users.Event{Type: users.EventUserCreated}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish blocked for %s", elapsed)
	}
}

func TestPublishAfterClose(t *testing.T) {
	publisher := newPublisher("amqp://test", "x", logger.Discard(), staticDial(&fakeChannel{}), 1)
	_ = publisher.Close()

	if err := publisher.Publish(context.Background(), users.Event{Type: users.EventUserCreated}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("expected second close to succeed, got %v", err)
	}
}

func TestPublishCanceledContext(t *testing.T) {
	publisher := newPublisher("amqp://test", "x", logger.Discard(), staticDial(&fakeChannel{}), 1)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := publisher.Publish(ctx, users.Event{Type: users.EventUserCreated}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
