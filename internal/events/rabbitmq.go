// Package events publishes user lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

const (
	defaultQueueSize = 256
	dialTimeout      = 3 * time.Second
	publishTimeout   = 5 * time.Second
	drainTimeout     = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("events: publish queue full")
	ErrClosed    = errors.New("events: publisher closed")
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func(url, exchange string) (channel, func() error, error)

type message struct {
	key        string
	body       []byte
	occurredAt time.Time
}

// Publisher sends each event to a durable topic exchange with the event
// type as routing key. Publish only enqueues; a single worker owns the
// connection, opens it lazily and reopens it after a failed publish.
type Publisher struct {
	url      string
	exchange string
	log      logger.Logger
	dial     dialFunc

	ctx    context.Context
	cancel context.CancelFunc
	queue  chan message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	// owned by run
	ch        channel
	closeConn func() error
}

func NewPublisher(url, exchange string, log logger.Logger) *Publisher {
	return newPublisher(url, exchange, log, rabbitDialer(dialTimeout), defaultQueueSize)
}

func newPublisher(url, exchange string, log logger.Logger, dial dialFunc, queueSize int) *Publisher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		url:      url,
		exchange: exchange,
		log:      log,
		dial:     dial,
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan message, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func rabbitDialer(timeout time.Duration) dialFunc {
	return func(url, exchange string) (channel, func() error, error) {
		conn, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(timeout),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
		}
		if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
		}
		return ch, conn.Close, nil
	}
}

// Publish queues the event without waiting for the broker.
func (p *Publisher) Publish(ctx context.Context, event users.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- message{key: event.Type, body: body, occurredAt: event.OccurredAt}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be sent. After
// drainTimeout the rest are dropped.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	timer := time.NewTimer(drainTimeout)
	defer timer.Stop()
	select {
	case <-p.done:
	case <-timer.C:
		p.cancel()
		<-p.done
	}
	p.cancel()
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)
	defer p.reset()

	dropped := 0
	for msg := range p.queue {
		if p.ctx.Err() != nil {
			dropped++
			continue
		}
		if err := p.send(msg); err != nil {
			p.log.Warn("events.publish: failed", "type", msg.key, "err", err)
		}
	}
	if dropped > 0 {
		p.log.Warn("events.publish: dropped queued events on close", "count", dropped)
	}
}

func (p *Publisher) send(msg message) error {
	if p.ch == nil {
		ch, closeConn, err := p.dial(p.url, p.exchange)
		if err != nil {
			return err
		}
		p.ch = ch
		p.closeConn = closeConn
	}

	ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
	defer cancel()
	err := p.ch.PublishWithContext(ctx, p.exchange, msg.key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.occurredAt,
		Type:         msg.key,
		Body:         msg.body,
	})
	if err != nil {
		p.log.Warn("events.publish: dropping connection after failure", "type", msg.key, "err", err)
		p.reset()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch = nil
	p.closeConn = nil
}
