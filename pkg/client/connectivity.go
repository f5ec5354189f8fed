package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ResultCache keeps values for a fixed TTL measured on an injected clock.
type ResultCache[T any] struct {
	mu      sync.Mutex
	clock   Clock
	ttl     time.Duration
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewResultCache[T any](ttl time.Duration, clock Clock) *ResultCache[T] {
	if clock == nil {
		clock = systemClock{}
	}
	return &ResultCache[T]{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
	}
}

func (c *ResultCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *ResultCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

type ConnectivityStatus struct {
	Online    bool
	CheckedAt time.Time
	Error     string
}

type ConnectivityOptions struct {
	TTL      time.Duration
	Interval time.Duration
	Timeout  time.Duration
	Clock    Clock
}

const healthKey = "health"

// Connectivity reports whether the backend is reachable.
type Connectivity struct {
	client   *Client
	cache    *ResultCache[ConnectivityStatus]
	clock    Clock
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewConnectivity(c *Client, opts ConnectivityOptions) *Connectivity {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Interval <= 0 {
		opts.Interval = opts.TTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Connectivity{
		client:   c,
		cache:    NewResultCache[ConnectivityStatus](opts.TTL, opts.Clock),
		clock:    opts.Clock,
		interval: opts.Interval,
		timeout:  opts.Timeout,
	}
}

// Check returns the cached status or pings the backend when it has expired.
func (c *Connectivity) Check(ctx context.Context) ConnectivityStatus {
	if status, ok := c.cache.Get(healthKey); ok {
		return status
	}
	return c.Refresh(ctx)
}

// Refresh pings the backend and caches the result.
func (c *Connectivity) Refresh(ctx context.Context) ConnectivityStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := ConnectivityStatus{CheckedAt: c.clock.Now()}
	if err := c.ping(ctx); err != nil {
		status.Error = err.Error()
		c.client.log.Debug("client: backend unreachable", "error", err)
	} else {
		status.Online = true
	}
	c.cache.Set(healthKey, status)
	return status
}

func (c *Connectivity) ping(ctx context.Context) error {
	req, err := c.client.newRequest(ctx, http.MethodGet, "/api/health", nil, nil, false)
	if err != nil {
		return err
	}
	return c.client.send(req, nil)
}

// Start primes the cache and keeps refreshing it until Stop or ctx ends.
func (c *Connectivity) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	c.Refresh(loopCtx)

	go func() {
		defer close(done)
		defer c.loopExited(done, cancel)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				c.Refresh(loopCtx)
			}
		}
	}()
}

// loopExited forgets a loop that ended on its own so Start can run again.
func (c *Connectivity) loopExited(done chan struct{}, cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	if c.done == done {
		c.cancel, c.done = nil, nil
	}
	c.mu.Unlock()
}

// Stop ends the refresh loop and drops cached results.
func (c *Connectivity) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	c.cache.Clear()
}
