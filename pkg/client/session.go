package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrSuperseded is returned by Resolve when a sign-out or a newer sign-in
// took over the auth state before the result could be written.
var ErrSuperseded = errors.New("client: session resolution superseded")

type AuthStatus string

const (
	StatusLoading       AuthStatus = "loading"
	StatusAuthenticated AuthStatus = "authenticated"
	StatusFallback      AuthStatus = "fallback"
	StatusSignedOut     AuthStatus = "signed_out"
)

// User is the signed-in user the app renders. Degraded marks a user whose
// role was guessed or whose role record could not be loaded.
type User struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Status   string
	RecordID int64
	Degraded bool
}

// GuessRole derives a role from substrings of the email address.
func GuessRole(email string) string {
	email = strings.ToLower(email)
	switch {
	case strings.Contains(email, "admin"):
		return "admin"
	case strings.Contains(email, "cook"), strings.Contains(email, "chef"):
		return "cook"
	case strings.Contains(email, "driver"):
		return "driver"
	default:
		return "employee"
	}
}

func guessedUser(session *Session) User {
	name := session.User.Email
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}
	return User{
		ID:       session.User.ID,
		Email:    session.User.Email,
		Name:     name,
		Role:     GuessRole(session.User.Email),
		Degraded: true,
	}
}

type Snapshot struct {
	Status     AuthStatus
	User       *User
	Generation uint64
}

// AuthState holds the current auth snapshot. Every write carries the
// generation it was started under; writes from an older generation are
// dropped.
type AuthState struct {
	// emitMu serialises mutations with their notifications so subscribers
	// observe transitions in order.
	emitMu sync.Mutex

	mu      sync.Mutex
	current Snapshot
	nextSub int
	subs    map[int]func(Snapshot)
}

func NewAuthState() *AuthState {
	return &AuthState{
		current: Snapshot{Status: StatusSignedOut},
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *AuthState) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for every transition. fn runs synchronously and
// must not write to the state.
func (s *AuthState) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Begin starts a new resolution and returns its generation.
func (s *AuthState) Begin() uint64 {
	var gen uint64
	s.update(func(cur *Snapshot) bool {
		cur.Generation++
		cur.Status = StatusLoading
		cur.User = nil
		gen = cur.Generation
		return true
	})
	return gen
}

// SetFallback installs a guessed user while gen is still loading.
func (s *AuthState) SetFallback(gen uint64, user User) bool {
	return s.update(func(cur *Snapshot) bool {
		if cur.Generation != gen || cur.Status != StatusLoading {
			return false
		}
		cur.Status = StatusFallback
		cur.User = &user
		return true
	})
}

// Settle writes the final outcome of gen. A settled generation accepts no
// further writes.
func (s *AuthState) Settle(gen uint64, status AuthStatus, user *User) bool {
	return s.update(func(cur *Snapshot) bool {
		if cur.Generation != gen {
			return false
		}
		if cur.Status != StatusLoading && cur.Status != StatusFallback {
			return false
		}
		cur.Status = status
		cur.User = user
		return true
	})
}

func (s *AuthState) SignOut() {
	s.update(func(cur *Snapshot) bool {
		cur.Generation++
		cur.Status = StatusSignedOut
		cur.User = nil
		return true
	})
}

func (s *AuthState) update(mutate func(*Snapshot) bool) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	next := s.current
	if !mutate(&next) {
		s.mu.Unlock()
		return false
	}
	s.current = next
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return true
}

// UserSource is the part of the API the resolver reads.
type UserSource interface {
	Session(ctx context.Context) (*Session, error)
	Me(ctx context.Context) (*Me, error)
	MeRecord(ctx context.Context) (*Record, error)
}

// SourceFor returns the client bound to token as a UserSource.
func (c *Client) SourceFor(token string) UserSource {
	return c.WithToken(token)
}

type ResolverOptions struct {
	SessionTimeout time.Duration
	ProfileTimeout time.Duration
	RecordTimeout  time.Duration
	// FallbackAfter installs the guessed user while the fetch is still running.
	FallbackAfter time.Duration
	// Deadline bounds the whole resolution.
	Deadline time.Duration
}

func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		SessionTimeout: 10 * time.Second,
		ProfileTimeout: 5 * time.Second,
		RecordTimeout:  5 * time.Second,
		FallbackAfter:  3 * time.Second,
		Deadline:       15 * time.Second,
	}
}

func (o ResolverOptions) withDefaults() ResolverOptions {
	def := DefaultResolverOptions()
	if o.SessionTimeout <= 0 {
		o.SessionTimeout = def.SessionTimeout
	}
	if o.ProfileTimeout <= 0 {
		o.ProfileTimeout = def.ProfileTimeout
	}
	if o.RecordTimeout <= 0 {
		o.RecordTimeout = def.RecordTimeout
	}
	if o.FallbackAfter <= 0 {
		o.FallbackAfter = def.FallbackAfter
	}
	if o.Deadline <= 0 {
		o.Deadline = def.Deadline
	}
	return o
}

type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

type AuthEvent struct {
	Type  EventType
	Token string
}

type SessionResolver struct {
	source func(token string) UserSource
	state  *AuthState
	opts   ResolverOptions

	mu       sync.Mutex
	inflight *inflight
}

type inflight struct {
	cancel context.CancelFunc
}

func NewSessionResolver(source func(token string) UserSource, state *AuthState, opts ResolverOptions) *SessionResolver {
	return &SessionResolver{
		source: source,
		state:  state,
		opts:   opts.withDefaults(),
	}
}

func (r *SessionResolver) State() *AuthState {
	return r.state
}

// HandleEvent drives the state machine from auth provider callbacks.
func (r *SessionResolver) HandleEvent(ctx context.Context, event AuthEvent) error {
	switch event.Type {
	case EventSignedIn:
		_, err := r.Resolve(ctx, event.Token)
		return err
	case EventSignedOut:
		r.state.SignOut()
		r.track(nil)
		return nil
	default:
		return nil
	}
}

type fetchResult struct {
	user   User
	status AuthStatus
	err    error
}

// Resolve loads session, profile and role record for token and writes the
// outcome into the auth state. The guessed user may be shown after
// FallbackAfter; a real profile arriving before Deadline replaces it.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Deadline)
	defer cancel()

	gen := r.state.Begin()
	current := &inflight{cancel: cancel}
	r.track(current)
	defer r.untrack(current)

	sessionCh := make(chan *Session, 1)
	results := make(chan fetchResult, 1)
	go func() {
		results <- r.fetch(ctx, r.source(token), sessionCh)
	}()

	timer := time.NewTimer(r.opts.FallbackAfter)
	defer timer.Stop()

	var (
		session     *Session
		fallbackDue bool
	)
	for {
		select {
		case s := <-sessionCh:
			session = s
			if fallbackDue {
				r.state.SetFallback(gen, guessedUser(session))
			}
		case <-timer.C:
			fallbackDue = true
			if session != nil {
				r.state.SetFallback(gen, guessedUser(session))
			}
		case res := <-results:
			return r.settle(gen, res)
		case <-ctx.Done():
			if session == nil {
				if !r.state.Settle(gen, StatusSignedOut, nil) {
					return User{}, ErrSuperseded
				}
				return User{}, ctx.Err()
			}
			user := guessedUser(session)
			if !r.state.Settle(gen, StatusFallback, &user) {
				return User{}, ErrSuperseded
			}
			return user, nil
		}
	}
}

func (r *SessionResolver) settle(gen uint64, res fetchResult) (User, error) {
	if res.err != nil {
		if !r.state.Settle(gen, StatusSignedOut, nil) {
			return User{}, ErrSuperseded
		}
		return User{}, res.err
	}
	user := res.user
	if !r.state.Settle(gen, res.status, &user) {
		return User{}, ErrSuperseded
	}
	return user, nil
}

func (r *SessionResolver) fetch(ctx context.Context, src UserSource, sessionCh chan<- *Session) fetchResult {
	sessionCtx, cancel := context.WithTimeout(ctx, r.opts.SessionTimeout)
	session, err := src.Session(sessionCtx)
	cancel()
	if err != nil {
		return fetchResult{err: err}
	}
	sessionCh <- session

	profileCtx, cancel := context.WithTimeout(ctx, r.opts.ProfileTimeout)
	me, err := src.Me(profileCtx)
	cancel()
	if err != nil || me.Profile == nil {
		return fetchResult{user: guessedUser(session), status: StatusFallback}
	}

	user := User{
		ID:     me.ID,
		Email:  me.Email,
		Name:   me.Profile.Name,
		Role:   me.Profile.Role,
		Status: me.Profile.Status,
	}

	recordCtx, cancel := context.WithTimeout(ctx, r.opts.RecordTimeout)
	record, err := src.MeRecord(recordCtx)
	cancel()
	if err != nil {
		user.Degraded = true
	} else {
		user.RecordID = record.ID
	}
	return fetchResult{user: user, status: StatusAuthenticated}
}

// track cancels the previous resolution and remembers the new one.
func (r *SessionResolver) track(next *inflight) {
	r.mu.Lock()
	prev := r.inflight
	r.inflight = next
	r.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}
}

func (r *SessionResolver) untrack(done *inflight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight == done {
		r.inflight = nil
	}
}
