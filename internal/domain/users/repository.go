package users

import (
	"context"
	"time"
)

type Repository interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateProfileStatus(ctx context.Context, id, status string) error
	DeleteProfile(ctx context.Context, id string) error

	CreateRecord(ctx context.Context, record RoleRecord) error
	GetRecord(ctx context.Context, role Role, id int64) (RoleRecord, error)
	GetRecordByUser(ctx context.Context, role Role, userID string) (RoleRecord, error)
	ListRecords(ctx context.Context, role Role) ([]RoleRecord, error)
	UpdateRecord(ctx context.Context, role Role, id int64, updates map[string]any) error
	DeleteRecord(ctx context.Context, role Role, id int64) error

	DeleteCompany(ctx context.Context, id int64) error
	DeleteMeal(ctx context.Context, id int64) error
}

// IdentityProvider owns credentials. Supabase in production, a local table
// in standalone mode.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, identity NewIdentity) (*Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// IdempotencyEntry is what a key holds: the fingerprint of the request that
// claimed it and, once that request succeeded, its result.
type IdempotencyEntry struct {
	Fingerprint string            `json:"fingerprint"`
	Result      *CreateUserResult `json:"result,omitempty"`
}

// IdempotencyStore deduplicates create-user requests. Reserve claims a free
// key atomically and otherwise returns the entry already there. Complete
// stores the result; Release frees a key whose request failed.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*IdempotencyEntry, bool, error)
	Complete(ctx context.Context, key string, entry IdempotencyEntry, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

const (
	EventUserCreated        = "user.created"
	EventRecordDeleted      = "record.deleted"
	EventCompensated        = "user.saga.compensated"
	EventCompensationFailed = "user.saga.compensation_failed"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	RecordType string    `json:"record_type,omitempty"`
	RecordID   int64     `json:"record_id,omitempty"`
	Step       string    `json:"step,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Metrics observes orchestration steps. outcome is one of ok, failed,
// compensated, compensation_failed.
type Metrics interface {
	ObserveStep(operation, step, outcome string)
}

type noopIdempotency struct{}

func (noopIdempotency) Reserve(context.Context, string, string, time.Duration) (*IdempotencyEntry, bool, error) {
	return nil, true, nil
}

func (noopIdempotency) Complete(context.Context, string, IdempotencyEntry, time.Duration) error {
	return nil
}

func (noopIdempotency) Release(context.Context, string) error {
	return nil
}

type noopEvents struct{}

func (noopEvents) Publish(context.Context, Event) error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveStep(string, string, string) {}
