package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakeRepo struct {
	mu        sync.Mutex
	profiles  map[string]*Profile
	records   map[Role]map[int64]RoleRecord
	companies map[int64]bool
	meals     map[int64]bool
	nextID    int64
	failOn    map[string]error
	calls     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:  make(map[string]*Profile),
		records:   make(map[Role]map[int64]RoleRecord),
		companies: make(map[int64]bool),
		meals:     make(map[int64]bool),
		failOn:    make(map[string]error),
		nextID:    100,
	}
}

func (r *fakeRepo) call(name string) error {
	r.calls = append(r.calls, name)
	return r.failOn[name]
}

func (r *fakeRepo) CreateProfile(ctx context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("CreateProfile"); err != nil {
		return err
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeRepo) GetProfile(ctx context.Context, id string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeRepo) UpdateProfileStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	profile.Status = status
	return nil
}

func (r *fakeRepo) DeleteProfile(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DeleteProfile"); err != nil {
		return err
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeRepo) CreateRecord(ctx context.Context, record RoleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("CreateRecord"); err != nil {
		return err
	}
	id := record.RecordID()
	if id == 0 {
		r.nextID++
		id = r.nextID
		switch rec := record.(type) {
		case *Admin:
			rec.ID = id
		case *Cook:
			rec.ID = id
		case *Driver:
			rec.ID = id
		case *Employee:
			rec.ID = id
		}
	}
	table, ok := r.records[record.RecordRole()]
	if !ok {
		table = make(map[int64]RoleRecord)
		r.records[record.RecordRole()] = table
	}
	table[id] = record
	return nil
}

func (r *fakeRepo) GetRecord(ctx context.Context, role Role, id int64) (RoleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn["GetRecord"]; err != nil {
		return nil, err
	}
	record, ok := r.records[role][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (r *fakeRepo) GetRecordByUser(ctx context.Context, role Role, userID string) (RoleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records[role] {
		if record.OwnerID() == userID {
			return record, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *fakeRepo) ListRecords(ctx context.Context, role Role) ([]RoleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]RoleRecord, 0, len(r.records[role]))
	for _, record := range r.records[role] {
		result = append(result, record)
	}
	return result, nil
}

func (r *fakeRepo) UpdateRecord(ctx context.Context, role Role, id int64, updates map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[role][id]
	if !ok {
		return ErrRecordNotFound
	}
	for column, value := range updates {
		switch rec := record.(type) {
		case *Cook:
			switch column {
			case "city":
				rec.City = value.(string)
			case "name":
				rec.Name = value.(string)
			}
		case *Employee:
			if column == "company_id" {
				if value == nil {
					rec.CompanyID = nil
				} else {
					v := value.(int64)
					rec.CompanyID = &v
				}
			}
		}
	}
	return nil
}

func (r *fakeRepo) DeleteRecord(ctx context.Context, role Role, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DeleteRecord"); err != nil {
		return err
	}
	delete(r.records[role], id)
	return nil
}

func (r *fakeRepo) DeleteCompany(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DeleteCompany"); err != nil {
		return err
	}
	delete(r.companies, id)
	return nil
}

func (r *fakeRepo) DeleteMeal(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.call("DeleteMeal"); err != nil {
		return err
	}
	delete(r.meals, id)
	return nil
}

func (r *fakeRepo) recordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, table := range r.records {
		total += len(table)
	}
	return total
}

// fakeIdentities shares the call log with the repo so tests can assert order.
type fakeIdentities struct {
	repo       *fakeRepo
	identities map[string]Identity
	seq        int
	createErr  error
	deleteErr  error
	creates    int
}

func newFakeIdentities(repo *fakeRepo) *fakeIdentities {
	return &fakeIdentities{repo: repo, identities: make(map[string]Identity)}
}

func (f *fakeIdentities) CreateIdentity(ctx context.Context, identity NewIdentity) (*Identity, error) {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	f.repo.calls = append(f.repo.calls, "CreateIdentity")
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.identities {
		if existing.Email == identity.Email {
			return nil, errors.New("A user with this email address has already been registered")
		}
	}
	f.seq++
	created := Identity{ID: fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq), Email: identity.Email}
	f.identities[created.ID] = created
	return &created, nil
}

func (f *fakeIdentities) DeleteIdentity(ctx context.Context, id string) error {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	f.repo.calls = append(f.repo.calls, "DeleteIdentity")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.identities[id]; !ok {
		return errors.New("User not found")
	}
	delete(f.identities, id)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakeEvents) Publish(ctx context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]string, 0, len(f.events))
	for _, event := range f.events {
		result = append(result, event.Type)
	}
	return result
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeMetrics) ObserveStep(operation, step, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, operation+"/"+step+"/"+outcome)
}

type fakeIdempotency struct {
	mu       sync.Mutex
	items    map[string]IdempotencyEntry
	released []string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{items: make(map[string]IdempotencyEntry)}
}

func (f *fakeIdempotency) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*IdempotencyEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry, ok := f.items[key]; ok {
		return &entry, false, nil
	}
	f.items[key] = IdempotencyEntry{Fingerprint: fingerprint}
	return nil, true, nil
}

func (f *fakeIdempotency) Complete(ctx context.Context, key string, entry IdempotencyEntry, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = entry
	return nil
}

func (f *fakeIdempotency) Release(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	f.released = append(f.released, key)
	return nil
}

func indexOf(calls []string, name string) int {
	for i, call := range calls {
		if call == name {
			return i
		}
	}
	return -1
}

func contains(calls []string, name string) bool {
	return indexOf(calls, name) >= 0
}
