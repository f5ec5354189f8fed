package companies

import (
	"context"
	"errors"
	"testing"
)

type fakeCompanyRepo struct {
	companies map[int64]*Company
	employees map[int64]int64
	orders    map[int64]int64
	nextID    int64
	deleted   []int64
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		companies: make(map[int64]*Company),
		employees: make(map[int64]int64),
		orders:    make(map[int64]int64),
	}
}

func (r *fakeCompanyRepo) List(ctx context.Context) ([]Company, error) {
	result := make([]Company, 0, len(r.companies))
	for _, company := range r.companies {
		result = append(result, *company)
	}
	return result, nil
}

func (r *fakeCompanyRepo) Get(ctx context.Context, id int64) (*Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	copied := *company
	return &copied, nil
}

func (r *fakeCompanyRepo) Create(ctx context.Context, company *Company) error {
	r.nextID++
	company.ID = r.nextID
	copied := *company
	r.companies[company.ID] = &copied
	return nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	company, ok := r.companies[id]
	if !ok {
		return ErrCompanyNotFound
	}
	if value, ok := updates["name"]; ok {
		company.Name = value.(string)
	}
	if value, ok := updates["lunch_time"]; ok {
		company.LunchTime = value.(string)
	}
	return nil
}

func (r *fakeCompanyRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	delete(r.companies, id)
	return nil
}

func (r *fakeCompanyRepo) CountEmployees(ctx context.Context, id int64) (int64, error) {
	return r.employees[id], nil
}

func (r *fakeCompanyRepo) CountOrders(ctx context.Context, id int64) (int64, error) {
	return r.orders[id], nil
}

func TestCreateCompany(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := NewService(repo)

	company, err := svc.Create(context.Background(), CreateInput{Name: "  Acme  ", LunchTime: "9:30"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if company.Name != "Acme" {
		t.Fatalf("expected trimmed name, got %q", company.Name)
	}
	if company.LunchTime != "09:30" {
		t.Fatalf("expected normalised lunch time, got %q", company.LunchTime)
	}
}

func TestCreateCompanyValidation(t *testing.T) {
	svc := NewService(newFakeCompanyRepo())

	if _, err := svc.Create(context.Background(), CreateInput{Name: ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Acme", LunchTime: "noon"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for lunch time, got %v", err)
	}
}

func TestUpdateCompany(t *testing.T) {
	repo := newFakeCompanyRepo()
	repo.companies[1] = &Company{ID: 1, Name: "Old", LunchTime: "12:00"}
	svc := NewService(repo)

	name := "New"
	company, err := svc.Update(context.Background(), 1, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if company.Name != "New" {
		t.Fatalf("expected updated name, got %q", company.Name)
	}

	if _, err := svc.Update(context.Background(), 1, UpdateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
}

func TestDeleteCompanyBlockedByEmployees(t *testing.T) {
	repo := newFakeCompanyRepo()
	repo.companies[7] = &Company{ID: 7, Name: "Acme"}
	repo.employees[7] = 1
	svc := NewService(repo)

	err := svc.Delete(context.Background(), 7)
	if !errors.Is(err, ErrCompanyInUse) {
		t.Fatalf("expected ErrCompanyInUse, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("expected no delete, got %v", repo.deleted)
	}
}

func TestDeleteCompanyBlockedByOrders(t *testing.T) {
	repo := newFakeCompanyRepo()
	repo.companies[7] = &Company{ID: 7, Name: "Acme"}
	repo.orders[7] = 3
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), 7); !errors.Is(err, ErrCompanyInUse) {
		t.Fatalf("expected ErrCompanyInUse, got %v", err)
	}
}

func TestDeleteCompanyUnreferenced(t *testing.T) {
	repo := newFakeCompanyRepo()
	repo.companies[8] = &Company{ID: 8, Name: "Empty"}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), 8); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.companies[8]; ok {
		t.Fatalf("expected company removed")
	}
}

func TestDeleteCompanyNotFound(t *testing.T) {
	svc := NewService(newFakeCompanyRepo())
	if err := svc.Delete(context.Background(), 99); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}
