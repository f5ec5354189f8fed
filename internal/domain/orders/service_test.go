package orders

import (
	"context"
	"errors"
	"testing"
)

type fakeOrderRepo struct {
	orders    map[int64]*Order
	employees map[int64]*int64
	mealCooks map[int64]*int64
	nextID    int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    make(map[int64]*Order),
		employees: make(map[int64]*int64),
		mealCooks: make(map[int64]*int64),
	}
}

func (r *fakeOrderRepo) List(ctx context.Context, filter Filter) ([]Order, error) {
	result := make([]Order, 0)
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && order.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (r *fakeOrderRepo) Get(ctx context.Context, id int64) (*Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *Order) error {
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if order.Status != from {
		return ErrStatusConflict
	}
	order.Status = to
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id int64) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) EmployeeCompany(ctx context.Context, employeeID int64) (*int64, error) {
	companyID, ok := r.employees[employeeID]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return companyID, nil
}

func (r *fakeOrderRepo) MealCook(ctx context.Context, mealID int64) (*int64, error) {
	cookID, ok := r.mealCooks[mealID]
	if !ok {
		return nil, ErrMealNotFound
	}
	return cookID, nil
}

func int64Ptr(value int64) *int64 {
	return &value
}

func seededRepo() *fakeOrderRepo {
	repo := newFakeOrderRepo()
	repo.employees[1] = int64Ptr(7)
	repo.mealCooks[2] = int64Ptr(30)
	return repo
}

func TestCreateOrderCopiesEmployeeCompany(t *testing.T) {
	svc := NewService(seededRepo())

	order, err := svc.Create(context.Background(), CreateInput{EmployeeID: 1, MealID: 2, PlanType: "Weekly"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.Status != StatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.CompanyID == nil || *order.CompanyID != 7 {
		t.Fatalf("expected company 7, got %v", order.CompanyID)
	}
	if order.Quantity != 1 || order.PlanType != PlanWeekly {
		t.Fatalf("unexpected defaults %+v", order)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewService(seededRepo())

	cases := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{"missing employee", CreateInput{MealID: 2}, ErrInvalidInput},
		{"negative quantity", CreateInput{EmployeeID: 1, MealID: 2, Quantity: -1}, ErrInvalidInput},
		{"bad plan", CreateInput{EmployeeID: 1, MealID: 2, PlanType: "daily"}, ErrInvalidInput},
		{"unknown meal", CreateInput{EmployeeID: 1, MealID: 99}, ErrMealNotFound},
		{"unknown employee", CreateInput{EmployeeID: 99, MealID: 2}, ErrEmployeeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)
	order, err := svc.Create(context.Background(), CreateInput{EmployeeID: 1, MealID: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cook := Actor{Role: ActorCook, RecordID: 30}
	steps := []struct {
		to    Status
		actor Actor
	}{
		{StatusConfirmed, cook},
		{StatusPreparing, cook},
		{StatusReady, cook},
		{StatusDelivered, Actor{Role: ActorDriver, RecordID: 4}},
	}
	for _, step := range steps {
		updated, err := svc.Transition(context.Background(), order.ID, step.to, step.actor)
		if err != nil {
			t.Fatalf("transition to %s: %v", step.to, err)
		}
		if updated.Status != step.to {
			t.Fatalf("expected %s, got %s", step.to, updated.Status)
		}
	}

	if _, err := svc.Transition(context.Background(), order.ID, StatusCancelled, Actor{Role: ActorAdmin}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected delivered to be terminal, got %v", err)
	}
}

func TestTransitionAuthorization(t *testing.T) {
	repo := seededRepo()
	repo.orders[1] = &Order{ID: 1, EmployeeID: 1, MealID: 2, Status: StatusPending}
	svc := NewService(repo)

	if _, err := svc.Transition(context.Background(), 1, StatusConfirmed, Actor{Role: ActorCook, RecordID: 31}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected other cook forbidden, got %v", err)
	}
	if _, err := svc.Transition(context.Background(), 1, StatusCancelled, Actor{Role: ActorEmployee, RecordID: 2}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected other employee forbidden, got %v", err)
	}
	if _, err := svc.Transition(context.Background(), 1, StatusDelivered, Actor{Role: ActorDriver}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected driver cannot deliver pending, got %v", err)
	}
	updated, err := svc.Transition(context.Background(), 1, StatusCancelled, Actor{Role: ActorEmployee, RecordID: 1})
	if err != nil {
		t.Fatalf("expected owner cancel, got %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
}

func TestCanTransitionAdminCoversEveryEdge(t *testing.T) {
	for _, tr := range Transitions() {
		if err := CanTransition(tr.From, tr.To, ActorAdmin); err != nil {
			t.Fatalf("admin should perform %s -> %s: %v", tr.From, tr.To, err)
		}
	}
	if err := CanTransition(StatusReady, StatusDelivered, ActorCook); err == nil {
		t.Fatalf("cook must not deliver")
	}
}
