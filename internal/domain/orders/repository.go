package orders

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, order *Order) error
	// UpdateStatus moves an order from one status to another and fails with
	// ErrStatusConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	Delete(ctx context.Context, id int64) error

	EmployeeCompany(ctx context.Context, employeeID int64) (*int64, error)
	MealCook(ctx context.Context, mealID int64) (*int64, error)
}
