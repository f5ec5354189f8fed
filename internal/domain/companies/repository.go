package companies

import "context"

type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id int64) (*Company, error)
	Create(ctx context.Context, company *Company) error
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	CountEmployees(ctx context.Context, id int64) (int64, error)
	CountOrders(ctx context.Context, id int64) (int64, error)
}
