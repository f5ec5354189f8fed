package meals

import (
	"context"
	"io"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Meal, error)
	Get(ctx context.Context, id int64) (*Meal, error)
	Create(ctx context.Context, meal *Meal) error
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	CountOrders(ctx context.Context, id int64) (int64, error)
}

// ImageStore puts meal pictures in object storage and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}
