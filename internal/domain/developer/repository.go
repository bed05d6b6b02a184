package developer

import (
	"context"
)

// Repository defines the interface for developer persistence
type Repository interface {
	Create(ctx context.Context, dev *Developer) error
	Get(ctx context.Context, id string) (*Developer, error)
	GetByEmail(ctx context.Context, email string) (*Developer, error)
	Update(ctx context.Context, dev *Developer) error
	Delete(ctx context.Context, id string) error
}
