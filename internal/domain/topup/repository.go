package topup

import (
	"context"

	"github.com/devgate/monetize/internal/types"
)

// Repository defines the interface for top-up persistence
type Repository interface {
	Create(ctx context.Context, t *Topup) error
	Get(ctx context.Context, id string) (*Topup, error)
	GetByOrderID(ctx context.Context, orderID string) (*Topup, error)
	List(ctx context.Context, filter *types.TopupFilter) ([]*Topup, error)
	Count(ctx context.Context, filter *types.TopupFilter) (int, error)
	Update(ctx context.Context, t *Topup) error
	Delete(ctx context.Context, id string) error
}
