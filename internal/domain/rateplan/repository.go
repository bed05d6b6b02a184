package rateplan

import (
	"context"
)

// Repository defines the interface for rate plan persistence.
// Plans are immutable, so there is deliberately no Update.
type Repository interface {
	Create(ctx context.Context, plan *RatePlan) error
	Get(ctx context.Context, id string) (*RatePlan, error)
	List(ctx context.Context) ([]*RatePlan, error)
	Delete(ctx context.Context, id string) error
}
