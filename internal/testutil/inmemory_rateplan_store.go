package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/domain/rateplan"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
)

// InMemoryRatePlanStore implements rateplan.Repository
type InMemoryRatePlanStore struct {
	*InMemoryStore[*rateplan.RatePlan]
}

func NewInMemoryRatePlanStore() *InMemoryRatePlanStore {
	return &InMemoryRatePlanStore{
		InMemoryStore: NewInMemoryStore[*rateplan.RatePlan](),
	}
}

func copyRatePlan(p *rateplan.RatePlan) *rateplan.RatePlan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func ratePlanSortFn(i, j *rateplan.RatePlan) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryRatePlanStore) Create(ctx context.Context, p *rateplan.RatePlan) error {
	if p == nil {
		return ierr.NewError("rate plan cannot be nil").
			WithHint("Rate plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyRatePlan(p))
}

func (s *InMemoryRatePlanStore) Get(ctx context.Context, id string) (*rateplan.RatePlan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyRatePlan(p), nil
}

func (s *InMemoryRatePlanStore) List(ctx context.Context) ([]*rateplan.RatePlan, error) {
	plans, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *rateplan.RatePlan, _ interface{}) bool {
		return p != nil && p.TenantID == types.GetTenantID(ctx) && p.Status == types.StatusPublished
	}, ratePlanSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*rateplan.RatePlan, 0, len(plans))
	for _, p := range plans {
		result = append(result, copyRatePlan(p))
	}
	return result, nil
}

func (s *InMemoryRatePlanStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
