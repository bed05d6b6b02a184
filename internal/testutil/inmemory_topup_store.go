package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/domain/topup"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/samber/lo"
)

// InMemoryTopupStore implements topup.Repository
type InMemoryTopupStore struct {
	*InMemoryStore[*topup.Topup]
}

func NewInMemoryTopupStore() *InMemoryTopupStore {
	return &InMemoryTopupStore{
		InMemoryStore: NewInMemoryStore[*topup.Topup](),
	}
}

func copyTopup(t *topup.Topup) *topup.Topup {
	if t == nil {
		return nil
	}
	copied := *t
	if t.ErrorSummary != nil {
		copied.ErrorSummary = lo.ToPtr(*t.ErrorSummary)
	}
	if t.StartedAt != nil {
		copied.StartedAt = lo.ToPtr(*t.StartedAt)
	}
	if t.CompletedAt != nil {
		copied.CompletedAt = lo.ToPtr(*t.CompletedAt)
	}
	if t.FailedAt != nil {
		copied.FailedAt = lo.ToPtr(*t.FailedAt)
	}
	if t.Metadata != nil {
		copied.Metadata = make(types.Metadata, len(t.Metadata))
		for k, v := range t.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}

// topupFilterFn implements filtering logic for top-ups
func topupFilterFn(ctx context.Context, t *topup.Topup, filter interface{}) bool {
	if t == nil {
		return false
	}

	if tenantID, ok := ctx.Value(types.CtxTenantID).(string); ok {
		if t.TenantID != tenantID {
			return false
		}
	}

	f, ok := filter.(*types.TopupFilter)
	if !ok || f == nil {
		return true
	}

	if f.DeveloperID != "" && t.DeveloperID != f.DeveloperID {
		return false
	}

	if f.OrderID != "" && t.OrderID != f.OrderID {
		return false
	}

	if f.TopupStatus != nil && t.TopupStatus != *f.TopupStatus {
		return false
	}

	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && t.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && t.CreatedAt.After(*f.EndTime) {
			return false
		}
	}

	return true
}

func topupSortFn(i, j *topup.Topup) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryTopupStore) Create(ctx context.Context, t *topup.Topup) error {
	if t == nil {
		return ierr.NewError("topup cannot be nil").
			WithHint("Top-up cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTopup(t))
}

func (s *InMemoryTopupStore) Get(ctx context.Context, id string) (*topup.Topup, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyTopup(t), nil
}

func (s *InMemoryTopupStore) GetByOrderID(ctx context.Context, orderID string) (*topup.Topup, error) {
	topups, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *topup.Topup, _ interface{}) bool {
		return t != nil && t.OrderID == orderID && t.TenantID == types.GetTenantID(ctx)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(topups) == 0 {
		return nil, ierr.NewError("topup not found").
			WithHint("Top-up not found").
			Mark(ierr.ErrNotFound)
	}
	return copyTopup(topups[0]), nil
}

func (s *InMemoryTopupStore) List(ctx context.Context, filter *types.TopupFilter) ([]*topup.Topup, error) {
	topups, err := s.InMemoryStore.List(ctx, filter, topupFilterFn, topupSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*topup.Topup, 0, len(topups))
	for _, t := range topups {
		result = append(result, copyTopup(t))
	}
	return result, nil
}

func (s *InMemoryTopupStore) Count(ctx context.Context, filter *types.TopupFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, topupFilterFn)
}

func (s *InMemoryTopupStore) Update(ctx context.Context, t *topup.Topup) error {
	if t == nil {
		return ierr.NewError("topup cannot be nil").
			WithHint("Top-up cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, t.ID, copyTopup(t))
}

func (s *InMemoryTopupStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
