package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/domain/order"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

func copyOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	copied := *o
	copied.Items = make([]order.LineItem, len(o.Items))
	copy(copied.Items, o.Items)
	return &copied
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, o.ID, copyOrder(o))
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyOrder(o), nil
}

func (s *InMemoryOrderStore) Update(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, o.ID, copyOrder(o))
}

func (s *InMemoryOrderStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

// InMemoryProductStore implements order.ProductRepository
type InMemoryProductStore struct {
	*InMemoryStore[*order.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*order.Product](),
	}
}

func copyProduct(p *order.Product) *order.Product {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func productSortFn(i, j *order.Product) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *order.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*order.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) List(ctx context.Context) ([]*order.Product, error) {
	products, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *order.Product, _ interface{}) bool {
		return p != nil && p.TenantID == types.GetTenantID(ctx) && p.Status == types.StatusPublished
	}, productSortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*order.Product, 0, len(products))
	for _, p := range products {
		result = append(result, copyProduct(p))
	}
	return result, nil
}

func (s *InMemoryProductStore) Update(ctx context.Context, p *order.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
