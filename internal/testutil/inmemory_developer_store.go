package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/domain/developer"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
)

// InMemoryDeveloperStore implements developer.Repository
type InMemoryDeveloperStore struct {
	*InMemoryStore[*developer.Developer]
}

func NewInMemoryDeveloperStore() *InMemoryDeveloperStore {
	return &InMemoryDeveloperStore{
		InMemoryStore: NewInMemoryStore[*developer.Developer](),
	}
}

func copyDeveloper(d *developer.Developer) *developer.Developer {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}

func (s *InMemoryDeveloperStore) Create(ctx context.Context, d *developer.Developer) error {
	if d == nil {
		return ierr.NewError("developer cannot be nil").
			WithHint("Developer cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, d.ID, copyDeveloper(d))
}

func (s *InMemoryDeveloperStore) Get(ctx context.Context, id string) (*developer.Developer, error) {
	d, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyDeveloper(d), nil
}

func (s *InMemoryDeveloperStore) GetByEmail(ctx context.Context, email string) (*developer.Developer, error) {
	devs, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, d *developer.Developer, _ interface{}) bool {
		return d != nil && d.Email == email && d.TenantID == types.GetTenantID(ctx)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(devs) == 0 {
		return nil, ierr.NewError("developer not found").
			WithHint("Developer not found").
			Mark(ierr.ErrNotFound)
	}
	return copyDeveloper(devs[0]), nil
}

func (s *InMemoryDeveloperStore) Update(ctx context.Context, d *developer.Developer) error {
	if d == nil {
		return ierr.NewError("developer cannot be nil").
			WithHint("Developer cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, d.ID, copyDeveloper(d))
}

func (s *InMemoryDeveloperStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
