package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/postgres"
)

// MockPostgresClient satisfies postgres.IClient for service tests. The
// in-memory stores have no transaction support, so WithTx simply runs the
// function and surfaces its error.
type MockPostgresClient struct{}

// NewMockPostgresClient creates a transactionless postgres client stub.
func NewMockPostgresClient() *MockPostgresClient {
	return &MockPostgresClient{}
}

func (c *MockPostgresClient) GetQuerier(ctx context.Context) postgres.Querier {
	return nil
}

func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (c *MockPostgresClient) Close() {}
