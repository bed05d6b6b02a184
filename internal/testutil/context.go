package testutil

import (
	"context"

	"github.com/devgate/monetize/internal/types"
)

// SetupContext returns a context carrying the default tenant, user and a
// fresh request ID, mirroring what the HTTP middleware sets up.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
