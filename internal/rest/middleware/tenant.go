package middleware

import (
	"github.com/devgate/monetize/internal/types"
	"github.com/gin-gonic/gin"
)

// TenantMiddleware resolves the tenant and user for the request. The
// portal in front of this service authenticates callers and forwards
// their identity in headers; absent headers fall back to the defaults.
func TenantMiddleware(c *gin.Context) {
	tenantID := c.GetHeader(types.HeaderTenantID)
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	userID := c.GetHeader(types.HeaderUserID)
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetTenantID(c.Request.Context(), tenantID)
	ctx = types.SetUserID(ctx, userID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
