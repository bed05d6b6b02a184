package middleware

import (
	"github.com/devgate/monetize/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware propagates the request ID from the caller or mints
// a fresh one, and echoes it back in the response headers.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
