// Package middleware holds the gin middleware of the v1 API.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/pkg/logger"
)

// Recovery turns a panic into an internal error rendered by ErrorHandler.
// The stack is logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered", "panic", rec, "route", c.FullPath(), "stack", string(debug.Stack()))

			err := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).WithDetail("request_id", appctx.GetRequestID(ctx))
			_ = c.Error(err)
			c.Abort()
		}()
		c.Next()
	}
}
