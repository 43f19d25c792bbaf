package middleware

import (
	"github.com/gin-gonic/gin"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/infrastructure/http/v1/dto"
	"psi/pkg/logger"
)

// ErrorHandler renders the last error a handler registered with c.Error.
// Errors that are not *apperror.AppError become a 500 without their text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ctx := c.Request.Context()
		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewInternal(err).WithDetail("request_id", appctx.GetRequestID(ctx))
		}

		switch {
		case appErr.HTTPStatus >= 500:
			logger.Error(ctx, "request failed", "code", appErr.Code, "error", err)
		case appErr.Err != nil:
			logger.Warn(ctx, "request rejected", "code", appErr.Code, "cause", appErr.Err)
		}

		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		})
	}
}
