package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "ptrwatch/internal/errors"
	"ptrwatch/internal/logger"
)

// ErrorHandler returns a Gin middleware that renders the last error attached
// to the context with c.Error. AppErrors keep their status, code and message;
// anything else is logged and reported as a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			logger.Get().Errorw("unexpected error",
				"error", err.Error(),
				"request_id", RequestID(c),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			appErr = apperrors.ErrInternalServer
		}
		abortWithError(c, appErr)
	}
}

// abortWithError stops the chain and writes err in the standard error body.
func abortWithError(c *gin.Context, err *apperrors.AppError) {
	if err.Internal != nil {
		logger.Get().Errorw("app error",
			"code", err.Code,
			"message", err.Message,
			"internal", err.Internal.Error(),
			"request_id", RequestID(c),
			"path", c.Request.URL.Path,
		)
	}
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
