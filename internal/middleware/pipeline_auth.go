package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	apperrors "ptrwatch/internal/errors"
)

// PipelineKey is the configured secret for pipeline endpoints: either the key
// itself or a bcrypt hash of it. Key wins when both are set.
type PipelineKey struct {
	Key  string
	Hash string
}

// Configured reports whether any secret is set.
func (k PipelineKey) Configured() bool {
	return k.Key != "" || k.Hash != ""
}

func (k PipelineKey) matches(presented string) bool {
	if k.Key != "" {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(k.Key)) == 1
	}
	if presented == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(k.Hash), []byte(presented)) == nil
}

// PipelineAuthMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured pipeline key.
func PipelineAuthMiddleware(key PipelineKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !key.Configured() {
			abortWithError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		if !key.matches(c.GetHeader("X-API-Key")) {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidAPIKey, "Invalid or missing API key"))
			return
		}
		c.Next()
	}
}
