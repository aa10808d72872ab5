package http

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront-service/internal/domain"

	"github.com/gin-gonic/gin"
)

var errInvalidBody = domain.Validation("invalid request body")

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCapacity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind. Unclassified errors
// are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(ctxRequestID),
			"error", err,
		)
		c.AbortWithStatusJSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
