package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/domain"
)

// StatusFor maps a review error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWriteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, op string, err error) {
	status := StatusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusBadGateway:
		middleware.Logger(c.Request.Context()).Error(op, "error", err)
		msg = domain.ErrWriteFailed.Error()
	case http.StatusInternalServerError:
		middleware.Logger(c.Request.Context()).Error(op, "error", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
