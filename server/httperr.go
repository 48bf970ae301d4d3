package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sweetshop/domain"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a persistence or programming failure and surfaces
// as a 500 without leaking internals.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case domain.IsInvalidRequestError(err),
		domain.IsValidationError(err),
		domain.IsConflictError(err),
		domain.IsInsufficientStockError(err):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsNotFoundError(err):
		status = http.StatusNotFound
		message = err.Error()
	case domain.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
		message = err.Error()
	case domain.IsForbiddenError(err):
		status = http.StatusForbidden
		message = err.Error()
	}

	c.JSON(status, gin.H{"error": message})
}
