package handler

import (
	"errors"
	"net/http"

	"reviewdeck/internal/service"
	"reviewdeck/internal/validation"

	"github.com/gin-gonic/gin"
)

// respondError maps core outcomes to status codes and the user-facing
// messages the form pages flash. Anything unclassified is a generic 500 for
// this request only.
func respondError(c *gin.Context, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	switch {
	case errors.Is(err, service.ErrCSRF):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Please try again."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to access this page."})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this review."})
	case errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found."})
	case errors.Is(err, service.ErrNameInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken. Please choose another."})
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}
