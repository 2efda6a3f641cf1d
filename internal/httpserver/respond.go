package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	authsvc "storefront-backend/internal/service/auth"
)

// respondError maps the error taxonomy onto status codes: validation 400,
// not-found and unsupported-query 404, storage 500, everything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, authsvc.ErrInvalidOTP),
		errors.Is(err, authsvc.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrUnsupportedQuery):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requireUserEmail guards the account sub-resources with the historic
// x-user-email header contract.
func requireUserEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.GetHeader("x-user-email")))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		c.Set("userEmail", email)
		c.Next()
	}
}

func userEmail(c *gin.Context) string {
	return c.GetString("userEmail")
}
