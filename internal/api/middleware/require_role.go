package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

func RequireRole(allowed ...string) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetString("role")))
		if _, ok := allow[role]; role == "" || !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}
		c.Next()
	}
}

// RequireStaff admits department operators and admins.
func RequireStaff() gin.HandlerFunc { return RequireRole("operator", "admin") }
