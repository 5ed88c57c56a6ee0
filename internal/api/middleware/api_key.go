package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

const ServiceCaller = "service"

// APIKey authenticates trusted callers (bot, web intake) by X-Api-Key
// against a bcrypt hash.
func APIKey(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "SERVICE_API_KEY_HASH is not set",
			})
			return
		}

		key := c.GetHeader("X-Api-Key")
		if key == "" || !utils.CheckAPIKey(hash, key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid api key",
			})
			return
		}

		c.Set("user_id", ServiceCaller)
		c.Set("role", ServiceCaller)
		c.Next()
	}
}
