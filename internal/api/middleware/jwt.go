package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Natenyt/AI-Powered-Government-System/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// OperatorClaims is issued to department staff by the admin panel.
type OperatorClaims struct {
	jwt.RegisteredClaims
	Role         string `json:"role"` // operator|admin
	DepartmentID *int64 `json:"department_id,omitempty"`
}

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "JWT_SECRET is not set",
			})
			return
		}

		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims := &OperatorClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing subject",
			})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", strings.ToLower(claims.Role))
		if claims.DepartmentID != nil {
			c.Set("department_id", *claims.DepartmentID)
		}
		c.Next()
	}
}

// bearerToken reads the Authorization header, or the token query parameter
// for browser WebSocket clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}

// RequireDepartmentScope lets admins through and limits operators to the
// department named by the path parameter.
func RequireDepartmentScope(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") == "admin" {
			c.Next()
			return
		}

		want, err := strconv.ParseInt(c.Param(param), 10, 64)
		v, ok := c.Get("department_id")
		have, _ := v.(int64)
		if err != nil || !ok || have != want {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}
		c.Next()
	}
}
