package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "s3cr3t"

func signed(t *testing.T, role string, dept *int64) string {
	t.Helper()
	claims := OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role:         role,
		DepartmentID: dept,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func feedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/department/:department_id",
		JWTAuth(testSecret), RequireStaff(), RequireDepartmentScope("department_id"),
		func(c *gin.Context) { c.String(http.StatusOK, c.GetString("user_id")) })
	return r
}

func get(r *gin.Engine, path, token string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestDepartmentFeedAuth(t *testing.T) {
	r := feedEngine()
	four := int64(4)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws/department/4", ""))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws/department/4", "garbage"))
	assert.Equal(t, http.StatusOK, get(r, "/ws/department/4", signed(t, "operator", &four)))
	assert.Equal(t, http.StatusForbidden, get(r, "/ws/department/5", signed(t, "operator", &four)))
	assert.Equal(t, http.StatusOK, get(r, "/ws/department/5", signed(t, "admin", nil)))
	assert.Equal(t, http.StatusForbidden, get(r, "/ws/department/4", signed(t, "citizen", &four)))
}

func TestTokenFromQuery(t *testing.T) {
	four := int64(4)
	assert.Equal(t, http.StatusOK, get(feedEngine(), "/ws/department/4?token="+signed(t, "operator", &four), ""))
}

func TestAPIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("intake-key"), bcrypt.MinCost)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ai/precheck", APIKey(string(hash)), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ai/precheck", nil)
		if key != "" {
			req.Header.Set("X-Api-Key", key)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, call("intake-key"))
	assert.Equal(t, http.StatusUnauthorized, call("wrong"))
	assert.Equal(t, http.StatusUnauthorized, call(""))
}
