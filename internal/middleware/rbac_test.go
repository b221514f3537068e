package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/college-adp-api/internal/models"
)

func routerWithClaims(claims *models.JWTClaims, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name   string
		claims *models.JWTClaims
		status int
	}{
		{"allowed role", &models.JWTClaims{UserID: "u1", Role: models.RoleHOD}, http.StatusNoContent},
		{"other role", &models.JWTClaims{UserID: "u2", Role: models.RoleStudent}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := routerWithClaims(tc.claims, models.RoleHOD, models.RoleStaff)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
