package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestApprovedOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(claims jwt.MapClaims) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if claims != nil {
				c.Set("user", claims)
			}
		}, ApprovedOnly())
		router.GET("/ledger", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		return router
	}

	t.Run("승인 대기 계정은 토큰이 있어도 403", func(t *testing.T) {
		router := newRouter(jwt.MapClaims{"id": "직원ID", "name": "신규", "role": "PENDING"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "PENDING_APPROVAL")
	})

	t.Run("승인된 계정은 통과한다", func(t *testing.T) {
		router := newRouter(jwt.MapClaims{"id": "직원ID", "name": "직원", "role": "EMPLOYEE"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("호출자 정보가 없으면 401", func(t *testing.T) {
		router := newRouter(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
