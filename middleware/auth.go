package middleware

import (
	"net/http"
	"strings"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 인증 미들웨어. JWT를 검증하고 호출자 정보를 컨텍스트에 싣는다
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "인증되지 않은 요청입니다.",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "인증되지 않은 요청입니다.",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("토큰 검증 실패")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "유효하지 않은 토큰입니다.",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		if claims["id"] == nil || claims["role"] == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "토큰에 필수 정보가 없습니다.",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// ApprovedOnly 가입 승인 전(PENDING) 계정 차단 미들웨어.
// 승인 전 계정은 토큰이 있어도 업무 데이터에 접근할 수 없다
func ApprovedOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "인증되지 않은 요청입니다.",
				"code":    "UNAUTHENTICATED",
			})
			return
		}

		if user.UserRole() == models.UserRolePENDING {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "승인 대기 중인 계정입니다. 관리자 승인 후 이용할 수 있습니다.",
				"code":    "PENDING_APPROVAL",
			})
			return
		}

		c.Next()
	}
}

// PermissionMiddleware (리소스, 액션) 단위 권한 게이트
func PermissionMiddleware(resource string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "인증되지 않은 요청입니다.",
				"code":    "UNAUTHENTICATED",
			})
			return
		}

		role := models.UserRole(user.Role)
		if !service.Evaluate(c.Request.Context(), role, resource, action) {
			utils.LogInfo(map[string]interface{}{
				"userId":   user.ID,
				"role":     user.Role,
				"resource": resource,
				"action":   action,
			}, "권한 거부")

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "권한이 없습니다.",
				"code":    "PERMISSION_DENIED",
			})
			return
		}

		c.Next()
	}
}
