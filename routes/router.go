package routes

import (
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 전체 라우트 등록
func RegisterRoutes(router *gin.Engine) {
	RegisterAuthRoutes(router)
	RegisterUserRoutes(router)
	RegisterCustomerRoutes(router)
	RegisterAllocationRoutes(router)
	RegisterPublicPoolRoutes(router)
	RegisterTransferRequestRoutes(router)
	RegisterDailyLimitRoutes(router)
	RegisterPermissionRoutes(router)
	RegisterAuditLogRoutes(router)

	// 상태 확인
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/api/db-status", func(c *gin.Context) {
		status, err := repository.GetDatabaseStatus()
		if err != nil {
			utils.ErrorResponse(c, "데이터베이스 상태 조회 실패: "+err.Error(), 500)
			return
		}
		c.JSON(200, status)
	})
}
