package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterDailyLimitRoutes 일일 등록 한도 라우트 등록
func RegisterDailyLimitRoutes(router *gin.Engine) {
	limits := router.Group("/api/daily-limit")
	limits.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	limits.GET("/me", controllers.GetMyDailyLimit)

	// 한도 증액 승인과 승인 이력은 관리자 전용
	limits.POST("/approve",
		middleware.PermissionMiddleware(service.ResourceDailyLimit, service.ActionApprove),
		controllers.ApproveDailyLimit)
	limits.GET("/approvals",
		middleware.PermissionMiddleware(service.ResourceDailyLimit, service.ActionApprove),
		controllers.GetDailyLimitApprovals)
}
