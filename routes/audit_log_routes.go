package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterAuditLogRoutes 감사 기록 라우트 등록 (관리자 전용)
func RegisterAuditLogRoutes(router *gin.Engine) {
	logs := router.Group("/api/audit-logs")
	logs.Use(middleware.AuthMiddleware())

	logs.GET("/",
		middleware.PermissionMiddleware(service.ResourceAuditLogs, service.ActionRead),
		controllers.GetAuditLogs)
}
