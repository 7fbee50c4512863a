package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterPermissionRoutes 권한 규칙 관리 라우트 등록 (관리자 전용)
func RegisterPermissionRoutes(router *gin.Engine) {
	permissions := router.Group("/api/permissions")
	permissions.Use(middleware.AuthMiddleware())

	permissions.GET("/",
		middleware.PermissionMiddleware(service.ResourcePermissions, service.ActionRead),
		controllers.ListPermissions)
	permissions.PUT("/",
		middleware.PermissionMiddleware(service.ResourcePermissions, service.ActionUpdate),
		controllers.UpsertPermission)
	permissions.DELETE("/",
		middleware.PermissionMiddleware(service.ResourcePermissions, service.ActionDelete),
		controllers.DeletePermission)
}
