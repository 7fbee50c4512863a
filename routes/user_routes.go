package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 직원 관리 라우트 등록
func RegisterUserRoutes(router *gin.Engine) {
	users := router.Group("/api/users")
	users.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	// 직원 목록 (역할 범위 내)
	users.GET("/", controllers.GetUsers)

	// 직원 생성 (관리자 전용)
	users.POST("/",
		middleware.PermissionMiddleware(service.ResourceUsers, service.ActionCreate),
		controllers.CreateUser)

	// 가입 승인 (관리자 전용)
	users.POST("/:id/approve",
		middleware.PermissionMiddleware(service.ResourceUsers, service.ActionApprove),
		controllers.ApproveUser)

	// 직원 수정 (관리자 전용)
	users.PUT("/:id",
		middleware.PermissionMiddleware(service.ResourceUsers, service.ActionUpdate),
		controllers.UpdateUser)

	// 직원 비활성화 - 보유 고객은 처리자에게 재배정된다 (관리자 전용)
	users.DELETE("/:id",
		middleware.PermissionMiddleware(service.ResourceUsers, service.ActionDelete),
		controllers.DeleteUser)

	// 직원 완전 삭제 - 이력 참조만 끊는다 (관리자 전용)
	users.DELETE("/:id/hard",
		middleware.PermissionMiddleware(service.ResourceUsers, service.ActionDelete),
		controllers.HardDeleteUser)
}
