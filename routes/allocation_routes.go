package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterAllocationRoutes 고객 배정/회수/공동 풀 전환 라우트 등록
func RegisterAllocationRoutes(router *gin.Engine) {
	allocations := router.Group("/api/allocations")
	allocations.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	// 직접 배정 (팀장 이상)
	allocations.POST("/assign",
		middleware.PermissionMiddleware(service.ResourceCustomers, service.ActionAllocate),
		controllers.AssignCustomers)

	// 회수 (관리자 전용)
	allocations.POST("/reclaim",
		middleware.PermissionMiddleware(service.ResourceCustomers, service.ActionReclaim),
		controllers.ReclaimCustomers)

	// 공동 풀 전환/해제 (관리자 전용)
	allocations.POST("/mark-public",
		middleware.PermissionMiddleware(service.ResourceCustomers, service.ActionPublicize),
		controllers.MarkCustomersPublic)
	allocations.POST("/unmark-public",
		middleware.PermissionMiddleware(service.ResourceCustomers, service.ActionPublicize),
		controllers.UnmarkCustomersPublic)

	// 배정 원장 전체 조회
	allocations.GET("/history", controllers.GetAllAllocationHistory)
}
