package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterTransferRequestRoutes 담당자 변경 요청 라우트 등록
func RegisterTransferRequestRoutes(router *gin.Engine) {
	transfers := router.Group("/api/transfer-requests")
	transfers.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	transfers.GET("/", controllers.GetTransferRequests)
	transfers.POST("/", controllers.CreateTransferRequestHandler)

	// 승인/반려는 본부장 이상
	transfers.POST("/:id/approve",
		middleware.PermissionMiddleware(service.ResourceTransferRequests, service.ActionApprove),
		controllers.ApproveTransferRequest)
	transfers.POST("/:id/reject",
		middleware.PermissionMiddleware(service.ResourceTransferRequests, service.ActionApprove),
		controllers.RejectTransferRequest)
}
