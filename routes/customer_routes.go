package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/service"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes 고객 관련 라우트 등록
func RegisterCustomerRoutes(router *gin.Engine) {
	customers := router.Group("/api/customers")
	customers.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	customers.GET("/", controllers.GetCustomerList)
	customers.POST("/", controllers.CreateCustomer)
	customers.POST("/check-duplicates", controllers.CheckDuplicateCustomers)

	// 대량 업로드는 배정 권한이 있어야 한다
	customers.POST("/bulk-import",
		middleware.PermissionMiddleware(service.ResourceCustomers, service.ActionAllocate),
		controllers.BulkImportCustomers)

	customers.GET("/:id", controllers.GetCustomerDetail)
	customers.PUT("/:id", controllers.UpdateCustomer)
	customers.DELETE("/:id", controllers.DeleteCustomer)

	// 통화 기록
	customers.GET("/:id/call-logs", controllers.ListCallLogs)
	customers.POST("/:id/call-logs", controllers.AddCallLog)

	// 고객별 배정 이력
	customers.GET("/:id/allocations", controllers.GetCustomerAllocationHistory)
}
