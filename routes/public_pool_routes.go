package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
)

// RegisterPublicPoolRoutes 공동 풀 라우트 등록
func RegisterPublicPoolRoutes(router *gin.Engine) {
	pool := router.Group("/api/public-pool")
	pool.Use(middleware.AuthMiddleware(), middleware.ApprovedOnly())

	// 공동 풀 목록은 역할과 무관하게 전체가 보인다
	pool.GET("/", controllers.GetPublicPoolCustomers)

	// 선착순 인수. 동시 요청은 한 명만 성공한다
	pool.POST("/:id/claim", controllers.ClaimPublicPoolCustomer)
}
