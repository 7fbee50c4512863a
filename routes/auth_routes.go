package routes

import (
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 인증 라우트 등록
func RegisterAuthRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")

	// 공개 라우트 - 인증 불필요
	auth.POST("/login", controllers.Login)
	auth.POST("/register", controllers.Register)

	// 인증 필요 라우트
	auth.GET("/profile", middleware.AuthMiddleware(), controllers.GetProfile)
}
