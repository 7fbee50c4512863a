package middleware

import (
	"github.com/hangilict/estate_crm_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 전역 에러 처리 미들웨어
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 이미 에러 응답이 쓰였으면 건드리지 않는다
		if c.Writer.Status() >= 400 {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			utils.HandleError(c, err.Err)
			return
		}
	}
}
