package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/hangilict/estate_crm_end/utils"

	"github.com/gin-gonic/gin"
)

// bodyLogWriter 응답 본문 캡처용 래퍼
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write ResponseWriter 인터페이스 구현
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Logger 요청/응답 로깅 미들웨어
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		headers := make(map[string]string)
		for k, v := range c.Request.Header {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// 이후 핸들러가 읽을 수 있도록 본문 복원
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = blw

		utils.LogApiRequest(method, path, c.Request.URL.Query(), string(requestBody), headers)

		c.Next()

		utils.LogApiResponse(method, path, c.Writer.Status(), time.Since(start), blw.body.String())
	}
}

// Recovery 패닉 복구 미들웨어
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("핸들러 패닉")

		c.AbortWithStatusJSON(500, gin.H{
			"success": false,
			"error":   "서버 내부 오류가 발생했습니다.",
		})
	})
}
