package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError 앱 공통 에러. 상태코드/에러코드와 추가 페이로드를 함께 옮긴다
type AppError struct {
	Message    string
	StatusCode int
	ErrorCode  string
	Data       map[string]interface{}
	Err        error
}

// Error error 인터페이스 구현
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 원인 에러 반환
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError 앱 에러 생성
func NewAppError(message string, statusCode int, errorCode string) *AppError {
	return &AppError{
		Message:    message,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

// CreateUnauthorizedError 인증 실패 에러 (401)
func CreateUnauthorizedError() *AppError {
	return NewAppError("인증되지 않은 요청입니다.", http.StatusUnauthorized, "UNAUTHENTICATED")
}

// CreateForbiddenError 권한 부족 에러 (403). 메시지를 생략하면 기본 문구를 쓴다
func CreateForbiddenError(message ...string) *AppError {
	msg := "권한이 없습니다."
	if len(message) > 0 {
		msg = message[0]
	}
	return NewAppError(msg, http.StatusForbidden, "PERMISSION_DENIED")
}

// CreateNotFoundError 리소스 없음 에러 (404)
func CreateNotFoundError(resource string) *AppError {
	return NewAppError(resource+"을(를) 찾을 수 없습니다.", http.StatusNotFound, "NOT_FOUND")
}

// CreateConflictError 동시성/상태 충돌 에러 (409)
func CreateConflictError(message string) *AppError {
	return NewAppError(message, http.StatusConflict, "CONFLICT")
}

// CreateValidationError 요청 검증 실패 에러 (400)
func CreateValidationError(message string) *AppError {
	return NewAppError(message, http.StatusBadRequest, "VALIDATION_ERROR")
}

// CreateBusinessRuleError 업무 규칙 위반 에러 (400)
func CreateBusinessRuleError(message string) *AppError {
	return NewAppError(message, http.StatusBadRequest, "BUSINESS_RULE_VIOLATION")
}

// CreateQuotaExceededError 일일 등록 한도 초과 에러.
// 호출자가 한도 증설을 요청할 수 있도록 현재 한도와 잔여 수를 함께 내려준다
func CreateQuotaExceededError(limit, remaining int64) *AppError {
	err := NewAppError(
		fmt.Sprintf("일일 고객 등록 한도를 초과했습니다. (한도: %d건)", limit),
		http.StatusForbidden,
		"QUOTA_EXCEEDED",
	)
	err.Data = map[string]interface{}{
		"currentLimit": limit,
		"remaining":    remaining,
	}
	return err
}

// CreateInternalError 내부 오류 (500). 호출자에게는 일반 메시지만 노출한다
func CreateInternalError(err error) *AppError {
	return &AppError{
		Message:    "서버 내부 오류가 발생했습니다.",
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL",
		Err:        err,
	}
}

// HandleError 에러를 적절한 JSON 응답으로 변환
func HandleError(c *gin.Context, err error) {
	if c == nil {
		return
	}

	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "API 에러")

	if appErr, ok := err.(*AppError); ok {
		response := gin.H{
			"success": false,
			"error":   appErr.Message,
		}
		if appErr.ErrorCode != "" {
			response["code"] = appErr.ErrorCode
		}
		for k, v := range appErr.Data {
			response[k] = v
		}
		c.JSON(appErr.StatusCode, response)
		return
	}

	// 예기치 못한 에러는 내부 오류로 처리
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "서버 내부 오류가 발생했습니다.",
		"code":    "INTERNAL",
	})
}

// SuccessResponse 성공 응답
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}

// ErrorResponse 에러 응답
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
