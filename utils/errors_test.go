package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func TestQuotaExceededErrorPayload(t *testing.T) {
	err := CreateQuotaExceededError(100, 0)

	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, "QUOTA_EXCEEDED", err.ErrorCode)
	assert.EqualValues(t, 100, err.Data["currentLimit"])
	assert.EqualValues(t, 0, err.Data["remaining"])
	assert.Contains(t, err.Message, "일일 고객 등록 한도")
}

func TestHandleErrorRendersAppError(t *testing.T) {
	c, w := newTestContext(t)

	HandleError(c, CreateConflictError("이미 다른 직원이 가져간 고객입니다."))

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "이미 다른 직원이 가져간 고객입니다.", body["error"])
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestHandleErrorIncludesDataPayload(t *testing.T) {
	c, w := newTestContext(t)

	HandleError(c, CreateQuotaExceededError(50, 0))

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 50, body["currentLimit"])
	assert.EqualValues(t, 0, body["remaining"])
}

func TestHandleErrorHidesUnexpectedErrorDetail(t *testing.T) {
	c, w := newTestContext(t)

	HandleError(c, errors.New("connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "서버 내부 오류가 발생했습니다.", body["error"])
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestInternalErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := CreateInternalError(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "boom")
}
