package utils

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/hangilict/estate_crm_end/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/width"
)

var phonePattern = regexp.MustCompile(`^01[016789]\d{7,8}$`)

// NormalizePhone 연락처 정규화.
// 전각 숫자를 접어서 반각으로 바꾼 뒤 숫자만 남긴다.
func NormalizePhone(phone string) string {
	folded := width.Fold.String(phone)

	var sb strings.Builder
	for _, r := range folded {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsValidPhone 정규화된 휴대전화 번호 형식 검사
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// LoginUser 세션에서 복원한 호출자 정보
type LoginUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
}

// UserRole 호출자 역할 반환
func (u *LoginUser) UserRole() models.UserRole {
	return models.UserRole(u.Role)
}

// GetUser 컨텍스트에서 호출자 정보 조회
func GetUser(c *gin.Context) (*LoginUser, error) {
	currentUser, exists := c.Get("user")
	if !exists {
		return nil, CreateUnauthorizedError()
	}

	claims, ok := currentUser.(jwt.MapClaims)
	if !ok {
		return nil, CreateUnauthorizedError()
	}

	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return nil, CreateUnauthorizedError()
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, CreateUnauthorizedError()
	}

	name, _ := claims["name"].(string)

	return &LoginUser{
		ID:   id,
		Role: role,
		Name: name,
	}, nil
}

// ParsePagination 페이지 파라미터 파싱. 잘못된 값은 기본값으로 대체
func ParsePagination(c *gin.Context) (page int64, limit int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// PaginatedResponse 페이지네이션 메타 포함 목록 응답
func PaginatedResponse(c *gin.Context, data interface{}, total int64, page int64, limit int64) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + limit - 1) / limit,
		},
	})
}
