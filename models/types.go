package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole 직원 역할 (순서 있는 닫힌 집합)
type UserRole string

const (
	UserRolePENDING     UserRole = "PENDING"     // 승인 대기
	UserRoleEMPLOYEE    UserRole = "EMPLOYEE"    // 일반 영업사원
	UserRoleTEAM_LEADER UserRole = "TEAM_LEADER" // 팀장
	UserRoleHEAD        UserRole = "HEAD"        // 본부장
	UserRoleADMIN       UserRole = "ADMIN"       // 관리자
	UserRoleCEO         UserRole = "CEO"         // 대표
)

// roleRank 역할 서열. 값이 클수록 상위 역할
var roleRank = map[UserRole]int{
	UserRolePENDING:     0,
	UserRoleEMPLOYEE:    1,
	UserRoleTEAM_LEADER: 2,
	UserRoleHEAD:        3,
	UserRoleADMIN:       4,
	UserRoleCEO:         5,
}

// Rank 역할 서열값 반환. 알 수 없는 역할은 -1
func (r UserRole) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

// AtLeast r이 other 이상의 역할인지 확인
func (r UserRole) AtLeast(other UserRole) bool {
	return r.Rank() >= 0 && r.Rank() >= other.Rank()
}

// IsManager 관리자급(ADMIN/CEO) 여부
func (r UserRole) IsManager() bool {
	return r == UserRoleADMIN || r == UserRoleCEO
}

// User 직원 계정
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	LoginID    string             `bson:"loginid" json:"loginId"`
	Password   string             `bson:"password" json:"-"` // 비밀번호는 응답에서 제외
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone" json:"phone"`
	Role       UserRole           `bson:"role" json:"role"`
	Team       string             `bson:"team,omitempty" json:"team,omitempty"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	IsActive   bool               `bson:"isactive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdat" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedat" json:"updatedAt"`
}

// UserBrief 직원 요약 정보
type UserBrief struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Role       UserRole           `bson:"role" json:"role"`
	Team       string             `bson:"team,omitempty" json:"team,omitempty"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
}

// 인증 관련 요청/응답 구조
type (
	// LoginRequest 로그인 요청
	LoginRequest struct {
		LoginID  string `json:"loginId" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 로그인 응답
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// RegisterRequest 직원 가입 요청 (승인 전까지 PENDING)
	RegisterRequest struct {
		LoginID  string `json:"loginId" binding:"required,min=4"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name" binding:"required,min=2"`
		Phone    string `json:"phone" binding:"required"`
	}

	// ApproveUserRequest 가입 승인 요청
	ApproveUserRequest struct {
		Role       UserRole `json:"role" binding:"omitempty,oneof=EMPLOYEE TEAM_LEADER HEAD ADMIN"`
		Team       string   `json:"team"`
		Department string   `json:"department"`
	}

	// CreateUserRequest 직원 생성 요청
	CreateUserRequest struct {
		LoginID    string   `json:"loginId" binding:"required,min=4"`
		Password   string   `json:"password" binding:"required,min=6"`
		Name       string   `json:"name" binding:"required,min=2"`
		Phone      string   `json:"phone" binding:"required"`
		Role       UserRole `json:"role" binding:"required,oneof=EMPLOYEE TEAM_LEADER HEAD ADMIN"`
		Team       string   `json:"team"`
		Department string   `json:"department"`
	}

	// UpdateUserRequest 직원 수정 요청
	UpdateUserRequest struct {
		Password   string   `json:"password" binding:"omitempty,min=6"`
		Name       string   `json:"name" binding:"omitempty,min=2"`
		Phone      string   `json:"phone"`
		Role       UserRole `json:"role" binding:"omitempty,oneof=EMPLOYEE TEAM_LEADER HEAD ADMIN"`
		Team       string   `json:"team"`
		Department string   `json:"department"`
		IsActive   *bool    `json:"isActive"`
	}
)
