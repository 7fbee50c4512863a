package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer 고객(분양 상담 대상) 모델
type Customer struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Phone string             `json:"phone" bson:"phone"` // 숫자만 남긴 정규화 형태, 미삭제 고객 간 유일

	Grade        string `json:"grade,omitempty" bson:"grade,omitempty"`
	Source       string `json:"source,omitempty" bson:"source,omitempty"`
	AssignedSite string `json:"assignedSite,omitempty" bson:"assignedsite,omitempty"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	Address      string `json:"address,omitempty" bson:"address,omitempty"`
	Memo         string `json:"memo,omitempty" bson:"memo,omitempty"`

	// 현재 담당자. 빈 값이면 관리 풀(미배정)
	AssignedUserID   string     `json:"assignedUserId,omitempty" bson:"assigneduserid,omitempty"`
	AssignedUserName string     `json:"assignedUserName,omitempty" bson:"assignedusername,omitempty"`
	AssignedAt       *time.Time `json:"assignedAt,omitempty" bson:"assignedat,omitempty"`

	// 공동 풀(공유 고객) 상태. isPublic=true 이면 담당자는 반드시 비어 있어야 한다
	IsPublic   bool       `json:"isPublic" bson:"ispublic"`
	PublicAt   *time.Time `json:"publicAt,omitempty" bson:"publicat,omitempty"`
	PublicByID string     `json:"publicById,omitempty" bson:"publicbyid,omitempty"`

	IsDeleted   bool      `json:"isDeleted" bson:"isdeleted"`
	CreatedByID string    `json:"createdById,omitempty" bson:"createdbyid,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedat"`
}

// HolderKind 고객 보유 상태 구분
type HolderKind int

const (
	HolderUnassigned HolderKind = iota // 관리 풀 (담당자 없음)
	HolderPublic                       // 공동 풀
	HolderAssigned                     // 특정 직원 담당
)

// Holder 고객 보유 상태 (세 가지 상태의 명시적 표현)
type Holder struct {
	Kind   HolderKind
	UserID string // Kind == HolderAssigned 인 경우에만 유효
}

// Holder 현재 보유 상태 반환
func (c *Customer) Holder() Holder {
	if c.IsPublic {
		return Holder{Kind: HolderPublic}
	}
	if c.AssignedUserID != "" {
		return Holder{Kind: HolderAssigned, UserID: c.AssignedUserID}
	}
	return Holder{Kind: HolderUnassigned}
}

// CheckHolderInvariant 보유 상태 불변식 검사.
// 공동 풀 고객은 담당자를 가질 수 없다.
func (c *Customer) CheckHolderInvariant() bool {
	if c.IsPublic && c.AssignedUserID != "" {
		return false
	}
	return true
}

// 고객 관련 요청 구조
type (
	// CustomerCreateRequest 고객 등록 요청
	CustomerCreateRequest struct {
		Name         string `json:"name" binding:"required,min=2"`
		Phone        string `json:"phone" binding:"required"`
		Grade        string `json:"grade"`
		Source       string `json:"source"`
		AssignedSite string `json:"assignedSite"`
		Email        string `json:"email"`
		Address      string `json:"address"`
		Memo         string `json:"memo"`
	}

	// CustomerUpdateRequest 고객 수정 요청
	CustomerUpdateRequest struct {
		Name         string `json:"name" binding:"omitempty,min=2"`
		Phone        string `json:"phone"`
		Grade        string `json:"grade"`
		Source       string `json:"source"`
		AssignedSite string `json:"assignedSite"`
		Email        string `json:"email"`
		Address      string `json:"address"`
		Memo         string `json:"memo"`
	}

	// CheckDuplicateRequest 연락처 중복 확인 요청
	CheckDuplicateRequest struct {
		Phones []string `json:"phones" binding:"required,min=1"`
	}

	// DuplicateEntry 중복 연락처 항목. 병합하지 않고 경고로만 노출한다
	DuplicateEntry struct {
		Phone            string `json:"phone"`
		CustomerID       string `json:"customerId"`
		CustomerName     string `json:"customerName"`
		AssignedUserID   string `json:"assignedUserId,omitempty"`
		AssignedUserName string `json:"assignedUserName,omitempty"`
	}
)
