package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerAllocation 고객 배정 이력 원장 레코드.
// 보유자 변경이 일어날 때마다 한 건씩 추가되며 수정/삭제하지 않는다.
type CustomerAllocation struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CustomerID   string             `json:"customerId" bson:"customerid"`
	CustomerName string             `json:"customerName" bson:"customername"`

	// 빈 값은 관리 풀/공동 풀을 의미한다
	FromUserID   string `json:"fromUserId,omitempty" bson:"fromuserid,omitempty"`
	FromUserName string `json:"fromUserName,omitempty" bson:"fromusername,omitempty"`
	ToUserID     string `json:"toUserId,omitempty" bson:"touserid,omitempty"`
	ToUserName   string `json:"toUserName,omitempty" bson:"tousername,omitempty"`

	AllocatedByID   string    `json:"allocatedById" bson:"allocatedbyid"`
	AllocatedByName string    `json:"allocatedByName" bson:"allocatedbyname"`
	Reason          string    `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdat"`
}

// 배정 엔진 요청 구조
type (
	// AssignCustomersRequest 직접 배정 요청
	AssignCustomersRequest struct {
		CustomerIDs  []string `json:"customerIds" binding:"required,min=1"`
		TargetUserID string   `json:"targetUserId" binding:"required"`
		AssignedSite string   `json:"assignedSite"`
		Reason       string   `json:"reason"`
	}

	// ReclaimCustomersRequest 고객 회수 요청. CustomerIDs가 비어 있으면 전체 회수
	ReclaimCustomersRequest struct {
		FromUserID  string   `json:"fromUserId" binding:"required"`
		CustomerIDs []string `json:"customerIds"`
		Reason      string   `json:"reason"`
	}

	// MarkPublicRequest 공동 풀 전환/해제 요청
	MarkPublicRequest struct {
		CustomerIDs []string `json:"customerIds" binding:"required,min=1"`
		Reason      string   `json:"reason"`
	}
)
