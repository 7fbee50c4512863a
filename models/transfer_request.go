package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransferStatus 이관 요청 상태
type TransferStatus string

const (
	TransferStatusPENDING  TransferStatus = "PENDING"
	TransferStatusAPPROVED TransferStatus = "APPROVED"
	TransferStatusREJECTED TransferStatus = "REJECTED"
)

// IsResolved 종결 상태 여부. APPROVED/REJECTED는 더 이상 전이할 수 없다
func (s TransferStatus) IsResolved() bool {
	return s == TransferStatusAPPROVED || s == TransferStatusREJECTED
}

// TransferRequest 담당자 변경(이관) 요청.
// 고객당 PENDING 상태는 최대 한 건만 존재할 수 있다 (부분 유니크 인덱스로 보강).
type TransferRequest struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CustomerID   string             `json:"customerId" bson:"customerid"`
	CustomerName string             `json:"customerName" bson:"customername"`

	FromUserID   string `json:"fromUserId,omitempty" bson:"fromuserid,omitempty"`
	FromUserName string `json:"fromUserName,omitempty" bson:"fromusername,omitempty"`
	ToUserID     string `json:"toUserId" bson:"touserid"`
	ToUserName   string `json:"toUserName" bson:"tousername"`

	RequestedByID   string `json:"requestedById" bson:"requestedbyid"`
	RequestedByName string `json:"requestedByName" bson:"requestedbyname"`
	Reason          string `json:"reason" bson:"reason"`

	Status         TransferStatus `json:"status" bson:"status"`
	ApprovedByID   string         `json:"approvedById,omitempty" bson:"approvedbyid,omitempty"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty" bson:"approvedat,omitempty"`
	RejectedReason string         `json:"rejectedReason,omitempty" bson:"rejectedreason,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedat"`
}

type (
	// CreateTransferRequest 이관 요청 생성
	CreateTransferRequest struct {
		CustomerID string `json:"customerId" binding:"required"`
		ToUserID   string `json:"toUserId" binding:"required"`
		Reason     string `json:"reason" binding:"required,min=1"`
	}

	// RejectTransferRequest 이관 요청 반려. 반려 사유는 필수
	RejectTransferRequest struct {
		Reason string `json:"reason" binding:"required,min=1"`
	}
)
