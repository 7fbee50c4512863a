package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyLimitApproval 일일 등록 한도 증설 승인 기록.
// (직원, 날짜)별 승인 횟수만큼 기본 한도가 배수로 늘어난다. 취소 수단은 없다.
type DailyLimitApproval struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userid"`
	Date           string             `json:"date" bson:"date"` // KST 기준 "2006-01-02"
	ApprovedByID   string             `json:"approvedById" bson:"approvedbyid"`
	ApprovedByName string             `json:"approvedByName" bson:"approvedbyname"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdat"`
}

// DailyLimitStatus 일일 등록 한도 조회 응답
type DailyLimitStatus struct {
	Date      string `json:"date"`
	Count     int64  `json:"count"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

// ApproveDailyLimitRequest 한도 증설 승인 요청
type ApproveDailyLimitRequest struct {
	UserID string `json:"userId" binding:"required"`
	Date   string `json:"date"` // 생략하면 오늘(KST)
}
