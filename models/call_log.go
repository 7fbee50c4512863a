package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallResult 통화 결과
type CallResult string

const (
	CallResultCONNECTED    CallResult = "CONNECTED"    // 통화 연결됨
	CallResultNO_ANSWER    CallResult = "NO_ANSWER"    // 부재중
	CallResultBUSY         CallResult = "BUSY"         // 통화중
	CallResultWRONG_NUMBER CallResult = "WRONG_NUMBER" // 결번/오번호
)

// CallLog 고객 통화 기록. 공동 풀 인수 자격 판정에 사용된다
type CallLog struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	CustomerID string             `json:"customerId" bson:"customerid"`
	UserID     string             `json:"userId,omitempty" bson:"userid,omitempty"`
	UserName   string             `json:"userName,omitempty" bson:"username,omitempty"`
	Content    string             `json:"content" bson:"content"`
	Result     CallResult         `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdat"`
}

// CreateCallLogRequest 통화 기록 등록 요청
type CreateCallLogRequest struct {
	Content string     `json:"content" binding:"required,min=1"`
	Result  CallResult `json:"result" binding:"omitempty,oneof=CONNECTED NO_ANSWER BUSY WRONG_NUMBER"`
}
