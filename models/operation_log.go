package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationLog HTTP 변경 요청 단위의 운영 로그 (미들웨어가 기록)
type OperationLog struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Method        string             `json:"method" bson:"method"`
	Path          string             `json:"path" bson:"path"`
	OperatorID    string             `json:"operatorId" bson:"operatorid"`
	OperatorName  string             `json:"operatorName" bson:"operatorname"`
	OperatorRole  string             `json:"operatorRole" bson:"operatorrole"`
	RequestBody   interface{}        `json:"requestBody,omitempty" bson:"requestbody,omitempty"`
	ResponseData  interface{}        `json:"responseData,omitempty" bson:"responsedata,omitempty"`
	StatusCode    int                `json:"statusCode" bson:"statuscode"`
	Success       bool               `json:"success" bson:"success"`
	ErrorMessage  string             `json:"errorMessage,omitempty" bson:"errormessage,omitempty"`
	OperationTime time.Time          `json:"operationTime" bson:"operationtime"`
	ResponseTime  int64              `json:"responseTime" bson:"responsetime"`
	IPAddress     string             `json:"ipAddress,omitempty" bson:"ipaddress,omitempty"`
	UserAgent     string             `json:"userAgent,omitempty" bson:"useragent,omitempty"`
}
