package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission (역할, 리소스, 액션) 단위 권한 행
type Permission struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Role      UserRole           `json:"role" bson:"role"`
	Resource  string             `json:"resource" bson:"resource"`
	Action    string             `json:"action" bson:"action"`
	IsAllowed bool               `json:"isAllowed" bson:"isallowed"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdat"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedat"`
}

// UpsertPermissionRequest 권한 행 등록/수정 요청
type UpsertPermissionRequest struct {
	Role      UserRole `json:"role" binding:"required"`
	Resource  string   `json:"resource" binding:"required"`
	Action    string   `json:"action" binding:"required"`
	IsAllowed *bool    `json:"isAllowed" binding:"required"`
}
