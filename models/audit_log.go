package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog 민감 작업 감사 기록. 추가만 하고 수정/삭제하지 않는다
type AuditLog struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ActorID   string             `json:"actorId,omitempty" bson:"actorid,omitempty"`
	ActorName string             `json:"actorName,omitempty" bson:"actorname,omitempty"`
	Action    string             `json:"action" bson:"action"`
	Entity    string             `json:"entity" bson:"entity"`
	EntityID  string             `json:"entityId,omitempty" bson:"entityid,omitempty"`
	Changes   interface{}        `json:"changes,omitempty" bson:"changes,omitempty"`
	IPAddress string             `json:"ipAddress,omitempty" bson:"ipaddress,omitempty"`
	UserAgent string             `json:"userAgent,omitempty" bson:"useragent,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdat"`
}
