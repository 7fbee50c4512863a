package service

import (
	"context"
	"time"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"
)

// RecordAudit 감사 기록 적재.
// 업무 트랜잭션과는 별개의 best-effort 쓰기다. 실패해도 로그만 남기고
// 호출 측 작업의 성패에는 절대 영향을 주지 않는다.
func RecordAudit(actorID, actorName, action, entity, entityID string, changes interface{}, ip, userAgent string) {
	entry := models.AuditLog{
		ActorID:   actorID,
		ActorName: actorName,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Changes:   changes,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.Logger.Error().Interface("panic", r).Msg("감사 기록 중 패닉")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		collection := repository.Collection(repository.AuditLogsCollection)
		_, err := repository.ExecuteDbOperation(func() (interface{}, error) {
			return collection.InsertOne(ctx, entry)
		}, 3)
		if err != nil {
			utils.LogError(err, map[string]interface{}{
				"action":   action,
				"entity":   entity,
				"entityId": entityID,
			}, "감사 기록 적재 실패")
		}
	}()
}
