package service

import (
	"context"
	"net/http"
	"time"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"
)

// AppendAllocation 배정 원장에 한 건 추가.
// 보유자 변경 트랜잭션 안에서 호출해야 원장 완전성이 보장된다
func AppendAllocation(ctx context.Context, entry models.CustomerAllocation) error {
	if entry.CustomerID == "" || entry.AllocatedByID == "" {
		return &utils.AppError{Message: "배정 이력 필수 필드 누락", StatusCode: http.StatusBadRequest}
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	collection := repository.Collection(repository.CustomerAllocationsCollection)
	if _, err := collection.InsertOne(ctx, entry); err != nil {
		return err
	}

	utils.LogInfo(map[string]interface{}{
		"customerId": entry.CustomerID,
		"fromUserId": entry.FromUserID,
		"toUserId":   entry.ToUserID,
		"reason":     entry.Reason,
	}, "배정 이력 기록 완료")

	return nil
}

// AppendAllocations 배정 원장에 여러 건 추가
func AppendAllocations(ctx context.Context, entries []models.CustomerAllocation) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(entries))
	for i := range entries {
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		docs = append(docs, entries[i])
	}

	collection := repository.Collection(repository.CustomerAllocationsCollection)
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return err
	}

	return nil
}
