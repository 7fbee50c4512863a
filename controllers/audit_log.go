package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"
)

// GetAuditLogs 감사 기록 조회 (관리자 전용)
func GetAuditLogs(c *gin.Context) {
	ctx := c.Request.Context()

	filter := bson.M{}
	if actorID := c.Query("actorId"); actorID != "" {
		filter["actorid"] = actorID
	}
	if action := c.Query("action"); action != "" {
		filter["action"] = action
	}
	if entity := c.Query("entity"); entity != "" {
		filter["entity"] = entity
	}
	if entityID := c.Query("entityId"); entityID != "" {
		filter["entityid"] = entityID
	}

	// 기간 필터. 날짜만 주면 해당 날짜 전체를 포함한다
	dateRange := bson.M{}
	if from := c.Query("startDate"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			dateRange["$gte"] = t
		}
	}
	if to := c.Query("endDate"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			dateRange["$lt"] = t.AddDate(0, 0, 1)
		}
	}
	if len(dateRange) > 0 {
		filter["createdat"] = dateRange
	}

	page, limit := utils.ParsePagination(c)
	skip := (page - 1) * limit

	collection := repository.Collection(repository.AuditLogsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	cursor, err := collection.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit))
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	logs := make([]models.AuditLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, gin.H{"auditLogs": logs}, total, page, limit)
}
