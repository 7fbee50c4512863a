package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"
)

// visibleCustomerFilter 통화 기록 접근용 고객 조회 필터.
// 열람 범위 안의 고객에 더해 공동 풀 고객은 인수 판단을 위해
// 범위와 무관하게 누구나 접근할 수 있다.
func visibleCustomerFilter(objID primitive.ObjectID, scopeFilter bson.M) bson.M {
	filter := bson.M{"_id": objID, "isdeleted": false}
	if len(scopeFilter) > 0 {
		filter["$or"] = []bson.M{scopeFilter, {"ispublic": true}}
	}
	return filter
}

// AddCallLog 고객 통화 기록 추가.
// 열람 범위 안의 고객과 공동 풀 고객에게 기록할 수 있다
func AddCallLog(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	customerID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 고객 식별자입니다."))
		return
	}

	var req models.CreateCallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	me, err := service.LoadCaller(ctx, caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	scopeFilter, err := service.CustomerScope(ctx, me)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	filter := visibleCustomerFilter(objID, scopeFilter)

	var customer models.Customer
	if err := repository.Collection(repository.CustomersCollection).FindOne(ctx, filter).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	callLog := models.CallLog{
		CustomerID: customerID,
		UserID:     caller.ID,
		UserName:   caller.Name,
		Content:    req.Content,
		Result:     req.Result,
		CreatedAt:  time.Now(),
	}

	if _, err := repository.Collection(repository.CallLogsCollection).InsertOne(ctx, callLog); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.SuccessResponse(c, gin.H{"callLog": callLog}, "통화 기록이 저장되었습니다.")
}

// ListCallLogs 고객 통화 기록 목록 조회
func ListCallLogs(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	customerID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 고객 식별자입니다."))
		return
	}

	ctx := c.Request.Context()

	me, err := service.LoadCaller(ctx, caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	scopeFilter, err := service.CustomerScope(ctx, me)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	customerFilter := visibleCustomerFilter(objID, scopeFilter)

	count, err := repository.Collection(repository.CustomersCollection).CountDocuments(ctx, customerFilter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if count == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("고객"))
		return
	}

	page, limit := utils.ParsePagination(c)
	skip := (page - 1) * limit

	collection := repository.Collection(repository.CallLogsCollection)
	filter := bson.M{"customerid": customerID}

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

	logs := make([]models.CallLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, gin.H{"callLogs": logs}, total, page, limit)
}
