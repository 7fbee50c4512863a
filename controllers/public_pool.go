package controllers

import (
	"context"
	"strings"
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

// noContactMarkers 실제 통화로 인정하지 않는 기록 문구.
// result 필드가 없는 과거 데이터에만 적용되는 보조 판정이다
var noContactMarkers = []string{"부재중", "무응답", "결번"}

// isQualifiedContact 공동 풀 인수 자격이 되는 통화 기록인지 판정.
// 통화 결과가 기록된 건은 CONNECTED만 인정하고,
// 결과가 없는 과거 기록은 내용이 비어 있지 않고 부재중 류가 아니면 인정한다.
func isQualifiedContact(log models.CallLog) bool {
	if log.Result != "" {
		return log.Result == models.CallResultCONNECTED
	}

	content := strings.TrimSpace(log.Content)
	if content == "" {
		return false
	}
	for _, marker := range noContactMarkers {
		if strings.Contains(content, marker) {
			return false
		}
	}
	return true
}

// takeoverPublicCustomer ispublic을 조건으로 건 보유자 변경.
// 동시에 인수를 시도하면 조건이 먼저 깨진 쪽이 갱신 건수 0을 보고 충돌로 끝난다
func takeoverPublicCustomer(ctx context.Context, customers *mongo.Collection,
	customerID primitive.ObjectID, claimer *utils.LoginUser, now time.Time) error {

	updateResult, err := customers.UpdateOne(ctx,
		bson.M{"_id": customerID, "ispublic": true, "isdeleted": false},
		bson.M{
			"$set": bson.M{
				"ispublic":         false,
				"assigneduserid":   claimer.ID,
				"assignedusername": claimer.Name,
				"assignedat":       now,
				"updatedat":        now,
			},
			"$unset": bson.M{"publicat": "", "publicbyid": ""},
		},
	)
	if err != nil {
		return err
	}

	if updateResult.ModifiedCount == 0 {
		return utils.CreateConflictError("이미 다른 직원이 가져간 고객입니다.")
	}
	return nil
}

// GetPublicPoolCustomers 공동 풀 고객 목록 조회
func GetPublicPoolCustomers(c *gin.Context) {
	filter := bson.M{
		"ispublic":  true,
		"isdeleted": false,
	}

	if keyword := c.Query("keyword"); keyword != "" {
		filter["name"] = bson.M{"$regex": keyword, "$options": "i"}
	}
	if grade := c.Query("grade"); grade != "" {
		filter["grade"] = grade
	}
	if source := c.Query("source"); source != "" {
		filter["source"] = source
	}

	page, limit := utils.ParsePagination(c)

	ctx := c.Request.Context()
	collection := repository.Collection(repository.CustomersCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	findOptions := options.Find().
		SetSort(bson.M{"publicat": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	customers := make([]models.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, customers, total, page, limit)
}

// ClaimPublicPoolCustomer 공동 풀 고객 인수.
// 본인 통화 기록이 있고 그중 실제 통화가 최소 한 건 있어야 한다.
// ispublic 재확인을 조건부 갱신으로 트랜잭션 안에서 수행하므로
// 동시에 인수를 시도하면 먼저 커밋한 쪽만 성공한다.
func ClaimPublicPoolCustomer(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if caller.UserRole() == models.UserRolePENDING {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다."))
		return
	}

	ctx := c.Request.Context()
	customersCollection := repository.Collection(repository.CustomersCollection)

	var customer models.Customer
	err = customersCollection.FindOne(ctx, bson.M{"_id": objID, "isdeleted": false}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if !customer.IsPublic {
		utils.HandleError(c, utils.CreateConflictError("이미 다른 직원이 가져간 고객입니다."))
		return
	}

	// 인수 자격: 본인 통화 기록 + 실제 통화 1건 이상
	cursor, err := repository.Collection(repository.CallLogsCollection).Find(ctx, bson.M{
		"customerid": objID.Hex(),
		"userid":     caller.ID,
	})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	var callLogs []models.CallLog
	if err := cursor.All(ctx, &callLogs); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if len(callLogs) == 0 {
		utils.HandleError(c, utils.CreateBusinessRuleError("통화 기록이 없는 고객은 인수할 수 없습니다."))
		return
	}

	qualified := false
	for _, log := range callLogs {
		if isQualifiedContact(log) {
			qualified = true
			break
		}
	}
	if !qualified {
		utils.HandleError(c, utils.CreateBusinessRuleError("실제 통화 이력이 있어야 인수할 수 있습니다."))
		return
	}

	_, err = repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		if err := takeoverPublicCustomer(sc, customersCollection, objID, caller, now); err != nil {
			return nil, err
		}

		err = service.AppendAllocation(sc, models.CustomerAllocation{
			CustomerID:      objID.Hex(),
			CustomerName:    customer.Name,
			ToUserID:        caller.ID,
			ToUserName:      caller.Name,
			AllocatedByID:   caller.ID,
			AllocatedByName: caller.Name,
			Reason:          "공동 풀 인수",
			CreatedAt:       now,
		})
		if err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"customerId": objID.Hex(),
		"userId":     caller.ID,
	}, "공동 풀 고객 인수 완료")

	service.RecordAudit(caller.ID, caller.Name, "claim", "customer", objID.Hex(), nil,
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"customerId": objID.Hex()}, "고객을 인수했습니다.")
}
