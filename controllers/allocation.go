package controllers

import (
	"fmt"
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

// markPublicBatchSize 공동 풀 전환 서브 배치 크기.
// 배치 단위 트랜잭션으로 잠금 유지 시간을 제한한다
const markPublicBatchSize = 500

// parseObjectIDs 16진수 ID 목록을 ObjectID로 변환. 잘못된 형식은 전체 실패
func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다: " + id)
		}
		objIDs = append(objIDs, objID)
	}
	return objIDs, nil
}

// buildAllocationEntries 보유자가 바뀌는 고객마다 원장 레코드를 한 건씩 만든다.
// toUserID가 비어 있으면 관리 풀로의 회수를 의미한다
func buildAllocationEntries(customers []models.Customer, toUserID, toUserName string,
	caller *utils.LoginUser, reason string, now time.Time) []models.CustomerAllocation {

	entries := make([]models.CustomerAllocation, 0, len(customers))
	for _, customer := range customers {
		entries = append(entries, models.CustomerAllocation{
			CustomerID:      customer.ID.Hex(),
			CustomerName:    customer.Name,
			FromUserID:      customer.AssignedUserID,
			FromUserName:    customer.AssignedUserName,
			ToUserID:        toUserID,
			ToUserName:      toUserName,
			AllocatedByID:   caller.ID,
			AllocatedByName: caller.Name,
			Reason:          reason,
			CreatedAt:       now,
		})
	}
	return entries
}

// AssignCustomers 고객 직접 배정.
// 고객 갱신과 원장 기록이 한 트랜잭션으로 묶인다. 대상 직원이 없거나 비활성이면,
// 또는 일치하는 고객이 한 건도 없으면 전체가 실패한다.
func AssignCustomers(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.AssignCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("배정 요청을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	targetObjID, err := primitive.ObjectIDFromHex(req.TargetUserID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("대상 직원 ID 형식이 올바르지 않습니다."))
		return
	}

	var target models.User
	err = repository.Collection(repository.UsersCollection).
		FindOne(ctx, bson.M{"_id": targetObjID}).Decode(&target)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("대상 직원"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if !target.IsActive {
		utils.HandleError(c, utils.CreateBusinessRuleError("비활성 직원에게는 배정할 수 없습니다."))
		return
	}

	objIDs, err := parseObjectIDs(req.CustomerIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "직접 배정"
	}

	result, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		customersCollection := repository.Collection(repository.CustomersCollection)

		cursor, err := customersCollection.Find(sc, bson.M{
			"_id":       bson.M{"$in": objIDs},
			"isdeleted": false,
		})
		if err != nil {
			return nil, err
		}

		var customers []models.Customer
		if err := cursor.All(sc, &customers); err != nil {
			return nil, err
		}

		if len(customers) == 0 {
			return nil, utils.CreateBusinessRuleError("배정할 고객이 없습니다.")
		}

		now := time.Now()
		entries := buildAllocationEntries(customers, req.TargetUserID, target.Name, caller, reason, now)

		for _, customer := range customers {
			update := bson.M{
				"assigneduserid":   req.TargetUserID,
				"assignedusername": target.Name,
				"assignedat":       now,
				"ispublic":         false,
				"updatedat":        now,
			}
			if req.AssignedSite != "" {
				update["assignedsite"] = req.AssignedSite
			}

			if _, err := customersCollection.UpdateOne(sc,
				bson.M{"_id": customer.ID},
				bson.M{
					"$set":   update,
					"$unset": bson.M{"publicat": "", "publicbyid": ""},
				},
			); err != nil {
				return nil, err
			}
		}

		if err := service.AppendAllocations(sc, entries); err != nil {
			return nil, err
		}

		return len(customers), nil
	})
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	count := result.(int)

	utils.LogInfo(map[string]interface{}{
		"targetUserId": req.TargetUserID,
		"count":        count,
		"operator":     caller.ID,
	}, "고객 직접 배정 완료")

	service.RecordAudit(caller.ID, caller.Name, "allocate", "customer", "",
		map[string]interface{}{"targetUserId": req.TargetUserID, "count": count},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"count": count, "targetUserName": target.Name}, "고객이 배정되었습니다.")
}

// ReclaimCustomers 고객 회수. 특정 직원이 보유한 고객을 관리 풀로 되돌린다.
// 일치하는 고객이 없으면 명시적으로 실패를 보고한다.
func ReclaimCustomers(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.ReclaimCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("회수 요청을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	partial := len(req.CustomerIDs) > 0
	filter := bson.M{
		"assigneduserid": req.FromUserID,
		"isdeleted":      false,
	}
	if partial {
		objIDs, err := parseObjectIDs(req.CustomerIDs)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		filter["_id"] = bson.M{"$in": objIDs}
	}

	scopeLabel := "전체"
	if partial {
		scopeLabel = "부분"
	}
	reason := fmt.Sprintf("%s(%s) 회수 [%s]", caller.Name, caller.ID, scopeLabel)
	if req.Reason != "" {
		reason = reason + ": " + req.Reason
	}

	result, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		customersCollection := repository.Collection(repository.CustomersCollection)

		cursor, err := customersCollection.Find(sc, filter)
		if err != nil {
			return nil, err
		}

		var customers []models.Customer
		if err := cursor.All(sc, &customers); err != nil {
			return nil, err
		}

		if len(customers) == 0 {
			return nil, utils.CreateBusinessRuleError("회수할 고객이 없습니다.")
		}

		now := time.Now()
		entries := buildAllocationEntries(customers, "", "", caller, reason, now)

		ids := make([]primitive.ObjectID, 0, len(customers))
		for _, customer := range customers {
			ids = append(ids, customer.ID)
		}

		if _, err := customersCollection.UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{
				"$set":   bson.M{"updatedat": now},
				"$unset": bson.M{"assigneduserid": "", "assignedusername": "", "assignedat": ""},
			},
		); err != nil {
			return nil, err
		}

		if err := service.AppendAllocations(sc, entries); err != nil {
			return nil, err
		}

		return len(customers), nil
	})
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	count := result.(int)

	service.RecordAudit(caller.ID, caller.Name, "reclaim", "customer", "",
		map[string]interface{}{"fromUserId": req.FromUserID, "count": count},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"count": count}, fmt.Sprintf("%d건의 고객을 회수했습니다.", count))
}

// MarkCustomersPublic 고객 공동 풀 전환.
// 본인 담당이거나 미배정인 고객만 전환할 수 있다. 다른 직원의 고객은 건드릴 수 없다.
// 서브 배치 단위 트랜잭션으로 처리하며 원장 기록은 전환 시점에만 남긴다.
func MarkCustomersPublic(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.MarkPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("공동 풀 전환 요청을 확인해 주세요: "+err.Error()))
		return
	}

	objIDs, err := parseObjectIDs(req.CustomerIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	totalMarked := 0
	skipped := make([]string, 0)

	for start := 0; start < len(objIDs); start += markPublicBatchSize {
		end := start + markPublicBatchSize
		if end > len(objIDs) {
			end = len(objIDs)
		}
		batch := objIDs[start:end]

		result, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			customersCollection := repository.Collection(repository.CustomersCollection)

			cursor, err := customersCollection.Find(sc, bson.M{
				"_id":       bson.M{"$in": batch},
				"isdeleted": false,
			})
			if err != nil {
				return nil, err
			}

			var customers []models.Customer
			if err := cursor.All(sc, &customers); err != nil {
				return nil, err
			}

			now := time.Now()
			marked := 0
			batchSkipped := make([]string, 0)
			entries := make([]models.CustomerAllocation, 0, len(customers))

			for _, customer := range customers {
				if customer.IsPublic {
					continue
				}
				// 다른 직원 보유 고객은 전환 불가
				if customer.AssignedUserID != "" && customer.AssignedUserID != caller.ID {
					batchSkipped = append(batchSkipped, customer.ID.Hex())
					continue
				}

				if _, err := customersCollection.UpdateOne(sc,
					bson.M{"_id": customer.ID},
					bson.M{
						"$set": bson.M{
							"ispublic":   true,
							"publicat":   now,
							"publicbyid": caller.ID,
							"updatedat":  now,
						},
						"$unset": bson.M{"assigneduserid": "", "assignedusername": "", "assignedat": ""},
					},
				); err != nil {
					return nil, err
				}

				entries = append(entries, models.CustomerAllocation{
					CustomerID:      customer.ID.Hex(),
					CustomerName:    customer.Name,
					FromUserID:      customer.AssignedUserID,
					FromUserName:    customer.AssignedUserName,
					AllocatedByID:   caller.ID,
					AllocatedByName: caller.Name,
					Reason:          "공동 풀 전환",
					CreatedAt:       now,
				})
				marked++
			}

			if err := service.AppendAllocations(sc, entries); err != nil {
				return nil, err
			}

			return map[string]interface{}{"marked": marked, "skipped": batchSkipped}, nil
		})
		if err != nil {
			if _, ok := err.(*utils.AppError); ok {
				utils.HandleError(c, err)
				return
			}
			utils.HandleError(c, utils.CreateInternalError(err))
			return
		}

		batchResult := result.(map[string]interface{})
		totalMarked += batchResult["marked"].(int)
		skipped = append(skipped, batchResult["skipped"].([]string)...)
	}

	service.RecordAudit(caller.ID, caller.Name, "mark-public", "customer", "",
		map[string]interface{}{"count": totalMarked, "skipped": len(skipped)},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{
		"count":   totalMarked,
		"skipped": skipped,
	}, fmt.Sprintf("%d건의 고객을 공동 풀로 전환했습니다.", totalMarked))
}

// UnmarkCustomersPublic 공동 풀 해제. 해제 시에는 원장 기록을 남기지 않는다
func UnmarkCustomersPublic(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.MarkPublicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("공동 풀 해제 요청을 확인해 주세요: "+err.Error()))
		return
	}

	objIDs, err := parseObjectIDs(req.CustomerIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := repository.Collection(repository.CustomersCollection).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objIDs}, "ispublic": true, "isdeleted": false},
		bson.M{
			"$set":   bson.M{"ispublic": false, "updatedat": time.Now()},
			"$unset": bson.M{"publicat": "", "publicbyid": ""},
		},
	)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "unmark-public", "customer", "",
		map[string]interface{}{"count": result.ModifiedCount},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"count": result.ModifiedCount},
		fmt.Sprintf("%d건의 고객을 공동 풀에서 해제했습니다.", result.ModifiedCount))
}

// GetCustomerAllocationHistory 특정 고객의 배정 이력 조회.
// 해당 고객을 볼 수 있는 호출자에게만 이력을 보여준다
func GetCustomerAllocationHistory(c *gin.Context) {
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

	count, err := repository.Collection(repository.CustomersCollection).
		CountDocuments(ctx, visibleCustomerFilter(objID, scopeFilter))
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if count == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("고객"))
		return
	}

	collection := repository.Collection(repository.CustomerAllocationsCollection)

	findOptions := options.Find().SetSort(bson.M{"createdat": -1})

	cursor, err := collection.Find(ctx, bson.M{"customerid": customerID}, findOptions)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	history := make([]models.CustomerAllocation, 0)
	if err := cursor.All(ctx, &history); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.SuccessResponse(c, gin.H{"history": history}, "")
}

// GetAllAllocationHistory 배정 이력 전체 조회 (조건 필터 지원).
// 관리자급이 아니면 본인 열람 범위의 직원이 당사자인 기록만 보인다
func GetAllAllocationHistory(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()

	me, err := service.LoadCaller(ctx, caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	visibleIDs, err := service.VisibleUserIDs(ctx, me)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filter := bson.M{}
	clauses := make([]bson.M, 0, 2)

	if customerID := c.Query("customerId"); customerID != "" {
		filter["customerid"] = customerID
	}
	if userID := c.Query("userId"); userID != "" {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"fromuserid": userID},
			{"touserid": userID},
		}})
	}
	if visibleIDs != nil {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"fromuserid": bson.M{"$in": visibleIDs}},
			{"touserid": bson.M{"$in": visibleIDs}},
			{"allocatedbyid": bson.M{"$in": visibleIDs}},
		}})
	}
	if len(clauses) > 0 {
		filter["$and"] = clauses
	}

	dateFilter := bson.M{}
	if startDate := c.Query("startDate"); startDate != "" {
		if startTime, err := time.Parse(time.RFC3339, startDate); err == nil {
			dateFilter["$gte"] = startTime
		}
	}
	if endDate := c.Query("endDate"); endDate != "" {
		if endTime, err := time.Parse(time.RFC3339, endDate); err == nil {
			dateFilter["$lte"] = endTime
		}
	}
	if len(dateFilter) > 0 {
		filter["createdat"] = dateFilter
	}

	page, limit := utils.ParsePagination(c)

	collection := repository.Collection(repository.CustomerAllocationsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdat": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	history := make([]models.CustomerAllocation, 0)
	if err := cursor.All(ctx, &history); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, history, total, page, limit)
}
