package controllers

import (
	"context"
	"net/http"
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

// insertPendingTransfer 변경 요청 저장.
// 사전 확인을 통과해도 부분 유니크 인덱스가 경쟁 삽입을 막으며,
// 그 충돌은 중복 요청으로 보고한다
func insertPendingTransfer(ctx context.Context, collection *mongo.Collection, request *models.TransferRequest) error {
	result, err := collection.InsertOne(ctx, *request)
	if err != nil {
		if repository.IsDuplicateKeyError(err) {
			return utils.CreateConflictError("진행 중인 변경 요청이 있습니다.")
		}
		return err
	}

	request.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// resolveTransferStatus PENDING 상태를 조건으로 건 상태 전이.
// 동시에 처리를 시도하면 한 쪽만 성공하고 나머지는 충돌로 끝난다
func resolveTransferStatus(ctx context.Context, collection *mongo.Collection,
	requestID primitive.ObjectID, set bson.M) error {

	updateResult, err := collection.UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.TransferStatusPENDING},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}

	if updateResult.ModifiedCount == 0 {
		return utils.CreateConflictError("이미 처리된 요청입니다.")
	}
	return nil
}

// CreateTransferRequestHandler 담당자 변경 요청 생성.
// 고객당 PENDING 요청은 한 건만 허용한다. 사전 확인에 더해
// 부분 유니크 인덱스가 경쟁 삽입을 막는다.
func CreateTransferRequestHandler(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if caller.UserRole() == models.UserRolePENDING {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	var req models.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("변경 요청 내용을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	customerObjID, err := primitive.ObjectIDFromHex(req.CustomerID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다."))
		return
	}

	var customer models.Customer
	err = repository.Collection(repository.CustomersCollection).
		FindOne(ctx, bson.M{"_id": customerObjID, "isdeleted": false}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if customer.AssignedUserID == "" {
		utils.HandleError(c, utils.CreateBusinessRuleError("담당자가 없는 고객은 변경 요청 대상이 아닙니다."))
		return
	}

	if customer.AssignedUserID == req.ToUserID {
		utils.HandleError(c, utils.CreateBusinessRuleError("이미 해당 직원이 담당하고 있는 고객입니다."))
		return
	}

	targetObjID, err := primitive.ObjectIDFromHex(req.ToUserID)
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
		utils.HandleError(c, utils.CreateBusinessRuleError("비활성 직원에게는 이관할 수 없습니다."))
		return
	}

	collection := repository.Collection(repository.TransferRequestsCollection)

	// 사전 확인. 최종 방어선은 부분 유니크 인덱스다
	pendingCount, err := collection.CountDocuments(ctx, bson.M{
		"customerid": req.CustomerID,
		"status":     models.TransferStatusPENDING,
	})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if pendingCount > 0 {
		utils.HandleError(c, utils.CreateConflictError("진행 중인 변경 요청이 있습니다."))
		return
	}

	now := time.Now()
	request := models.TransferRequest{
		CustomerID:      req.CustomerID,
		CustomerName:    customer.Name,
		FromUserID:      customer.AssignedUserID,
		FromUserName:    customer.AssignedUserName,
		ToUserID:        req.ToUserID,
		ToUserName:      target.Name,
		RequestedByID:   caller.ID,
		RequestedByName: caller.Name,
		Reason:          req.Reason,
		Status:          models.TransferStatusPENDING,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := insertPendingTransfer(ctx, collection, &request); err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "create", "transfer-request", request.ID.Hex(),
		map[string]interface{}{"customerId": req.CustomerID, "toUserId": req.ToUserID},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, request, "변경 요청이 등록되었습니다.", http.StatusCreated)
}

// ApproveTransferRequest 변경 요청 승인.
// 상태 전이와 고객 담당자 변경, 원장 기록이 한 트랜잭션으로 묶인다.
// 이미 처리된 요청은 다시 처리할 수 없다.
func ApproveTransferRequest(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	requestObjID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("요청 ID 형식이 올바르지 않습니다."))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.TransferRequestsCollection)

	var request models.TransferRequest
	err = collection.FindOne(ctx, bson.M{"_id": requestObjID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("변경 요청"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if request.Status.IsResolved() {
		utils.HandleError(c, utils.CreateConflictError("이미 처리된 요청입니다."))
		return
	}

	customerObjID, err := primitive.ObjectIDFromHex(request.CustomerID)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	_, err = repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		if err := resolveTransferStatus(sc, collection, requestObjID, bson.M{
			"status":       models.TransferStatusAPPROVED,
			"approvedbyid": caller.ID,
			"approvedat":   now,
			"updatedat":    now,
		}); err != nil {
			return nil, err
		}

		customersCollection := repository.Collection(repository.CustomersCollection)

		var customer models.Customer
		err = customersCollection.FindOne(sc, bson.M{"_id": customerObjID, "isdeleted": false}).Decode(&customer)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, utils.CreateNotFoundError("고객")
			}
			return nil, err
		}

		if _, err := customersCollection.UpdateOne(sc,
			bson.M{"_id": customerObjID},
			bson.M{"$set": bson.M{
				"assigneduserid":   request.ToUserID,
				"assignedusername": request.ToUserName,
				"assignedat":       now,
				"ispublic":         false,
				"updatedat":        now,
			}},
		); err != nil {
			return nil, err
		}

		// 승인된 요청 자체가 근거 기록이지만, 다른 모든 보유자 변경 경로와
		// 감사 수준을 맞추기 위해 원장에도 같이 남긴다
		err = service.AppendAllocation(sc, models.CustomerAllocation{
			CustomerID:      request.CustomerID,
			CustomerName:    request.CustomerName,
			FromUserID:      customer.AssignedUserID,
			FromUserName:    customer.AssignedUserName,
			ToUserID:        request.ToUserID,
			ToUserName:      request.ToUserName,
			AllocatedByID:   caller.ID,
			AllocatedByName: caller.Name,
			Reason:          "변경 요청 승인: " + request.Reason,
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

	service.RecordAudit(caller.ID, caller.Name, "approve", "transfer-request", requestObjID.Hex(),
		map[string]interface{}{"customerId": request.CustomerID, "toUserId": request.ToUserID},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "변경 요청이 승인되었습니다.")
}

// RejectTransferRequest 변경 요청 반려. 반려 사유는 필수이며 담당자는 바뀌지 않는다
func RejectTransferRequest(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	requestObjID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("요청 ID 형식이 올바르지 않습니다."))
		return
	}

	var req models.RejectTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("반려 사유를 입력해 주세요."))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.TransferRequestsCollection)

	var request models.TransferRequest
	err = collection.FindOne(ctx, bson.M{"_id": requestObjID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("변경 요청"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if request.Status.IsResolved() {
		utils.HandleError(c, utils.CreateConflictError("이미 처리된 요청입니다."))
		return
	}

	now := time.Now()
	if err := resolveTransferStatus(ctx, collection, requestObjID, bson.M{
		"status":         models.TransferStatusREJECTED,
		"approvedbyid":   caller.ID,
		"rejectedreason": req.Reason,
		"updatedat":      now,
	}); err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "reject", "transfer-request", requestObjID.Hex(),
		map[string]interface{}{"reason": req.Reason},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "변경 요청이 반려되었습니다.")
}

// GetTransferRequests 변경 요청 목록 조회.
// 관리자급/본부장은 전체, 그 외에는 본인이 당사자인 요청만 보인다
func GetTransferRequests(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filter := bson.M{}

	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if customerID := c.Query("customerId"); customerID != "" {
		filter["customerid"] = customerID
	}

	role := caller.UserRole()
	if !role.IsManager() && role != models.UserRoleHEAD {
		filter["$or"] = []bson.M{
			{"requestedbyid": caller.ID},
			{"fromuserid": caller.ID},
			{"touserid": caller.ID},
		}
	}

	page, limit := utils.ParsePagination(c)

	ctx := c.Request.Context()
	collection := repository.Collection(repository.TransferRequestsCollection)

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

	requests := make([]models.TransferRequest, 0)
	if err := cursor.All(ctx, &requests); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, requests, total, page, limit)
}
