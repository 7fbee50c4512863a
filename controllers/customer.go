package controllers

import (
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

// quotaGuard 일일 등록 한도 가드. main에서 주입된다
var quotaGuard *service.QuotaGuard

// InitQuotaGuard 한도 가드 주입
func InitQuotaGuard(g *service.QuotaGuard) {
	quotaGuard = g
}

// GetCustomerList 고객 목록 조회. 조회 범위는 쿼리 단계에서 역할별로 제한된다
func GetCustomerList(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := service.LoadCaller(ctx, caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	scope, err := service.CustomerScope(ctx, user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filter := bson.M{"isdeleted": false}
	for k, v := range scope {
		filter[k] = v
	}

	if keyword := c.Query("keyword"); keyword != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"phone": bson.M{"$regex": utils.NormalizePhone(keyword)}},
		}
	}
	if grade := c.Query("grade"); grade != "" {
		filter["grade"] = grade
	}
	if source := c.Query("source"); source != "" {
		filter["source"] = source
	}
	if site := c.Query("assignedSite"); site != "" {
		filter["assignedsite"] = site
	}

	page, limit := utils.ParsePagination(c)

	collection := repository.Collection(repository.CustomersCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	findOptions := options.Find().
		SetSort(bson.M{"updatedat": -1}).
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

// CreateCustomer 고객 등록. 일일 등록 한도 가드를 통과해야 한다
func CreateCustomer(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.CustomerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 정보를 확인해 주세요: "+err.Error()))
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		utils.HandleError(c, utils.CreateValidationError("휴대전화 번호 형식이 올바르지 않습니다."))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.CustomersCollection)

	// 미삭제 고객 간 연락처 중복은 등록 단계에서 차단한다
	count, err := collection.CountDocuments(ctx, bson.M{"phone": phone, "isdeleted": false})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if count > 0 {
		utils.HandleError(c, utils.CreateConflictError("이미 등록된 연락처입니다."))
		return
	}

	now := time.Now()
	customer := models.Customer{
		Name:        req.Name,
		Phone:       phone,
		Grade:       req.Grade,
		Source:      req.Source,
		Email:       req.Email,
		Address:     req.Address,
		Memo:        req.Memo,
		CreatedByID: caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 관리자급이 등록한 고객은 관리 풀에 남고, 영업사원 등록 건은 본인 담당이 된다
	if !caller.UserRole().IsManager() {
		customer.AssignedUserID = caller.ID
		customer.AssignedUserName = caller.Name
		customer.AssignedAt = &now
		customer.AssignedSite = req.AssignedSite
	}

	result, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// 한도 집계와 등록을 같은 트랜잭션에서 수행해 동시 등록으로
		// 한도를 넘어서는 틈을 줄인다
		if err := quotaGuard.CheckCreation(sc, caller.ID, caller.UserRole()); err != nil {
			return nil, err
		}

		insertResult, err := collection.InsertOne(sc, customer)
		if err != nil {
			if repository.IsDuplicateKeyError(err) {
				return nil, utils.CreateConflictError("이미 등록된 연락처입니다.")
			}
			return nil, err
		}

		customerID := insertResult.InsertedID.(primitive.ObjectID)

		// 등록과 동시에 담당자가 정해지면 원장에도 남긴다
		if customer.AssignedUserID != "" {
			err = service.AppendAllocation(sc, models.CustomerAllocation{
				CustomerID:      customerID.Hex(),
				CustomerName:    customer.Name,
				ToUserID:        customer.AssignedUserID,
				ToUserName:      customer.AssignedUserName,
				AllocatedByID:   caller.ID,
				AllocatedByName: caller.Name,
				Reason:          "신규 등록",
			})
			if err != nil {
				return nil, err
			}
		}

		return customerID, nil
	})
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			utils.HandleError(c, err)
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	customer.ID = result.(primitive.ObjectID)

	service.RecordAudit(caller.ID, caller.Name, "create", "customer", customer.ID.Hex(),
		map[string]interface{}{"name": customer.Name, "phone": customer.Phone},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, customer, "고객이 등록되었습니다.", http.StatusCreated)
}

// GetCustomerDetail 고객 상세 조회
func GetCustomerDetail(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다."))
		return
	}

	ctx := c.Request.Context()
	user, err := service.LoadCaller(ctx, caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	scope, err := service.CustomerScope(ctx, user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filter := bson.M{"_id": objID, "isdeleted": false}
	for k, v := range scope {
		filter[k] = v
	}

	var customer models.Customer
	err = repository.Collection(repository.CustomersCollection).FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.SuccessResponse(c, customer, "")
}

// UpdateCustomer 고객 정보 수정
func UpdateCustomer(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다."))
		return
	}

	var req models.CustomerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 정보를 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.CustomersCollection)

	var customer models.Customer
	err = collection.FindOne(ctx, bson.M{"_id": objID, "isdeleted": false}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	// 담당자 본인이거나 관리자급만 수정할 수 있다
	if !caller.UserRole().IsManager() && customer.AssignedUserID != caller.ID {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	update := bson.M{"updatedat": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Phone != "" {
		phone := utils.NormalizePhone(req.Phone)
		if !utils.IsValidPhone(phone) {
			utils.HandleError(c, utils.CreateValidationError("휴대전화 번호 형식이 올바르지 않습니다."))
			return
		}
		update["phone"] = phone
	}
	if req.Grade != "" {
		update["grade"] = req.Grade
	}
	if req.Source != "" {
		update["source"] = req.Source
	}
	if req.AssignedSite != "" {
		update["assignedsite"] = req.AssignedSite
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Address != "" {
		update["address"] = req.Address
	}
	if req.Memo != "" {
		update["memo"] = req.Memo
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		if repository.IsDuplicateKeyError(err) {
			utils.HandleError(c, utils.CreateConflictError("이미 등록된 연락처입니다."))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "update", "customer", objID.Hex(), update,
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "고객 정보가 수정되었습니다.")
}

// DeleteCustomer 고객 소프트 삭제
func DeleteCustomer(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("고객 ID 형식이 올바르지 않습니다."))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.CustomersCollection)

	var customer models.Customer
	err = collection.FindOne(ctx, bson.M{"_id": objID, "isdeleted": false}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("고객"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if !caller.UserRole().IsManager() && customer.AssignedUserID != caller.ID {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"isdeleted": true,
		"updatedat": time.Now(),
	}})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "delete", "customer", objID.Hex(), nil,
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "고객이 삭제되었습니다.")
}

// CheckDuplicateCustomers 연락처 중복 확인.
// 중복은 경고로만 알려주고 자동으로 병합하지 않는다
func CheckDuplicateCustomers(c *gin.Context) {
	var req models.CheckDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("연락처 목록을 확인해 주세요: "+err.Error()))
		return
	}

	phones := make([]string, 0, len(req.Phones))
	for _, p := range req.Phones {
		if normalized := utils.NormalizePhone(p); normalized != "" {
			phones = append(phones, normalized)
		}
	}

	ctx := c.Request.Context()
	cursor, err := repository.Collection(repository.CustomersCollection).Find(ctx, bson.M{
		"phone":     bson.M{"$in": phones},
		"isdeleted": false,
	})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	var existing []models.Customer
	if err := cursor.All(ctx, &existing); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	duplicates := make([]models.DuplicateEntry, 0, len(existing))
	for _, customer := range existing {
		duplicates = append(duplicates, models.DuplicateEntry{
			Phone:            customer.Phone,
			CustomerID:       customer.ID.Hex(),
			CustomerName:     customer.Name,
			AssignedUserID:   customer.AssignedUserID,
			AssignedUserName: customer.AssignedUserName,
		})
	}

	utils.SuccessResponse(c, gin.H{"duplicates": duplicates}, "")
}
