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

// GetUsers 직원 목록 조회. 열람 범위는 호출자 역할에 따라 제한된다
func GetUsers(c *gin.Context) {
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

	filter := service.UserScope(me)

	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if keyword := c.Query("keyword"); keyword != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": keyword, "$options": "i"}},
			{"loginid": bson.M{"$regex": keyword, "$options": "i"}},
		}
	}

	page, limit := utils.ParsePagination(c)
	skip := (page - 1) * limit

	collection := repository.Collection(repository.UsersCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	findOptions := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "createdat", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, gin.H{"users": users}, total, page, limit)
}

// CreateUser 직원 계정 생성 (관리자 전용).
// 가입 승인 절차 없이 바로 활성 상태로 만든다
func CreateUser(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	if req.Role == models.UserRoleCEO {
		utils.HandleError(c, utils.CreateForbiddenError("대표 계정은 생성할 수 없습니다."))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.UsersCollection)

	count, err := collection.CountDocuments(ctx, bson.M{"loginid": req.LoginID})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if count > 0 {
		utils.HandleError(c, utils.CreateConflictError("이미 사용 중인 아이디입니다."))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	now := time.Now()
	user := models.User{
		LoginID:    req.LoginID,
		Password:   hashed,
		Name:       req.Name,
		Phone:      utils.NormalizePhone(req.Phone),
		Role:       req.Role,
		Team:       req.Team,
		Department: req.Department,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		if repository.IsDuplicateKeyError(err) {
			utils.HandleError(c, utils.CreateConflictError("이미 사용 중인 아이디입니다."))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	userID := result.InsertedID.(primitive.ObjectID).Hex()

	service.RecordAudit(caller.ID, caller.Name, "create", "user", userID,
		map[string]interface{}{"loginId": req.LoginID, "role": req.Role},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"userId": userID}, "직원 계정이 생성되었습니다.")
}

// ApproveUser 가입 승인. 대기(PENDING) 계정에 역할과 소속을 부여한다
func ApproveUser(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	userID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 직원 식별자입니다."))
		return
	}

	var req models.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	if req.Role == "" {
		req.Role = models.UserRoleEMPLOYEE
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.UsersCollection)

	// 대기 상태인 계정만 승인 대상이다
	update := bson.M{"$set": bson.M{
		"role":       req.Role,
		"team":       req.Team,
		"department": req.Department,
		"isactive":   true,
		"updatedat":  time.Now(),
	}}
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": objID, "role": models.UserRolePENDING}, update)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if result.MatchedCount == 0 {
		utils.HandleError(c, utils.CreateBusinessRuleError("승인 대기 중인 계정이 아닙니다."))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "approve", "user", userID,
		map[string]interface{}{"role": req.Role, "team": req.Team, "department": req.Department},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "가입이 승인되었습니다.")
}

// UpdateUser 직원 정보 수정. 대표 계정의 역할/상태는 바꿀 수 없다
func UpdateUser(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	userID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 직원 식별자입니다."))
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.UsersCollection)

	var target models.User
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("직원"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	set := bson.M{"updatedat": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		phone := utils.NormalizePhone(req.Phone)
		if !utils.IsValidPhone(phone) {
			utils.HandleError(c, utils.CreateValidationError("연락처 형식이 올바르지 않습니다."))
			return
		}
		set["phone"] = phone
	}
	if req.Team != "" {
		set["team"] = req.Team
	}
	if req.Department != "" {
		set["department"] = req.Department
	}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			utils.HandleError(c, utils.CreateInternalError(err))
			return
		}
		set["password"] = hashed
	}

	// 역할과 활성 상태 변경은 대표 계정을 건드릴 수 없다
	if req.Role != "" || req.IsActive != nil {
		if target.Role == models.UserRoleCEO {
			utils.HandleError(c, utils.CreateForbiddenError("대표 계정은 변경할 수 없습니다."))
			return
		}
		if req.Role == models.UserRoleCEO {
			utils.HandleError(c, utils.CreateForbiddenError("대표 역할은 부여할 수 없습니다."))
			return
		}
		if req.Role != "" {
			set["role"] = req.Role
		}
		if req.IsActive != nil {
			set["isactive"] = *req.IsActive
		}
	}

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set}); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "update", "user", userID, set,
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "직원 정보가 수정되었습니다.")
}

// DeleteUser 직원 계정 비활성화.
// 보유 중인 고객은 전부 처리자(관리자)에게 재배정되고 원장에 남는다.
// 이력(원장/감사/통화기록)은 절대 지우지 않는다
func DeleteUser(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	userID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 직원 식별자입니다."))
		return
	}

	if userID == caller.ID {
		utils.HandleError(c, utils.CreateBusinessRuleError("본인 계정은 삭제할 수 없습니다."))
		return
	}

	ctx := c.Request.Context()
	usersCollection := repository.Collection(repository.UsersCollection)

	var target models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("직원"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if target.Role == models.UserRoleCEO {
		utils.HandleError(c, utils.CreateForbiddenError("대표 계정은 삭제할 수 없습니다."))
		return
	}

	customersCollection := repository.Collection(repository.CustomersCollection)

	reassigned, err := repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()

		// 보유 고객을 먼저 조회해서 원장 기록을 만든다
		cursor, err := customersCollection.Find(sc,
			bson.M{"assigneduserid": userID, "isdeleted": false})
		if err != nil {
			return nil, err
		}
		var held []models.Customer
		if err := cursor.All(sc, &held); err != nil {
			return nil, err
		}

		if len(held) > 0 {
			entries := make([]models.CustomerAllocation, 0, len(held))
			for _, customer := range held {
				entries = append(entries, models.CustomerAllocation{
					CustomerID:      customer.ID.Hex(),
					CustomerName:    customer.Name,
					FromUserID:      userID,
					FromUserName:    target.Name,
					ToUserID:        caller.ID,
					ToUserName:      caller.Name,
					AllocatedByID:   caller.ID,
					AllocatedByName: caller.Name,
					Reason:          "퇴사 처리 재배정",
					CreatedAt:       now,
				})
			}
			if err := service.AppendAllocations(sc, entries); err != nil {
				return nil, err
			}

			_, err = customersCollection.UpdateMany(sc,
				bson.M{"assigneduserid": userID, "isdeleted": false},
				bson.M{"$set": bson.M{
					"assigneduserid":   caller.ID,
					"assignedusername": caller.Name,
					"assignedat":       now,
					"updatedat":        now,
				}})
			if err != nil {
				return nil, err
			}
		}

		_, err = usersCollection.UpdateOne(sc, bson.M{"_id": objID},
			bson.M{"$set": bson.M{"isactive": false, "updatedat": now}})
		if err != nil {
			return nil, err
		}

		return len(held), nil
	})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "deactivate", "user", userID,
		map[string]interface{}{"reassignedCustomers": reassigned},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"reassignedCustomers": reassigned}, "직원 계정이 비활성화되었습니다.")
}

// HardDeleteUser 직원 계정 완전 삭제.
// 원장/감사/통화 기록의 참조만 끊고 문서 자체는 남긴다
func HardDeleteUser(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	userID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 직원 식별자입니다."))
		return
	}

	if userID == caller.ID {
		utils.HandleError(c, utils.CreateBusinessRuleError("본인 계정은 삭제할 수 없습니다."))
		return
	}

	ctx := c.Request.Context()
	usersCollection := repository.Collection(repository.UsersCollection)

	var target models.User
	if err := usersCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateNotFoundError("직원"))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if target.Role == models.UserRoleCEO {
		utils.HandleError(c, utils.CreateForbiddenError("대표 계정은 삭제할 수 없습니다."))
		return
	}
	if target.IsActive {
		utils.HandleError(c, utils.CreateBusinessRuleError("활성 계정은 완전 삭제할 수 없습니다. 먼저 비활성화해 주세요."))
		return
	}

	// 보유 고객이 남아 있으면 삭제를 거부한다
	heldCount, err := repository.Collection(repository.CustomersCollection).CountDocuments(ctx,
		bson.M{"assigneduserid": userID, "isdeleted": false})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if heldCount > 0 {
		utils.HandleError(c, utils.CreateBusinessRuleError("보유 고객이 남아 있어 삭제할 수 없습니다."))
		return
	}

	_, err = repository.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := usersCollection.DeleteOne(sc, bson.M{"_id": objID}); err != nil {
			return nil, err
		}

		// 이력 문서는 남기되 사용자 참조만 끊는다
		allocations := repository.Collection(repository.CustomerAllocationsCollection)
		for _, field := range []string{"fromuserid", "touserid", "allocatedbyid"} {
			if _, err := allocations.UpdateMany(sc,
				bson.M{field: userID}, bson.M{"$set": bson.M{field: ""}}); err != nil {
				return nil, err
			}
		}
		if _, err := repository.Collection(repository.AuditLogsCollection).UpdateMany(sc,
			bson.M{"actorid": userID}, bson.M{"$set": bson.M{"actorid": ""}}); err != nil {
			return nil, err
		}
		if _, err := repository.Collection(repository.CallLogsCollection).UpdateMany(sc,
			bson.M{"userid": userID}, bson.M{"$set": bson.M{"userid": ""}}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "hard-delete", "user", userID,
		map[string]interface{}{"loginId": target.LoginID},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "직원 계정이 완전히 삭제되었습니다.")
}
