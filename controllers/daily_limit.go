package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"
)

// GetMyDailyLimit 내 오늘 고객 등록 한도 조회
func GetMyDailyLimit(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	status, err := quotaGuard.Status(c.Request.Context(), caller.ID, caller.UserRole())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"dailyLimit": status}, "")
}

// ApproveDailyLimit 일일 등록 한도 증액 승인 (관리자 전용).
// 승인 한 건마다 해당 날짜의 한도가 기본치만큼 늘어난다. 승인 철회는 없다
func ApproveDailyLimit(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.ApproveDailyLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	objID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("잘못된 직원 식별자입니다."))
		return
	}

	var target models.User
	if err := repository.Collection(repository.UsersCollection).FindOne(ctx,
		bson.M{"_id": objID, "isactive": true}).Decode(&target); err != nil {
		utils.HandleError(c, utils.CreateNotFoundError("직원"))
		return
	}

	now := quotaGuard.Clock.Now()
	date := req.Date
	if date == "" {
		date = service.DayKey(now)
	}

	approval := models.DailyLimitApproval{
		UserID:         req.UserID,
		Date:           date,
		ApprovedByID:   caller.ID,
		ApprovedByName: caller.Name,
		CreatedAt:      now,
	}
	if _, err := repository.Collection(repository.DailyLimitApprovalsCollection).InsertOne(ctx, approval); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	status, err := quotaGuard.Status(ctx, req.UserID, target.Role)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "approve", "daily-limit", req.UserID,
		map[string]interface{}{"date": date},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, gin.H{"dailyLimit": status}, "등록 한도가 증액되었습니다.")
}

// GetDailyLimitApprovals 한도 증액 승인 이력 조회 (관리자 전용)
func GetDailyLimitApprovals(c *gin.Context) {
	ctx := c.Request.Context()

	filter := bson.M{}
	if userID := c.Query("userId"); userID != "" {
		filter["userid"] = userID
	}
	if date := c.Query("date"); date != "" {
		filter["date"] = date
	}

	page, limit := utils.ParsePagination(c)
	skip := (page - 1) * limit

	collection := repository.Collection(repository.DailyLimitApprovalsCollection)

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

	approvals := make([]models.DailyLimitApproval, 0)
	if err := cursor.All(ctx, &approvals); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.PaginatedResponse(c, gin.H{"approvals": approvals}, total, page, limit)
}
