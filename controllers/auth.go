package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"
)

// Login 로그인 처리
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("로그인 정보를 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	collection := repository.Collection(repository.UsersCollection)

	var user models.User
	err := collection.FindOne(ctx, bson.M{"loginid": req.LoginID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.HandleError(c, utils.CreateValidationError("아이디 또는 비밀번호가 올바르지 않습니다."))
			return
		}
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.HandleError(c, utils.CreateValidationError("아이디 또는 비밀번호가 올바르지 않습니다."))
		return
	}

	if !user.IsActive {
		utils.HandleError(c, utils.CreateForbiddenError())
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"userId": user.ID.Hex(),
		"role":   user.Role,
	}, "로그인 성공")

	service.RecordAudit(user.ID.Hex(), user.Name, "login", "user", user.ID.Hex(), nil,
		c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": models.LoginResponse{
			Token: token,
			User:  user,
		},
	})
}

// Register 직원 가입 신청. 승인 전까지 PENDING 역할로 묶인다
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("가입 정보를 확인해 주세요: "+err.Error()))
		return
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		utils.HandleError(c, utils.CreateValidationError("휴대전화 번호 형식이 올바르지 않습니다."))
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
		LoginID:   req.LoginID,
		Password:  hashed,
		Name:      req.Name,
		Phone:     phone,
		Role:      models.UserRolePENDING,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	user.ID = result.InsertedID.(primitive.ObjectID)

	utils.LogInfo(map[string]interface{}{
		"userId":  user.ID.Hex(),
		"loginId": user.LoginID,
	}, "가입 신청 접수")

	utils.SuccessResponse(c, user, "가입 신청이 접수되었습니다. 관리자 승인 후 이용할 수 있습니다.", http.StatusCreated)
}

// GetProfile 내 정보 조회 (토큰 검증 겸용)
func GetProfile(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	user, err := service.LoadCaller(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user, "")
}
