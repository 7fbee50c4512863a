package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"
)

// ListPermissions 권한 규칙 목록 조회 (관리자 전용)
func ListPermissions(c *gin.Context) {
	ctx := c.Request.Context()

	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	if resource := c.Query("resource"); resource != "" {
		filter["resource"] = resource
	}

	cursor, err := repository.Collection(repository.PermissionsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{
			{Key: "resource", Value: 1},
			{Key: "action", Value: 1},
			{Key: "role", Value: 1},
		}))
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	defer cursor.Close(ctx)

	permissions := make([]models.Permission, 0)
	if err := cursor.All(ctx, &permissions); err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	utils.SuccessResponse(c, gin.H{"permissions": permissions}, "")
}

// UpsertPermission 권한 규칙 등록/수정 (관리자 전용).
// (역할, 자원, 동작) 조합당 한 건만 존재한다
func UpsertPermission(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.UpsertPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateValidationError("입력값을 확인해 주세요: "+err.Error()))
		return
	}

	ctx := c.Request.Context()

	filter := bson.M{
		"role":     req.Role,
		"resource": req.Resource,
		"action":   req.Action,
	}
	update := bson.M{
		"$set": bson.M{
			"isallowed": *req.IsAllowed,
			"updatedat": time.Now(),
		},
		"$setOnInsert": bson.M{
			"createdat": time.Now(),
		},
	}

	_, err = repository.Collection(repository.PermissionsCollection).UpdateOne(ctx,
		filter, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "upsert", "permission",
		string(req.Role)+":"+req.Resource+":"+req.Action,
		map[string]interface{}{"isAllowed": *req.IsAllowed},
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "권한 규칙이 저장되었습니다.")
}

// DeletePermission 권한 규칙 삭제 (관리자 전용).
// 규칙이 사라지면 해당 조합은 기본 정책으로 돌아간다
func DeletePermission(c *gin.Context) {
	caller, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	role := c.Query("role")
	resource := c.Query("resource")
	action := c.Query("action")
	if role == "" || resource == "" || action == "" {
		utils.HandleError(c, utils.CreateValidationError("role, resource, action을 모두 지정해 주세요."))
		return
	}

	result, err := repository.Collection(repository.PermissionsCollection).DeleteOne(
		c.Request.Context(), bson.M{"role": role, "resource": resource, "action": action})
	if err != nil {
		utils.HandleError(c, utils.CreateInternalError(err))
		return
	}
	if result.DeletedCount == 0 {
		utils.HandleError(c, utils.CreateNotFoundError("권한 규칙"))
		return
	}

	service.RecordAudit(caller.ID, caller.Name, "delete", "permission",
		role+":"+resource+":"+action, nil,
		c.ClientIP(), c.Request.UserAgent())

	utils.SuccessResponse(c, nil, "권한 규칙이 삭제되었습니다.")
}
