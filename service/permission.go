package service

import (
	"context"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 권한 리소스/액션 식별자
const (
	ResourceCustomers        = "customers"
	ResourceUsers            = "users"
	ResourceTransferRequests = "transfer-requests"
	ResourcePermissions      = "permissions"
	ResourceAuditLogs        = "audit-logs"
	ResourceDailyLimit       = "daily-limit"

	ActionRead      = "read"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionAllocate  = "allocate"
	ActionReclaim   = "reclaim"
	ActionPublicize = "mark-public"
	ActionApprove   = "approve"
)

// fallbackRoles 권한 테이블이 비어 있거나 조회에 실패했을 때 쓰는 보수적 기본 규칙.
// 의도된 규칙보다 넓어지면 안 된다.
var fallbackRoles = map[string][]models.UserRole{
	ResourceCustomers + ":" + ActionAllocate:  {models.UserRoleADMIN, models.UserRoleCEO, models.UserRoleHEAD, models.UserRoleTEAM_LEADER},
	ResourceCustomers + ":" + ActionReclaim:   {models.UserRoleADMIN, models.UserRoleCEO},
	ResourceCustomers + ":" + ActionPublicize: {models.UserRoleADMIN, models.UserRoleCEO},
	ResourceTransferRequests + ":" + ActionApprove: {
		models.UserRoleADMIN, models.UserRoleCEO, models.UserRoleHEAD,
	},
	ResourceDailyLimit + ":" + ActionApprove: {models.UserRoleADMIN, models.UserRoleCEO},
}

// Evaluate 권한 평가.
// PENDING은 테이블 내용과 무관하게 무조건 거부한다.
// 정확히 일치하는 (역할, 리소스, 액션) 행이 있으면 그 값을 따르고,
// 행이 없거나 조회가 실패하면 하드코딩된 역할 서열 규칙으로 보수적으로 판단한다.
func Evaluate(ctx context.Context, role models.UserRole, resource string, action string) bool {
	if role == models.UserRolePENDING {
		return false
	}

	collection := repository.Collection(repository.PermissionsCollection)

	var perm models.Permission
	err := collection.FindOne(ctx, bson.M{
		"role":     role,
		"resource": resource,
		"action":   action,
	}).Decode(&perm)

	if err == nil {
		return perm.IsAllowed
	}

	if err != mongo.ErrNoDocuments {
		utils.LogError(err, map[string]interface{}{
			"role":     role,
			"resource": resource,
			"action":   action,
		}, "권한 테이블 조회 실패, 기본 규칙으로 판단")
	}

	return fallbackAllowed(role, resource, action)
}

// fallbackAllowed 역할 서열 기반 기본 규칙
func fallbackAllowed(role models.UserRole, resource string, action string) bool {
	if roles, ok := fallbackRoles[resource+":"+action]; ok {
		for _, r := range roles {
			if r == role {
				return true
			}
		}
		return false
	}

	// 명시 규칙이 없는 작업은 관리자급만 허용
	return role.IsManager()
}
