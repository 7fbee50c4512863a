package service

import (
	"testing"

	"github.com/hangilict/estate_crm_end/models"

	"github.com/stretchr/testify/assert"
)

func TestFallbackAllowed(t *testing.T) {
	t.Run("배정은 팀장 이상", func(t *testing.T) {
		assert.True(t, fallbackAllowed(models.UserRoleTEAM_LEADER, ResourceCustomers, ActionAllocate))
		assert.True(t, fallbackAllowed(models.UserRoleHEAD, ResourceCustomers, ActionAllocate))
		assert.True(t, fallbackAllowed(models.UserRoleADMIN, ResourceCustomers, ActionAllocate))
		assert.False(t, fallbackAllowed(models.UserRoleEMPLOYEE, ResourceCustomers, ActionAllocate))
	})

	t.Run("회수와 공동 풀 전환은 관리자 전용", func(t *testing.T) {
		for _, action := range []string{ActionReclaim, ActionPublicize} {
			assert.True(t, fallbackAllowed(models.UserRoleADMIN, ResourceCustomers, action))
			assert.True(t, fallbackAllowed(models.UserRoleCEO, ResourceCustomers, action))
			assert.False(t, fallbackAllowed(models.UserRoleHEAD, ResourceCustomers, action))
			assert.False(t, fallbackAllowed(models.UserRoleTEAM_LEADER, ResourceCustomers, action))
		}
	})

	t.Run("이관 승인은 본부장 이상", func(t *testing.T) {
		assert.True(t, fallbackAllowed(models.UserRoleHEAD, ResourceTransferRequests, ActionApprove))
		assert.False(t, fallbackAllowed(models.UserRoleTEAM_LEADER, ResourceTransferRequests, ActionApprove))
	})

	t.Run("명시 규칙 없는 작업은 관리자만", func(t *testing.T) {
		assert.True(t, fallbackAllowed(models.UserRoleADMIN, ResourcePermissions, ActionUpdate))
		assert.False(t, fallbackAllowed(models.UserRoleHEAD, ResourcePermissions, ActionUpdate))
		assert.False(t, fallbackAllowed(models.UserRoleEMPLOYEE, "unknown", "unknown"))
	})

	t.Run("한도 증액 승인은 관리자 전용", func(t *testing.T) {
		assert.True(t, fallbackAllowed(models.UserRoleCEO, ResourceDailyLimit, ActionApprove))
		assert.False(t, fallbackAllowed(models.UserRoleHEAD, ResourceDailyLimit, ActionApprove))
	})
}
