package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRankOrdering(t *testing.T) {
	ordered := []UserRole{
		UserRolePENDING,
		UserRoleEMPLOYEE,
		UserRoleTEAM_LEADER,
		UserRoleHEAD,
		UserRoleADMIN,
		UserRoleCEO,
	}

	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(),
			"%s는 %s보다 상위여야 한다", ordered[i], ordered[i-1])
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, UserRoleADMIN.AtLeast(UserRoleTEAM_LEADER))
	assert.True(t, UserRoleCEO.AtLeast(UserRoleCEO))
	assert.False(t, UserRoleEMPLOYEE.AtLeast(UserRoleTEAM_LEADER))

	// 알 수 없는 역할은 어떤 비교에서도 통과하지 않는다
	assert.False(t, UserRole("INTERN").AtLeast(UserRolePENDING))
}

func TestIsManager(t *testing.T) {
	assert.True(t, UserRoleADMIN.IsManager())
	assert.True(t, UserRoleCEO.IsManager())
	assert.False(t, UserRoleHEAD.IsManager())
	assert.False(t, UserRoleTEAM_LEADER.IsManager())
	assert.False(t, UserRoleEMPLOYEE.IsManager())
	assert.False(t, UserRolePENDING.IsManager())
}
