package service

import (
	"context"
	"testing"

	"github.com/hangilict/estate_crm_end/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserScope(t *testing.T) {
	selfID := primitive.NewObjectID()

	t.Run("관리자급은 전체 조회", func(t *testing.T) {
		for _, role := range []models.UserRole{models.UserRoleADMIN, models.UserRoleCEO} {
			user := &models.User{ID: selfID, Role: role}
			assert.Equal(t, bson.M{}, UserScope(user))
		}
	})

	t.Run("본부장은 본부 단위", func(t *testing.T) {
		user := &models.User{ID: selfID, Role: models.UserRoleHEAD, Department: "분양1본부"}
		assert.Equal(t, bson.M{"department": "분양1본부"}, UserScope(user))
	})

	t.Run("팀장은 팀 단위", func(t *testing.T) {
		user := &models.User{ID: selfID, Role: models.UserRoleTEAM_LEADER, Team: "1팀"}
		assert.Equal(t, bson.M{"team": "1팀"}, UserScope(user))
	})

	t.Run("일반 직원은 본인만", func(t *testing.T) {
		user := &models.User{ID: selfID, Role: models.UserRoleEMPLOYEE}
		assert.Equal(t, bson.M{"_id": selfID}, UserScope(user))
	})
}

func TestVisibleUserIDs(t *testing.T) {
	selfID := primitive.NewObjectID()

	t.Run("관리자급은 제한 없음", func(t *testing.T) {
		for _, role := range []models.UserRole{models.UserRoleADMIN, models.UserRoleCEO} {
			user := &models.User{ID: selfID, Role: role}
			ids, err := VisibleUserIDs(context.Background(), user)
			assert.NoError(t, err)
			assert.Nil(t, ids)
		}
	})

	t.Run("일반 직원은 본인 ID만", func(t *testing.T) {
		user := &models.User{ID: selfID, Role: models.UserRoleEMPLOYEE}
		ids, err := VisibleUserIDs(context.Background(), user)
		assert.NoError(t, err)
		assert.Equal(t, []string{selfID.Hex()}, ids)
	})
}
