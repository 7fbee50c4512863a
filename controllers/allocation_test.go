package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/utils"
)

func TestParseObjectIDs(t *testing.T) {
	valid := primitive.NewObjectID()
	other := primitive.NewObjectID()

	ids, err := parseObjectIDs([]string{valid.Hex(), other.Hex()})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, valid, ids[0])
	assert.Equal(t, other, ids[1])

	_, err = parseObjectIDs([]string{valid.Hex(), "not-an-id"})
	assert.Error(t, err)

	ids, err = parseObjectIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBuildAllocationEntries(t *testing.T) {
	caller := &utils.LoginUser{ID: "관리자ID", Name: "관리자", Role: "ADMIN"}
	now := time.Now()

	customers := []models.Customer{
		{ID: primitive.NewObjectID(), Name: "고객A", AssignedUserID: "직원1", AssignedUserName: "박직원"},
		{ID: primitive.NewObjectID(), Name: "고객B"},
		{ID: primitive.NewObjectID(), Name: "고객C", AssignedUserID: "직원2", AssignedUserName: "이직원"},
	}

	t.Run("고객마다 원장 레코드가 정확히 한 건", func(t *testing.T) {
		entries := buildAllocationEntries(customers, "직원3", "최직원", caller, "직접 배정", now)
		require.Len(t, entries, len(customers))

		for i, entry := range entries {
			assert.Equal(t, customers[i].ID.Hex(), entry.CustomerID)
			assert.Equal(t, customers[i].AssignedUserID, entry.FromUserID)
			assert.Equal(t, "직원3", entry.ToUserID)
			assert.Equal(t, caller.ID, entry.AllocatedByID)
			assert.Equal(t, now, entry.CreatedAt)
		}

		// 미배정 고객의 이전 보유자는 비어 있어야 한다
		assert.Empty(t, entries[1].FromUserID)
	})

	t.Run("회수는 대상이 비어 있는 레코드를 만든다", func(t *testing.T) {
		entries := buildAllocationEntries(customers, "", "", caller, "회수", now)
		require.Len(t, entries, len(customers))

		for _, entry := range entries {
			assert.Empty(t, entry.ToUserID)
			assert.Empty(t, entry.ToUserName)
		}
		assert.Equal(t, "직원1", entries[0].FromUserID)
	})
}
