package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVisibleCustomerFilter(t *testing.T) {
	objID := primitive.NewObjectID()

	t.Run("전체 범위는 존재 조건만 건다", func(t *testing.T) {
		filter := visibleCustomerFilter(objID, bson.M{})
		assert.Equal(t, bson.M{"_id": objID, "isdeleted": false}, filter)
	})

	t.Run("제한 범위에서도 공동 풀 고객은 보인다", func(t *testing.T) {
		scope := bson.M{"assigneduserid": "직원아이디"}
		filter := visibleCustomerFilter(objID, scope)

		assert.Equal(t, objID, filter["_id"])
		assert.Equal(t, false, filter["isdeleted"])

		or, ok := filter["$or"].([]bson.M)
		require.True(t, ok, "범위 조건과 공동 풀 조건이 $or로 묶여야 한다")
		require.Len(t, or, 2)
		assert.Equal(t, scope, or[0])
		assert.Equal(t, bson.M{"ispublic": true}, or[1])
	})
}
