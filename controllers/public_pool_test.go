package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIsQualifiedContact(t *testing.T) {
	t.Run("결과가 기록된 건은 CONNECTED만 인정", func(t *testing.T) {
		assert.True(t, isQualifiedContact(models.CallLog{
			Content: "통화 완료 - 관심 있음",
			Result:  models.CallResultCONNECTED,
		}))

		for _, result := range []models.CallResult{
			models.CallResultNO_ANSWER,
			models.CallResultBUSY,
			models.CallResultWRONG_NUMBER,
		} {
			assert.False(t, isQualifiedContact(models.CallLog{
				Content: "상담 내용",
				Result:  result,
			}), "%s는 실제 통화로 인정되지 않아야 한다", result)
		}
	})

	t.Run("결과 없는 과거 기록은 내용으로 판정", func(t *testing.T) {
		assert.True(t, isQualifiedContact(models.CallLog{Content: "통화 완료 - 관심 있음"}))
		assert.True(t, isQualifiedContact(models.CallLog{Content: "다음 주 재통화 약속"}))

		assert.False(t, isQualifiedContact(models.CallLog{Content: "부재중"}))
		assert.False(t, isQualifiedContact(models.CallLog{Content: "3회 연속 무응답"}))
		assert.False(t, isQualifiedContact(models.CallLog{Content: "결번 확인"}))
		assert.False(t, isQualifiedContact(models.CallLog{Content: ""}))
		assert.False(t, isQualifiedContact(models.CallLog{Content: "   "}))
	})
}

func TestTakeoverPublicCustomer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	claimer := &utils.LoginUser{ID: primitive.NewObjectID().Hex(), Name: "김영업", Role: "EMPLOYEE"}

	mt.Run("아직 공동 풀에 있으면 인수된다", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := takeoverPublicCustomer(context.Background(), mt.Coll, primitive.NewObjectID(), claimer, time.Now())
		require.NoError(mt, err)
	})

	mt.Run("경쟁에서 진 쪽은 409를 받는다", func(mt *mtest.T) {
		// 다른 직원이 먼저 커밋해 ispublic 조건이 깨진 상황
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := takeoverPublicCustomer(context.Background(), mt.Coll, primitive.NewObjectID(), claimer, time.Now())
		require.Error(mt, err)

		appErr, ok := err.(*utils.AppError)
		require.True(mt, ok)
		assert.Equal(mt, 409, appErr.StatusCode)
		assert.Equal(mt, "이미 다른 직원이 가져간 고객입니다.", appErr.Message)
	})
}
