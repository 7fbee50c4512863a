package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/utils"
)

func TestInsertPendingTransfer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	request := models.TransferRequest{
		CustomerID: primitive.NewObjectID().Hex(),
		FromUserID: "직원A",
		ToUserID:   "직원B",
		Status:     models.TransferStatusPENDING,
		CreatedAt:  time.Now(),
	}

	mt.Run("정상 저장 시 ID가 채워진다", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := request
		err := insertPendingTransfer(context.Background(), mt.Coll, &req)
		require.NoError(mt, err)
		assert.False(mt, req.ID.IsZero())
	})

	mt.Run("유니크 인덱스 충돌은 중복 요청 409로 보고한다", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		req := request
		err := insertPendingTransfer(context.Background(), mt.Coll, &req)
		require.Error(mt, err)

		appErr, ok := err.(*utils.AppError)
		require.True(mt, ok)
		assert.Equal(mt, 409, appErr.StatusCode)
		assert.Equal(mt, "진행 중인 변경 요청이 있습니다.", appErr.Message)
	})
}

func TestResolveTransferStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	set := bson.M{
		"status":    models.TransferStatusAPPROVED,
		"updatedat": time.Now(),
	}

	mt.Run("PENDING 요청은 전이된다", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := resolveTransferStatus(context.Background(), mt.Coll, primitive.NewObjectID(), set)
		require.NoError(mt, err)
	})

	mt.Run("이미 처리된 요청은 409로 끝난다", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := resolveTransferStatus(context.Background(), mt.Coll, primitive.NewObjectID(), set)
		require.Error(mt, err)

		appErr, ok := err.(*utils.AppError)
		require.True(mt, ok)
		assert.Equal(mt, 409, appErr.StatusCode)
		assert.Equal(mt, "이미 처리된 요청입니다.", appErr.Message)
	})
}
