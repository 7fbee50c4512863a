package service

import (
	"context"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadCaller 세션 호출자의 전체 계정 행 조회 (팀/본부 정보 포함)
func LoadCaller(ctx context.Context, caller *utils.LoginUser) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(caller.ID)
	if err != nil {
		return nil, utils.CreateUnauthorizedError()
	}

	var user models.User
	err = repository.Collection(repository.UsersCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateUnauthorizedError()
		}
		return nil, utils.CreateInternalError(err)
	}

	return &user, nil
}

// CustomerScope 호출자가 조회할 수 있는 고객 행 필터.
// 페이지네이션이 올바르게 동작하도록 쿼리 단계에서 적용해야 한다.
func CustomerScope(ctx context.Context, user *models.User) (bson.M, error) {
	switch user.Role {
	case models.UserRoleADMIN, models.UserRoleCEO:
		return bson.M{}, nil

	case models.UserRoleHEAD:
		ids, err := memberIDs(ctx, bson.M{"department": user.Department, "isactive": true})
		if err != nil {
			return nil, err
		}
		return bson.M{"assigneduserid": bson.M{"$in": ids}}, nil

	case models.UserRoleTEAM_LEADER:
		ids, err := memberIDs(ctx, bson.M{"team": user.Team, "isactive": true})
		if err != nil {
			return nil, err
		}
		return bson.M{"assigneduserid": bson.M{"$in": ids}}, nil

	default:
		// 일반 직원은 본인 담당 고객만
		return bson.M{"assigneduserid": user.ID.Hex()}, nil
	}
}

// UserScope 호출자가 조회할 수 있는 직원 행 필터
func UserScope(user *models.User) bson.M {
	switch user.Role {
	case models.UserRoleADMIN, models.UserRoleCEO:
		return bson.M{}
	case models.UserRoleHEAD:
		return bson.M{"department": user.Department}
	case models.UserRoleTEAM_LEADER:
		return bson.M{"team": user.Team}
	default:
		return bson.M{"_id": user.ID}
	}
}

// VisibleUserIDs 호출자의 열람 범위 안에 있는 직원 ID 목록.
// 전체 범위(ADMIN/CEO)는 nil을 반환한다. 이력 조회에 쓰이므로
// 퇴사 처리된 직원도 같은 부서/팀이면 포함한다.
func VisibleUserIDs(ctx context.Context, user *models.User) ([]string, error) {
	switch user.Role {
	case models.UserRoleADMIN, models.UserRoleCEO:
		return nil, nil
	case models.UserRoleHEAD:
		return memberIDs(ctx, bson.M{"department": user.Department})
	case models.UserRoleTEAM_LEADER:
		return memberIDs(ctx, bson.M{"team": user.Team})
	default:
		return []string{user.ID.Hex()}, nil
	}
}

// memberIDs 조건에 맞는 직원 ID 목록 조회
func memberIDs(ctx context.Context, filter bson.M) ([]string, error) {
	cursor, err := repository.Collection(repository.UsersCollection).Find(
		ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, utils.CreateInternalError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, utils.CreateInternalError(err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.Hex())
	}
	return ids, nil
}
