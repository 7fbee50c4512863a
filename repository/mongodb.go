package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// 컬렉션 이름
	UsersCollection               = "users"
	CustomersCollection           = "customers"
	CustomerAllocationsCollection = "customerAllocations"
	TransferRequestsCollection    = "transferRequests"
	DailyLimitApprovalsCollection = "dailyLimitApprovals"
	PermissionsCollection         = "permissions"
	AuditLogsCollection           = "auditLogs"
	CallLogsCollection            = "callLogs"
	ApiOperationLogsCollection    = "apiOperationLogs"
)

var (
	client *mongo.Client
	db     *mongo.Database
	ctx    = context.Background()
)

// InitMongoDB MongoDB 연결 초기화
func InitMongoDB(uri, dbName string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	clientOptions := options.Client().ApplyURI(uri)
	client, err = mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("MongoDB 연결 실패: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDB ping 실패: %w", err)
	}

	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("MongoDB 연결 완료")

	return nil
}

// CloseMongoDB MongoDB 연결 종료
func CloseMongoDB() {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("MongoDB 연결 해제 실패")
			return
		}
		utils.Logger.Info().Msg("MongoDB 연결 해제 완료")
	}
}

// GetDB 데이터베이스 핸들 반환
func GetDB() *mongo.Database {
	return db
}

// GetContext 기본 컨텍스트 반환
func GetContext() context.Context {
	return ctx
}

// Collection 이름으로 컬렉션 반환
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// WithTransaction 멀티 스테이트먼트 트랜잭션 실행.
// fn 안의 모든 쓰기는 전부 커밋되거나 전부 롤백된다.
func WithTransaction(parent context.Context, fn func(sc mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	session, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("세션 시작 실패: %w", err)
	}
	defer session.EndSession(parent)

	txnOptions := options.Transaction().SetReadPreference(readpref.Primary())
	return session.WithTransaction(parent, fn, txnOptions)
}

// EnsureIndexes 불변식을 지키는 인덱스 생성.
//   - 미삭제 고객 간 연락처 유일성 (부분 유니크)
//   - 고객당 PENDING 이관 요청 최대 1건 (부분 유니크)
func EnsureIndexes() error {
	customerIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isdeleted": false}),
	}
	if _, err := db.Collection(CustomersCollection).Indexes().CreateOne(ctx, customerIdx); err != nil {
		return fmt.Errorf("고객 연락처 인덱스 생성 실패: %w", err)
	}

	transferIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "customerid", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(models.TransferStatusPENDING)}),
	}
	if _, err := db.Collection(TransferRequestsCollection).Indexes().CreateOne(ctx, transferIdx); err != nil {
		return fmt.Errorf("이관 요청 인덱스 생성 실패: %w", err)
	}

	allocationIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "customerid", Value: 1}, {Key: "createdat", Value: -1}},
	}
	if _, err := db.Collection(CustomerAllocationsCollection).Indexes().CreateOne(ctx, allocationIdx); err != nil {
		return fmt.Errorf("배정 이력 인덱스 생성 실패: %w", err)
	}

	approvalIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "userid", Value: 1}, {Key: "date", Value: 1}},
	}
	if _, err := db.Collection(DailyLimitApprovalsCollection).Indexes().CreateOne(ctx, approvalIdx); err != nil {
		return fmt.Errorf("한도 승인 인덱스 생성 실패: %w", err)
	}

	permissionIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}, {Key: "resource", Value: 1}, {Key: "action", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(PermissionsCollection).Indexes().CreateOne(ctx, permissionIdx); err != nil {
		return fmt.Errorf("권한 인덱스 생성 실패: %w", err)
	}

	callLogIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "customerid", Value: 1}, {Key: "userid", Value: 1}},
	}
	if _, err := db.Collection(CallLogsCollection).Indexes().CreateOne(ctx, callLogIdx); err != nil {
		return fmt.Errorf("통화 기록 인덱스 생성 실패: %w", err)
	}

	utils.Logger.Info().Msg("인덱스 생성 완료")
	return nil
}

// IsDuplicateKeyError 유니크 인덱스 충돌 여부
func IsDuplicateKeyError(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// InitializeAdminAccount 기본 관리자 계정 생성
func InitializeAdminAccount() error {
	usersCollection := db.Collection(UsersCollection)

	count, err := usersCollection.CountDocuments(ctx, bson.M{"role": models.UserRoleADMIN})
	if err != nil {
		return fmt.Errorf("관리자 계정 확인 실패: %w", err)
	}

	if count > 0 {
		utils.Logger.Info().Msg("관리자 계정이 이미 존재합니다")
		return nil
	}

	hashed, err := utils.HashPassword("admin123!")
	if err != nil {
		return fmt.Errorf("관리자 비밀번호 해시 실패: %w", err)
	}

	now := time.Now()
	adminUser := models.User{
		LoginID:   "admin",
		Password:  hashed,
		Name:      "관리자",
		Phone:     "01000000000",
		Role:      models.UserRoleADMIN,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := usersCollection.InsertOne(ctx, adminUser); err != nil {
		return fmt.Errorf("관리자 계정 생성 실패: %w", err)
	}

	utils.Logger.Info().Msg("기본 관리자 계정 생성 완료")
	return nil
}

// ExecuteDbOperation DB 작업 실행. 재시도 가능한 에러는 재시도한다
func ExecuteDbOperation(operation func() (interface{}, error), retries int) (interface{}, error) {
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation()
		if err == nil {
			return result, nil
		}

		lastErr = err
		utils.Logger.Error().Err(err).Msgf("DB 작업 실패, 재시도 (%d/%d)", i+1, retries)

		if !isRetryableError(err) {
			break
		}

		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	return nil, lastErr
}

// isRetryableError 재시도 가능한 에러 여부
func isRetryableError(err error) bool {
	retryableCodes := map[int]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
	}

	if cmdErr, ok := err.(mongo.CommandError); ok {
		return retryableCodes[int(cmdErr.Code)]
	}

	return isNetworkError(err)
}

// isNetworkError 네트워크성 에러 여부
func isNetworkError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"timeout",
		"context deadline exceeded",
		"server selection error",
	}

	for _, ne := range networkErrors {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}

	return false
}

// GetDatabaseStatus 컬렉션별 문서 수 조회
func GetDatabaseStatus() (map[string]interface{}, error) {
	collections := []string{
		UsersCollection,
		CustomersCollection,
		CustomerAllocationsCollection,
		TransferRequestsCollection,
		DailyLimitApprovalsCollection,
		PermissionsCollection,
		AuditLogsCollection,
		CallLogsCollection,
		ApiOperationLogsCollection,
	}

	result := make(map[string]interface{})
	for _, collName := range collections {
		count, err := db.Collection(collName).CountDocuments(ctx, bson.M{})
		if err != nil {
			result[collName] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[collName] = map[string]interface{}{"count": count}
	}

	return result, nil
}
