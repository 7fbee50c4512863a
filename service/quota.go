package service

import (
	"context"
	"time"

	"github.com/hangilict/estate_crm_end/models"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// Clock "오늘"을 결정하는 시계. 일일 한도는 이 시계의 타임존 기준으로 계산한다
type Clock interface {
	Now() time.Time
}

type locationClock struct {
	loc *time.Location
}

func (c *locationClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// NewClock 타임존 시계 생성. 타임존을 못 읽으면 KST 고정 오프셋으로 대체
func NewClock(timezone string) Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		utils.Logger.Error().Err(err).Str("timezone", timezone).Msg("타임존 로드 실패, KST 고정 오프셋 사용")
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &locationClock{loc: loc}
}

// DayKey 날짜 키 ("2006-01-02")
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DayRange t가 속한 날의 [시작, 다음날 시작) 구간
func DayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ComputeLimit 일일 한도 계산. 승인 1회당 기본 한도만큼 늘어난다
func ComputeLimit(base int64, approvals int64) int64 {
	return base * (1 + approvals)
}

// QuotaGuard 일일 고객 등록 한도 가드
type QuotaGuard struct {
	Base  int64
	Clock Clock
}

// NewQuotaGuard 한도 가드 생성
func NewQuotaGuard(base int64, clock Clock) *QuotaGuard {
	return &QuotaGuard{Base: base, Clock: clock}
}

// Status (직원, 날짜)의 등록 수/한도/잔여 조회.
// 관리자급은 한도를 적용하지 않는다.
func (g *QuotaGuard) Status(ctx context.Context, userID string, role models.UserRole) (*models.DailyLimitStatus, error) {
	now := g.Clock.Now()
	day := DayKey(now)

	if role.IsManager() {
		return &models.DailyLimitStatus{Date: day, Unlimited: true}, nil
	}

	start, end := DayRange(now)

	// 등록 수는 생성자 기준으로 센다. 회수/이관이 일어나도 당일 등록 수는 줄지 않는다
	count, err := repository.Collection(repository.CustomersCollection).CountDocuments(ctx, bson.M{
		"createdbyid": userID,
		"isdeleted":   false,
		"createdat":   bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, utils.CreateInternalError(err)
	}

	approvals, err := repository.Collection(repository.DailyLimitApprovalsCollection).CountDocuments(ctx, bson.M{
		"userid": userID,
		"date":   day,
	})
	if err != nil {
		return nil, utils.CreateInternalError(err)
	}

	limit := ComputeLimit(g.Base, approvals)
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &models.DailyLimitStatus{
		Date:      day,
		Count:     count,
		Limit:     limit,
		Remaining: remaining,
	}, nil
}

// CheckCreation 고객 신규 등록 가능 여부 확인.
// 한도를 초과하면 현재 한도와 잔여 수를 담은 구조화된 에러를 돌려준다
func (g *QuotaGuard) CheckCreation(ctx context.Context, userID string, role models.UserRole) error {
	status, err := g.Status(ctx, userID, role)
	if err != nil {
		return err
	}

	if status.Unlimited {
		return nil
	}

	if status.Count >= status.Limit {
		return utils.CreateQuotaExceededError(status.Limit, status.Remaining)
	}

	return nil
}
