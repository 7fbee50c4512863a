package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLimit(t *testing.T) {
	// 승인 1회당 기본 한도만큼 배수로 늘어난다
	assert.EqualValues(t, 50, ComputeLimit(50, 0))
	assert.EqualValues(t, 100, ComputeLimit(50, 1))
	assert.EqualValues(t, 150, ComputeLimit(50, 2))
}

func TestDayKey(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	moment := time.Date(2026, 3, 15, 23, 50, 0, 0, kst)

	assert.Equal(t, "2026-03-15", DayKey(moment))

	// 같은 순간이라도 시계의 타임존이 날짜를 결정한다
	// KST 2026-03-16 00:10 은 UTC 로는 전날 15:10 이다
	lateNight := time.Date(2026, 3, 16, 0, 10, 0, 0, kst)
	assert.Equal(t, "2026-03-16", DayKey(lateNight))
	assert.Equal(t, "2026-03-15", DayKey(lateNight.In(time.UTC)))
}

func TestDayRange(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	moment := time.Date(2026, 3, 15, 14, 30, 0, 0, kst)

	start, end := DayRange(moment)

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, kst), start)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, kst), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestNewClockFallsBackToKST(t *testing.T) {
	clock := NewClock("Not/AZone")
	require.NotNil(t, clock)

	_, offset := clock.Now().Zone()
	assert.Equal(t, 9*60*60, offset)
}

func TestNewClockUsesTimezone(t *testing.T) {
	clock := NewClock("Asia/Seoul")
	require.NotNil(t, clock)

	_, offset := clock.Now().Zone()
	assert.Equal(t, 9*60*60, offset)
}
