package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolderStates(t *testing.T) {
	t.Run("미배정 고객은 관리 풀", func(t *testing.T) {
		c := Customer{}
		assert.Equal(t, HolderUnassigned, c.Holder().Kind)
	})

	t.Run("담당자 있는 고객", func(t *testing.T) {
		c := Customer{AssignedUserID: "user-1"}
		holder := c.Holder()
		assert.Equal(t, HolderAssigned, holder.Kind)
		assert.Equal(t, "user-1", holder.UserID)
	})

	t.Run("공동 풀 고객", func(t *testing.T) {
		now := time.Now()
		c := Customer{IsPublic: true, PublicAt: &now}
		assert.Equal(t, HolderPublic, c.Holder().Kind)
		assert.Empty(t, c.Holder().UserID)
	})
}

func TestCheckHolderInvariant(t *testing.T) {
	valid := Customer{IsPublic: true}
	assert.True(t, valid.CheckHolderInvariant())

	assigned := Customer{AssignedUserID: "user-1"}
	assert.True(t, assigned.CheckHolderInvariant())

	// 공동 풀 고객은 담당자를 가질 수 없다
	broken := Customer{IsPublic: true, AssignedUserID: "user-1"}
	assert.False(t, broken.CheckHolderInvariant())
}
