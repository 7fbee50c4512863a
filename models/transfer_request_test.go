package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStatusIsResolved(t *testing.T) {
	assert.False(t, TransferStatusPENDING.IsResolved())
	assert.True(t, TransferStatusAPPROVED.IsResolved())
	assert.True(t, TransferStatusREJECTED.IsResolved())
}
