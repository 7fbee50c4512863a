package utils

import (
	"testing"

	"github.com/hangilict/estate_crm_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123!", hash)

	assert.True(t, VerifyPassword("secret123!", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("secret123!", "평문은 해시가 아니다"))
}

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:   primitive.NewObjectID(),
		Name: "김영업",
		Role: models.UserRoleEMPLOYEE,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.Hex(), claims["id"])
	assert.Equal(t, "김영업", claims["name"])
	assert.Equal(t, "EMPLOYEE", claims["role"])
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
