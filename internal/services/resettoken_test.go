package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := NewResetToken(userID, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := VerifyResetToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := NewResetToken(uuid.New(), "test-secret")
	require.NoError(t, err)

	_, err = VerifyResetToken(token, "other-secret")
	assert.Error(t, err)
}

func TestResetTokenGarbage(t *testing.T) {
	_, err := VerifyResetToken("not.a.jwt", "test-secret")
	assert.Error(t, err)

	_, err = VerifyResetToken("", "test-secret")
	assert.Error(t, err)
}
