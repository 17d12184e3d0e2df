package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/painlog-backend/internal/database"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.RedisClient.Close()
		database.RedisClient = nil
	})
	return mr
}

func TestCreateAndValidateSession(t *testing.T) {
	setupRedis(t)
	userID := uuid.New()

	token, err := CreateSession(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, ok, err := ValidateSession(token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestValidateSessionRejectsUnknownToken(t *testing.T) {
	setupRedis(t)

	_, ok, err := ValidateSession("bogus")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ValidateSession("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateSessionReplacesExisting(t *testing.T) {
	setupRedis(t)
	userID := uuid.New()

	first, err := CreateSession(userID)
	require.NoError(t, err)
	second, err := CreateSession(userID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, ok, err := ValidateSession(first)
	require.NoError(t, err)
	assert.False(t, ok, "old session should be invalidated")

	_, ok, err = ValidateSession(second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInvalidateSession(t *testing.T) {
	setupRedis(t)
	userID := uuid.New()

	token, err := CreateSession(userID)
	require.NoError(t, err)

	require.NoError(t, InvalidateSession(token))

	_, ok, err := ValidateSession(token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionEventsPublished(t *testing.T) {
	setupRedis(t)
	userID := uuid.New()

	sub := database.RedisClient.Subscribe(context.Background(), SessionEventChannel(userID))
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	token, err := CreateSession(userID)
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)
	var event SessionEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "signed_in", event.Type)
	assert.Equal(t, userID.String(), event.UserID)

	require.NoError(t, InvalidateSession(token))

	msg, err = sub.ReceiveMessage(context.Background())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "signed_out", event.Type)
	assert.Empty(t, event.UserID)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Minute)
}
