package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/bankadmin/internal/model"
)

// memoryRedis serves only commands used by session cache
type memoryRedis struct {
	redis.Cmdable
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memoryRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(v))
	return cmd
}

func (m *memoryRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.values[key] = value.([]byte)
	m.ttls[key] = expiration

	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	cmd.SetVal("OK")
	return cmd
}

func (m *memoryRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.values[k]; ok {
			delete(m.values, k)
			n++
		}
	}

	cmd := redis.NewIntCmd(ctx, "del")
	cmd.SetVal(n)
	return cmd
}

func TestRedisSessionCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)

	client := newMemoryRedis()
	sessions := &redisSessionCache{client: client, now: func() time.Time { return now }}

	s := &model.Session{
		ID:        "0d5e9d5c-7b1a-4b8e-9a57-1f0e3c2a9b11",
		UserID:    1,
		Username:  "alice",
		UserType:  model.UserTypeAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}

	t.Log("missing session gives nil")
	{
		found, err := sessions.FindByID(ctx, s.ID)
		require.NoError(t, err, "failed to read session")
		require.Nil(t, found, "session wasn't saved yet")
	}

	t.Log("save session with ttl until expiration")
	{
		require.NoError(t, sessions.Save(ctx, s), "failed to save session")
		require.Equal(t, 15*time.Minute, client.ttls[sessionKey(s.ID)])
	}

	t.Log("saved session is found")
	{
		found, err := sessions.FindByID(ctx, s.ID)
		require.NoError(t, err, "failed to read session")
		require.NotNil(t, found, "session was saved but not found")
		require.Equal(t, s.Username, found.Username)
		require.True(t, found.IsAdmin(), "session belongs to administrator")
		require.True(t, s.ExpiresAt.Equal(found.ExpiresAt), "expiration differs")
	}

	t.Log("delete session")
	{
		require.NoError(t, sessions.DeleteByID(ctx, s.ID), "failed to delete session")

		found, err := sessions.FindByID(ctx, s.ID)
		require.NoError(t, err, "failed to read session")
		require.Nil(t, found, "session was deleted but still found")
	}

	t.Log("expired session is not saved")
	{
		expired := *s
		expired.ExpiresAt = now.Add(-time.Second)
		require.Error(t, sessions.Save(ctx, &expired))
	}
}
