package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/umalmyha/bankadmin/internal/model"
)

type SessionCache interface {
	FindByID(context.Context, string) (*model.Session, error)
	Save(context.Context, *model.Session) error
	DeleteByID(context.Context, string) error
}

type redisSessionCache struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisSessionCache(client redis.Cmdable) SessionCache {
	return &redisSessionCache{client: client, now: time.Now}
}

// FindByID returns nil if session is missing or expired
func (r *redisSessionCache) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	found, err := get(ctx, r.client, sessionKey(id), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *redisSessionCache) Save(ctx context.Context, s *model.Session) error {
	ttl := sessionTimeToLive(s, r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s is already expired", s.ID)
	}
	return set(ctx, r.client, sessionKey(s.ID), s, ttl)
}

func (r *redisSessionCache) DeleteByID(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

func sessionTimeToLive(s *model.Session, now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
