package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// get decodes msgpack value stored by key into dest, reports false if key is missing
func get(ctx context.Context, client redis.Cmdable, key string, dest any) (bool, error) {
	res, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := msgpack.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

// set encodes value with msgpack and stores it by key for ttl
func set(ctx context.Context, client redis.Cmdable, key string, value any, ttl time.Duration) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, encoded, ttl).Err()
}
