package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	// Get returns an empty string without error when the key does not exist.
	Get(ctx context.Context, key string) (string, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	// CompareAndDelete removes key only while it still holds expected.
	CompareAndDelete(ctx context.Context, key string, expected interface{}) (bool, error)
	// CompareAndExpire resets the TTL of key only while it still holds expected.
	CompareAndExpire(ctx context.Context, key string, expected interface{}, exp time.Duration) (bool, error)
}
