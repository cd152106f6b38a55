package slotlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если значение совпадает с токеном владельца
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка на SET NX PX.
// Подходит для нескольких инстансов сервиса, работающих с одной БД
type RedisLocker struct {
	client redis.Cmdable
	prefix string
	opts   Options
}

// NewRedisLocker создает блокировку поверх redis-клиента
func NewRedisLocker(client redis.Cmdable, prefix string, opts Options) *RedisLocker {
	if prefix == "" {
		prefix = "slotlock"
	}
	return &RedisLocker{
		client: client,
		prefix: prefix,
		opts:   opts.withDefaults(),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := l.prefix + ":" + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.opts.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.opts.RetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(waitCtx, fullKey, token, l.opts.TTL).Result()
		if err != nil {
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return nil, fmt.Errorf("%w: key=%s", ErrLockTimeout, key)
			}
			return nil, fmt.Errorf("slotlock: redis SETNX %s: %w", fullKey, err)
		}
		if acquired {
			return l.releaseFunc(fullKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: key=%s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaseFunc(fullKey, token string) Release {
	return func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Int64()
		if err != nil {
			return fmt.Errorf("slotlock: release %s: %w", fullKey, err)
		}
		if deleted == 0 {
			return fmt.Errorf("%w: key=%s", ErrNotOwner, fullKey)
		}
		return nil
	}
}
