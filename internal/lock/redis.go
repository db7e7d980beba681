package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lease only when the stored token still matches,
// so an expired lease re-acquired by another process is never released by
// the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease implements Lease with SET NX PX on a shared Redis instance.
type RedisLease struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLease constructs a lease manager. The TTL bounds how long a
// crashed holder can block other processes.
func NewRedisLease(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisLease {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLease{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

// Acquire attempts to take the lease without blocking.
func (l *RedisLease) Acquire(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	full := l.prefix + key

	ok, err := l.client.SetNX(ctx, full, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Release uses a fresh context: the run's context may already be
		// cancelled when the deferred release fires.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{full}, token).Err(); err != nil {
			l.logger.Warn("release lease", zap.String("key", full), zap.Error(err))
		}
	}
	return release, true, nil
}
