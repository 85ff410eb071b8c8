package background

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
)

const lockPrefix = "invoicedash:lock:"

// ErrLockHeld is returned when another replica holds the job lock
var ErrLockHeld = errors.New("job lock held by another instance")

// obtainer is the part of *redislock.Client the locker needs
type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

type redisLocker struct {
	client obtainer
	ttl    time.Duration
}

// NewRedisLocker returns a gocron locker backed by Redis. ttl bounds how long a crashed
// replica can keep a job blocked.
func NewRedisLocker(client *redis.Client, ttl time.Duration) gocron.Locker {
	return &redisLocker{client: redislock.New(client), ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (gocron.Lock, error) {
	lock, err := l.client.Obtain(ctx, lockPrefix+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockHeld
	}
	if err != nil {
		return nil, err
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l *redisLock) Unlock(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}
