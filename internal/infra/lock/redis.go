package lock

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "booking:lock:"
	retryBackoff = 25 * time.Millisecond
)

var ErrLockTimeout = errs.New("timed out waiting for booking lock")

// releaseScript deletes the key only when it still holds our token, so an expired
// lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker serializes work per booking across instances with SET NX PX.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

func NewRedisLocker(client *redis.Client, cfg config.RedisConfig, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    cfg.LockTTL,
		wait:   cfg.LockWait,
		logger: logger,
	}
}

var _ shared.BookingLocker = (*RedisLocker)(nil)

func (l *RedisLocker) Acquire(ctx context.Context, bookingID uuid.UUID) (func(), error) {
	key := keyPrefix + bookingID.String()
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, errs.Mark(ctx.Err(), ErrLockTimeout)
			}
			return nil, errs.Wrap(err, "failed to acquire booking lock")
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errs.Mark(errs.Wrapf(ctx.Err(), "booking %s", bookingID), ErrLockTimeout)
		case <-time.After(retryBackoff):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release booking lock",
				slog.String("booking_id", bookingID.String()),
				slog.String("error", err.Error()))
		}
	}, nil
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errs.Wrap(err, "failed to connect to redis")
	}
	return client, nil
}
