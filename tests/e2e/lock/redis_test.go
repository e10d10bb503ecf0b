//go:build e2e

package lock_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"booking-engine/internal/infra/lock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			slog.Warn("failed to terminate redis container", "error", err.Error())
		}
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{
		LockBackend: config.LockBackendRedis,
		Addr:        host + ":" + port.Port(),
		LockTTL:     5 * time.Second,
		LockWait:    500 * time.Millisecond,
	}
}

func TestRedisLocker(t *testing.T) {
	cfg := startRedis(t)
	client, err := lock.NewRedisClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.DiscardHandler)

	t.Run("serializes holders of the same booking across lockers", func(t *testing.T) {
		// two lockers on one client behave like two engine instances
		lockers := []*lock.RedisLocker{
			lock.NewRedisLocker(client, cfg, logger),
			lock.NewRedisLocker(client, cfg, logger),
		}
		bookingID := uuid.New()

		var inside, peak atomic.Int32
		g, ctx := errgroup.WithContext(context.Background())
		for i := range 6 {
			l := lockers[i%2]
			g.Go(func() error {
				release, err := l.Acquire(ctx, bookingID)
				if err != nil {
					return err
				}
				defer release()
				n := inside.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(1), peak.Load())
	})

	t.Run("times out while another instance holds the booking", func(t *testing.T) {
		l := lock.NewRedisLocker(client, cfg, logger)
		bookingID := uuid.New()

		release, err := l.Acquire(context.Background(), bookingID)
		require.NoError(t, err)
		defer release()

		_, err = l.Acquire(context.Background(), bookingID)
		require.Error(t, err)
		assert.True(t, errs.Is(err, lock.ErrLockTimeout))
	})

	t.Run("release frees the booking for the next holder", func(t *testing.T) {
		l := lock.NewRedisLocker(client, cfg, logger)
		bookingID := uuid.New()

		release, err := l.Acquire(context.Background(), bookingID)
		require.NoError(t, err)
		release()

		release, err = l.Acquire(context.Background(), bookingID)
		require.NoError(t, err)
		release()
	})
}
