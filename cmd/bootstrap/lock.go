package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/lock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewBookingLocker,
	),
)

// NewBookingLocker uses Redis when several engine instances share one database.
func NewBookingLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.BookingLocker, error) {
	if cfg.Redis.LockBackend != config.LockBackendRedis {
		logger.Info("Using in-process booking locks")
		return lock.NewLocalLocker(), nil
	}

	client, err := lock.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("Using redis booking locks", "addr", cfg.Redis.Addr)
	return lock.NewRedisLocker(client, cfg.Redis, logger), nil
}
