package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var IndexModule = fx.Module("index",
	fx.Provide(
		fx.Annotate(
			availability.NewIndex,
			fx.As(new(shared.AvailabilityIndex)),
		),
		NewIndexMaintenance,
	),
	fx.Invoke(rebuildIndex),
)

func NewIndexMaintenance(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *commands.IndexMaintenance {
	return commands.NewIndexMaintenance(uow, index, clk, cfg.Index.Retention, logger)
}

// rebuildIndex replays persisted bookings before the server accepts traffic.
func rebuildIndex(lc fx.Lifecycle, maintenance *commands.IndexMaintenance) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return maintenance.Rebuild(ctx)
		},
	})
}
