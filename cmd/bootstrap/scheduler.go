package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(startScheduler),
)

func startScheduler(lc fx.Lifecycle, cfg config.Config, maintenance *commands.IndexMaintenance, logger *slog.Logger) error {
	c := cron.New()
	if _, err := c.AddFunc(cfg.Index.PruneSchedule, func() { maintenance.Prune() }); err != nil {
		return errs.Wrapf(err, "invalid INDEX_PRUNE_SCHEDULE %q", cfg.Index.PruneSchedule)
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			logger.Info("Index prune scheduled", "schedule", cfg.Index.PruneSchedule)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
