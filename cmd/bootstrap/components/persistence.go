package components

import (
	"log/slog"

	"booking-engine/internal/infra/memstore"
	"booking-engine/internal/infra/notify"
	"booking-engine/internal/infra/uow"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
		fx.Annotate(
			notify.NewOutboxNotifier,
			fx.As(new(shared.Notifier)),
		),
	),
)

// NewUnitOfWork selects the storage backend. The in-memory store keeps nothing across
// restarts and is meant for local runs and demos.
func NewUnitOfWork(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) shared.UnitOfWork {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memstore.NewUoW(memstore.NewStore())
	}
	return uow.NewPostgresUoW(pool)
}
