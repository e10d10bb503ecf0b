package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
)

// IndexMaintenance keeps the in-memory availability index aligned with storage.
type IndexMaintenance struct {
	uow       shared.UnitOfWork
	index     shared.AvailabilityIndex
	clock     clock.Clock
	retention time.Duration
	logger    *slog.Logger
}

func NewIndexMaintenance(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	clock clock.Clock,
	retention time.Duration,
	logger *slog.Logger,
) *IndexMaintenance {
	return &IndexMaintenance{
		uow:       uow,
		index:     index,
		clock:     clock,
		retention: retention,
		logger:    logger,
	}
}

// Rebuild registers every resource capacity and replays scheduled bookings that have
// not ended yet. Bookings that no longer fit are logged and skipped.
func (m *IndexMaintenance) Rebuild(ctx context.Context) error {
	var (
		resources []*resource.Resource
		bookings  []*booking.Booking
	)
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if resources, err = tx.Resources().ListAll(ctx); err != nil {
			return err
		}
		bookings, err = tx.Bookings().ListScheduledEndingAfter(ctx, m.clock.Now())
		return err
	})
	if err != nil {
		return errs.Mark(errs.Wrap(err, "failed to read index sources"), errs.ErrDatabaseOperationFailed)
	}

	for _, r := range resources {
		if err := m.index.SetCapacity(r.BranchID(), r.ID(), r.TotalQuantity()); err != nil {
			m.logger.Warn("resource capacity not applied",
				slog.String("resource_id", r.ID().String()),
				slog.String("error", err.Error()))
		}
	}

	seeds := make([]availability.Seed, 0, len(bookings))
	for _, b := range bookings {
		seeds = append(seeds, availability.Seed{
			BranchID:  b.BranchID(),
			BookingID: b.ID(),
			Refs:      slotRefs(b.StaffID(), b.ResourceIDs()),
			Window:    b.Window(),
		})
	}
	failed := m.index.Load(seeds)
	for _, err := range failed {
		m.logger.Warn("booking not indexed", slog.String("error", err.Error()))
	}

	m.logger.Info("availability index rebuilt",
		slog.Int("resources", len(resources)),
		slog.Int("bookings", len(seeds)-len(failed)),
		slog.Int("skipped", len(failed)))
	return nil
}

// Prune drops reservations that ended more than the retention period ago.
func (m *IndexMaintenance) Prune() int {
	n := m.index.Prune(m.clock.Now().Add(-m.retention))
	if n > 0 {
		m.logger.Debug("availability index pruned", slog.Int("reservations", n))
	}
	return n
}
