package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/domain/window"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type MatchKind string

const (
	MatchBooked   MatchKind = "booked"
	MatchProposed MatchKind = "proposed"
)

type MatchOutcome struct {
	Kind       MatchKind
	EntryID    uuid.UUID
	CustomerID uuid.UUID
	Window     window.Window
	BookingID  *uuid.UUID
}

// Matcher hands freed slots to waitlisted customers.
type Matcher struct {
	uow      shared.UnitOfWork
	index    shared.AvailabilityIndex
	creator  *BookingCreator
	gate     shared.FeatureGate
	notifier shared.Notifier
	metrics  shared.EngineMetrics
	logger   *slog.Logger
}

func NewMatcher(
	uow shared.UnitOfWork,
	index shared.AvailabilityIndex,
	creator *BookingCreator,
	gate shared.FeatureGate,
	notifier shared.Notifier,
	metrics shared.EngineMetrics,
	logger *slog.Logger,
) *Matcher {
	return &Matcher{
		uow:      uow,
		index:    index,
		creator:  creator,
		gate:     gate,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnSlotFreed scans active waitlist entries for the slot in first-come-first-served
// order. Auto-book entries are booked on the intersection of their desired window
// and the slot; other entries receive a proposal. Booked time is consumed, so later
// candidates get the earliest free part of what is left. A failing candidate is
// skipped. Outcomes collected before a context cancellation are returned with the error.
func (m *Matcher) OnSlotFreed(ctx context.Context, slot booking.FreedSlot) ([]MatchOutcome, error) {
	var entries []*waitlist.Entry
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entries, err = tx.Waitlist().ListActiveForSlot(ctx, slot.BranchID, slot.ServiceID, slot.Window)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	outcomes := []MatchOutcome{}
	candidates := waitlist.SelectCandidates(entries, slot)
	if len(candidates) == 0 {
		return outcomes, nil
	}

	autoBookAllowed := m.gate.Allowed(ctx, slot.BranchID, shared.FeatureWaitlistAutoBook)

	var consumed window.Set
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		if consumed.Covers(slot.Window) {
			break
		}
		target, ok := m.firstFree(slot, consumed.Gaps(c.Bookable))
		if !ok {
			m.metrics.MatchOutcome("unavailable")
			continue
		}

		log := m.logger.With(
			slog.String("entry_id", c.Entry.ID().String()),
			slog.String("window", target.String()))

		if c.Entry.AutoBook() && autoBookAllowed {
			b, err := m.creator.Create(ctx, booking.NewParams{
				BranchID:        slot.BranchID,
				ServiceID:       slot.ServiceID,
				ServiceOptionID: optionFor(c.Entry, slot),
				CustomerID:      c.Entry.CustomerID(),
				StaffID:         slot.StaffID,
				ResourceIDs:     slot.ResourceIDs,
				Window:          target,
				ServiceTotal:    slot.ServiceTotal,
				Note:            c.Entry.Comments(),
				WaitlistEntryID: ptr.Of(c.Entry.ID()),
			})
			if err != nil {
				m.metrics.MatchOutcome("failed")
				log.Warn("waitlist auto-book skipped", slog.String("error", err.Error()))
				continue
			}

			consumed.Add(target)
			m.metrics.MatchOutcome(string(MatchBooked))
			log.Info("waitlist entry auto-booked", slog.String("booking_id", b.ID().String()))
			outcomes = append(outcomes, MatchOutcome{
				Kind:       MatchBooked,
				EntryID:    c.Entry.ID(),
				CustomerID: c.Entry.CustomerID(),
				Window:     target,
				BookingID:  ptr.Of(b.ID()),
			})
			continue
		}

		outcome := MatchOutcome{
			Kind:       MatchProposed,
			EntryID:    c.Entry.ID(),
			CustomerID: c.Entry.CustomerID(),
			Window:     target,
		}
		if err := m.notifier.Notify(ctx, shared.Notification{
			Kind:       shared.NotificationMatchProposed,
			EntryID:    ptr.Of(c.Entry.ID()),
			CustomerID: c.Entry.CustomerID(),
			BranchID:   slot.BranchID,
			Window:     target,
		}); err != nil {
			m.metrics.MatchOutcome("failed")
			log.Warn("waitlist proposal not delivered", slog.String("error", err.Error()))
			continue
		}
		m.metrics.MatchOutcome(string(MatchProposed))
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// firstFree picks the earliest candidate window the slot's staff and resources can take.
func (m *Matcher) firstFree(slot booking.FreedSlot, ws []window.Window) (window.Window, bool) {
	for _, w := range ws {
		if m.available(slot, w) {
			return w, true
		}
	}
	return window.Window{}, false
}

func (m *Matcher) available(slot booking.FreedSlot, w window.Window) bool {
	for _, ref := range freedRefs(slot) {
		if !m.index.IsFree(slot.BranchID, ref, w) {
			return false
		}
	}
	return true
}

func optionFor(e *waitlist.Entry, slot booking.FreedSlot) *uuid.UUID {
	if e.ServiceOptionID() != nil {
		return e.ServiceOptionID()
	}
	return slot.ServiceOptionID
}
