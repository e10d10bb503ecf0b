package notify

import (
	"context"
	"encoding/json"
	"time"

	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// JobKindEmail is the delivery channel of every outbox job written here.
const JobKindEmail = "email"

type payload struct {
	EntryID    *uuid.UUID `json:"entry_id,omitempty"`
	CustomerID uuid.UUID  `json:"customer_id"`
	BranchID   uuid.UUID  `json:"branch_id"`
	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	From       time.Time  `json:"from"`
	To         time.Time  `json:"to"`
}

// OutboxNotifier queues notifications as notification_jobs rows for an external sender.
type OutboxNotifier struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOutboxNotifier(uow shared.UnitOfWork, clock clock.Clock) *OutboxNotifier {
	return &OutboxNotifier{uow: uow, clock: clock}
}

var _ shared.Notifier = (*OutboxNotifier)(nil)

func (n *OutboxNotifier) Notify(ctx context.Context, msg shared.Notification) error {
	body, err := json.Marshal(payload{
		EntryID:    msg.EntryID,
		CustomerID: msg.CustomerID,
		BranchID:   msg.BranchID,
		BookingID:  msg.BookingID,
		From:       msg.Window.From(),
		To:         msg.Window.To(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}

	return n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, JobKindEmail, string(msg.Kind), body, n.clock.Now())
	})
}
