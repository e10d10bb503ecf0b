package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Settlements() SettlementRepository
	Resources() ResourceRepository
	Waitlist() WaitlistRepository
	Notifications() NotificationRepository
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListScheduledEndingAfter(ctx context.Context, t time.Time) ([]*booking.Booking, error)
}

type SettlementRepository interface {
	// Create fails with a duplicate-key repository error when the booking is already settled.
	Create(ctx context.Context, s *settlement.Settlement) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*settlement.Settlement, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, r *resource.Resource) error
	Update(ctx context.Context, r *resource.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*resource.Resource, error)
	ListAll(ctx context.Context) ([]*resource.Resource, error)
}

type WaitlistFilter struct {
	BranchID uuid.UUID
	Status   *waitlist.Status
	Limit    int
}

type WaitlistRepository interface {
	Create(ctx context.Context, e *waitlist.Entry) error
	// UpdateStatus persists e only while the stored status still equals expected;
	// otherwise it fails with a conflict repository error.
	UpdateStatus(ctx context.Context, e *waitlist.Entry, expected waitlist.Status) error
	FindByID(ctx context.Context, id uuid.UUID) (*waitlist.Entry, error)
	ListActiveForSlot(ctx context.Context, branchID, serviceID uuid.UUID, w window.Window) ([]*waitlist.Entry, error)
	List(ctx context.Context, filter WaitlistFilter) ([]*waitlist.Entry, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
