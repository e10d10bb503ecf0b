//go:build unit

package booking_test

import (
	"strings"
	"testing"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/window"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking(t *testing.T) {
	now := builder.At(8, 0)

	t.Run("basic success case", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain(now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusScheduled, b.Status())
		assert.True(t, b.IsScheduled())
		assert.Equal(t, "40.00", b.ServiceTotal().StringFixed(2))
		assert.Equal(t, now, b.CreatedAt())
	})

	t.Run("creation validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*builder.BookingBuilder)
			errIs  error
		}{
			{"missing window", func(b *builder.BookingBuilder) { b.Window = window.Window{} }, window.ErrInvalidWindow},
			{"negative service total", func(b *builder.BookingBuilder) { b.WithServiceTotal("-0.01") }, booking.ErrNegativeServiceTotal},
			{"note too long", func(b *builder.BookingBuilder) { b.Note = strings.Repeat("n", booking.MaxNoteLength+1) }, booking.ErrNoteTooLong},
			{"duplicate resource", func(b *builder.BookingBuilder) {
				id := uuid.New()
				b.WithResources(id, uuid.New(), id)
			}, booking.ErrDuplicateResource},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				bb := builder.NewBookingBuilder()
				tt.mutate(bb)
				_, err := bb.BuildDomain(now)
				assert.ErrorIs(t, err, tt.errIs)
			})
		}
	})

	t.Run("settle follows the outcome and happens once", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain(now)
		require.NoError(t, err)

		require.NoError(t, b.Settle(settlement.OutcomeNoShow, now))
		assert.Equal(t, booking.StatusNoShow, b.Status())
		assert.True(t, b.Status().IsFinal())

		assert.ErrorIs(t, b.Settle(settlement.OutcomeCompleted, now), booking.ErrAlreadySettled)
		assert.ErrorIs(t, b.Cancel(now), booking.ErrNotScheduled)
	})

	t.Run("cancelled bookings cannot be settled or changed", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain(now)
		require.NoError(t, err)
		require.NoError(t, b.Cancel(now))

		assert.ErrorIs(t, b.Settle(settlement.OutcomeCompleted, now), booking.ErrNotScheduled)
		assert.ErrorIs(t, b.Reschedule(builder.Window(12, 0, 13, 0), nil, now), booking.ErrNotScheduled)
		assert.ErrorIs(t, b.ChangeServiceTotal(decimal.NewFromInt(10), now), booking.ErrNotScheduled)
	})

	t.Run("freed slot mirrors the booking", func(t *testing.T) {
		resourceID := uuid.New()
		b, err := builder.NewBookingBuilder().WithResources(resourceID).BuildDomain(now)
		require.NoError(t, err)

		slot := b.Freed()
		assert.Equal(t, b.ID(), slot.BookingID)
		assert.Equal(t, b.BranchID(), slot.BranchID)
		assert.Equal(t, b.StaffID(), slot.StaffID)
		assert.Equal(t, []uuid.UUID{resourceID}, slot.ResourceIDs)
		assert.True(t, slot.Window.Equal(b.Window()))

		moved := slot.WithWindow(builder.Window(10, 30, 11, 0))
		assert.True(t, slot.Window.Equal(builder.Window(10, 0, 11, 0)), "original slot must be unchanged")
		assert.True(t, moved.Window.Equal(builder.Window(10, 30, 11, 0)))
	})
}
