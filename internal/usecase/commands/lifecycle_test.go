//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"sync/atomic"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/settlement"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/infra/lock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ================================================================================
// CompleteBooking
// ================================================================================

func (s *EngineTestSuite) TestCompleteBooking_Settles() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)

	res, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())

	s.Require().NoError(err)
	s.Equal(settlement.OutcomeCompleted, res.Settlement.Status())
	s.Equal("40.00", res.Settlement.ServiceTotal().StringFixed(2))
	s.Equal("10.00", res.Settlement.ProductsTotal().StringFixed(2))
	s.Equal("50.00", res.Settlement.GrandTotal().StringFixed(2))
	s.NotNil(res.Matches)
	s.Empty(res.Matches)

	s.Equal(booking.StatusCompleted, s.loadBooking(b.ID()).Status())
	stored, err := s.loadSettlement(b.ID())
	s.Require().NoError(err)
	s.True(stored.GrandTotal().Equal(res.Settlement.GrandTotal()))
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}), "completion must release the staff reservation")
}

func (s *EngineTestSuite) TestCompleteBooking_SecondAttemptIsAlreadySettled() {
	b := s.book(builder.NewBookingBuilder())
	_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())
	s.Require().NoError(err)

	again := builder.NewCompletionBuilder().WithServiceTotal("10.00").WithPayments(
		builder.PaymentLine{Method: settlement.PaymentMethodCard, Amount: "20.00"},
	).BuildPriced()
	_, err = s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), again)

	s.assertKind(err, errs.ErrAlreadySettled)
	stored, err := s.loadSettlement(b.ID())
	s.Require().NoError(err)
	s.Equal("50.00", stored.GrandTotal().StringFixed(2), "first settlement must be kept")
}

func (s *EngineTestSuite) TestCompleteBooking_ConcurrentAttemptsSettleOnce() {
	b := s.book(builder.NewBookingBuilder())

	var settled, rejected atomic.Int32
	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			_, err := s.lifecycle.CompleteBooking(context.Background(), s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())
			switch {
			case err == nil:
				settled.Add(1)
			case errs.Is(err, errs.ErrAlreadySettled):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.EqualValues(1, settled.Load())
	s.EqualValues(15, rejected.Load())
}

func (s *EngineTestSuite) TestCompleteBooking_PaymentMismatchChangesNothing() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	input := builder.NewCompletionBuilder().WithPayments(
		builder.PaymentLine{Method: settlement.PaymentMethodCash, Amount: "45.00"},
	).BuildPriced()
	_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), input)

	s.assertKind(err, errs.ErrPaymentMismatch)
	var mismatch *settlement.PaymentMismatchError
	s.Require().ErrorAs(err, &mismatch)
	s.Equal("50.00", mismatch.Expected.StringFixed(2))
	s.Equal("45.00", mismatch.Actual.StringFixed(2))

	s.Equal(booking.StatusScheduled, s.loadBooking(b.ID()).Status())
	_, err = s.loadSettlement(b.ID())
	s.Error(err)
	s.False(s.staffFree(bb, [4]int{10, 0, 11, 0}), "failed completion must keep the reservation")
	s.Equal(waitlist.StatusActive, s.loadEntry(entry.ID()).Status(), "no matching on failure")
	s.Equal([]string{"booking_created"}, s.jobTopics())
}

func (s *EngineTestSuite) TestCompleteBooking_InvalidData() {
	b := s.book(builder.NewBookingBuilder())

	input := builder.NewCompletionBuilder().WithProducts(
		builder.ProductLine{ProductID: uuid.New(), Quantity: 2, UnitPrice: "5.00", Total: "9.99"},
	).BuildPriced()
	_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), input)

	s.assertKind(err, errs.ErrInvalidCompletionData)
	var invalid *settlement.ValidationError
	s.Require().ErrorAs(err, &invalid)
	s.Require().Len(invalid.Violations, 1)
	s.Equal("products[0].total", invalid.Violations[0].Field)

	_, err = s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), nil)
	s.assertKind(err, errs.ErrInvalidCompletionData)
}

func (s *EngineTestSuite) TestCompleteBooking_NoShow() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	res, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().AsNoShow().BuildStandard())

	s.Require().NoError(err)
	s.Equal(settlement.OutcomeNoShow, res.Settlement.Status())
	s.True(res.Settlement.GrandTotal().IsZero())
	s.Equal(booking.StatusNoShow, s.loadBooking(b.ID()).Status())
	s.Require().Len(res.Matches, 1, "no_show frees the slot as well")
	s.Equal(entry.ID(), res.Matches[0].EntryID)
}

func (s *EngineTestSuite) TestCompleteBooking_RoleVariants() {
	bb := builder.NewBookingBuilder().WithServiceTotal("30.00")
	b := s.book(bb)
	staff := builder.NewActorBuilder().AsStaff(bb.BranchID).Build()

	_, err := s.lifecycle.CompleteBooking(s.ctx, staff, b.ID(), builder.NewCompletionBuilder().BuildPriced())
	s.assertKind(err, errs.ErrForbidden)

	// Standard completions settle at the booked price: 30.00 + 10.00.
	standard := builder.NewCompletionBuilder().WithPayments(
		builder.PaymentLine{Method: settlement.PaymentMethodCash, Amount: "40.00"},
	).BuildStandard()
	res, err := s.lifecycle.CompleteBooking(s.ctx, staff, b.ID(), standard)
	s.Require().NoError(err)
	s.Equal("30.00", res.Settlement.ServiceTotal().StringFixed(2))
	s.Equal("40.00", res.Settlement.GrandTotal().StringFixed(2))
}

func (s *EngineTestSuite) TestCompleteBooking_BranchAdminMayOverridePrice() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	branchAdmin := builder.NewActorBuilder().AsBranchAdmin(bb.BranchID).Build()

	input := builder.NewCompletionBuilder().WithServiceTotal("35.00").WithPayments(
		builder.PaymentLine{Method: settlement.PaymentMethodCard, Amount: "45.00"},
	).BuildPriced()
	res, err := s.lifecycle.CompleteBooking(s.ctx, branchAdmin, b.ID(), input)

	s.Require().NoError(err)
	s.Equal("35.00", res.Settlement.ServiceTotal().StringFixed(2))
}

func (s *EngineTestSuite) TestCompleteBooking_ScopeAndState() {
	b := s.book(builder.NewBookingBuilder())

	s.Run("other branch", func() {
		outsider := builder.NewActorBuilder().AsBranchAdmin(uuid.New()).Build()
		_, err := s.lifecycle.CompleteBooking(s.ctx, outsider, b.ID(), builder.NewCompletionBuilder().BuildPriced())
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("unknown booking", func() {
		_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, uuid.New(), builder.NewCompletionBuilder().BuildPriced())
		s.assertKind(err, errs.ErrNotFound)
	})

	s.Run("cancelled booking", func() {
		_, err := s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "")
		s.Require().NoError(err)

		_, err = s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())
		s.assertKind(err, errs.ErrInvalidState)
	})
}

func (s *EngineTestSuite) TestCompleteBooking_CancelledContextWritesNothing() {
	b := s.book(builder.NewBookingBuilder())
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.lifecycle.CompleteBooking(ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())

	s.ErrorIs(err, context.Canceled)
	s.Equal(booking.StatusScheduled, s.loadBooking(b.ID()).Status())
	_, err = s.loadSettlement(b.ID())
	s.Error(err)
}

func (s *EngineTestSuite) TestCompleteBooking_FreedSlotGoesToWaitlist() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	res, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())

	s.Require().NoError(err)
	s.Require().Len(res.Matches, 1)
	m := res.Matches[0]
	s.Equal(commands.MatchBooked, m.Kind)
	s.Equal(entry.ID(), m.EntryID)
	s.Require().NotNil(m.BookingID)

	matched := s.loadEntry(entry.ID())
	s.Equal(waitlist.StatusMatched, matched.Status())
	s.Equal(*m.BookingID, *matched.MatchedBooking())

	created := s.loadBooking(*m.BookingID)
	s.Equal(entry.CustomerID(), created.CustomerID())
	s.Equal(*bb.StaffID, *created.StaffID())
	s.True(created.Window().Equal(bb.Window))
	s.Equal(entry.ID(), *created.WaitlistEntryID())
	s.False(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.Equal([]string{"booking_created", "booking_created"}, s.jobTopics())
}

// gapLocker runs before once, right before the first lock is handed out.
type gapLocker struct {
	shared.BookingLocker
	before func()
}

func (l *gapLocker) Acquire(ctx context.Context, bookingID uuid.UUID) (func(), error) {
	if l.before != nil {
		before := l.before
		l.before = nil
		before()
	}
	return l.BookingLocker.Acquire(ctx, bookingID)
}

func (s *EngineTestSuite) TestCompleteBooking_StandardUsesPriceUnderLock() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	staff := builder.NewActorBuilder().AsStaff(bb.BranchID).Build()

	repriced := decimal.RequireFromString("55.00")
	locker := &gapLocker{BookingLocker: lock.NewLocalLocker(), before: func() {
		_, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.AdminBookingUpdate{ServiceTotal: &repriced})
		s.Require().NoError(err)
	}}
	logger := slog.New(slog.DiscardHandler)
	reconciler := commands.NewReconciler(s.uow, locker, s.clock, shared.NopMetrics{}, logger)
	lifecycle := commands.NewLifecycleUseCase(s.uow, s.index, reconciler, s.matcher, locker, s.clock, logger)

	// 55.00 service + 10.00 products
	input := builder.NewCompletionBuilder().WithPayments(
		builder.PaymentLine{Method: settlement.PaymentMethodCash, Amount: "65.00"},
	).BuildStandard()
	res, err := lifecycle.CompleteBooking(s.ctx, staff, b.ID(), input)

	s.Require().NoError(err)
	s.Equal("55.00", res.Settlement.ServiceTotal().StringFixed(2))
	s.Equal("65.00", res.Settlement.GrandTotal().StringFixed(2))
	stored, err := s.loadSettlement(b.ID())
	s.Require().NoError(err)
	s.Equal("55.00", stored.ServiceTotal().StringFixed(2))
}

// ================================================================================
// CancelBooking
// ================================================================================

func (s *EngineTestSuite) TestCancelBooking() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	proposal := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).ProposalOnly())

	res, err := s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "customer called")

	s.Require().NoError(err)
	s.Equal(booking.StatusCancelled, res.Booking.Status())
	s.Equal(booking.StatusCancelled, s.loadBooking(b.ID()).Status())
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.Require().Len(res.Matches, 1)
	s.Equal(commands.MatchProposed, res.Matches[0].Kind)
	s.Equal(proposal.ID(), res.Matches[0].EntryID)

	_, err = s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "")
	s.assertKind(err, errs.ErrInvalidState)
}

func (s *EngineTestSuite) TestCancelBooking_SettledBookingIsFinal() {
	b := s.book(builder.NewBookingBuilder())
	_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())
	s.Require().NoError(err)

	_, err = s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "")

	s.assertKind(err, errs.ErrInvalidState)
	s.Equal(booking.StatusCompleted, s.loadBooking(b.ID()).Status())
}

func (s *EngineTestSuite) TestCancelBooking_StaffOfOtherBranch() {
	b := s.book(builder.NewBookingBuilder())
	outsider := builder.NewActorBuilder().AsStaff(uuid.New()).Build()

	_, err := s.lifecycle.CancelBooking(s.ctx, outsider, b.ID(), "")

	s.assertKind(err, errs.ErrForbidden)
}
