//go:build unit

package commands_test

import (
	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ================================================================================
// CreateBooking
// ================================================================================

func (s *EngineTestSuite) TestCreateBooking() {
	bb := builder.NewBookingBuilder()

	b, err := s.bookings.CreateBooking(s.ctx, s.admin, bb.BuildCreateInput())

	s.Require().NoError(err)
	s.Equal(booking.StatusScheduled, b.Status())
	s.Equal(b.ID(), s.loadBooking(b.ID()).ID())
	s.False(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.Equal([]string{"booking_created"}, s.jobTopics())
}

func (s *EngineTestSuite) TestCreateBooking_StaffConflict() {
	bb := builder.NewBookingBuilder()
	s.book(bb)

	_, err := s.bookings.CreateBooking(s.ctx, s.admin, bb.WithWindow(builder.Window(10, 30, 11, 30)).BuildCreateInput())

	s.assertKind(err, errs.ErrConflict)
	s.Len(s.scheduled(), 1)
}

func (s *EngineTestSuite) TestCreateBooking_ResourceCapacity() {
	branchID := uuid.New()
	roomID := s.resource(branchID, 2)
	newBooking := func() *builder.BookingBuilder {
		return builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID)
	}

	s.book(newBooking())
	s.book(newBooking())
	_, err := s.bookings.CreateBooking(s.ctx, s.admin, newBooking().BuildCreateInput())

	s.assertKind(err, errs.ErrConflict)
	occ, err := s.index.Occupancy(branchID, availability.Resource(roomID), builder.Window(10, 0, 11, 0))
	s.Require().NoError(err)
	s.Equal(2, occ.Used)
}

func (s *EngineTestSuite) TestCreateBooking_Rejections() {
	s.Run("unknown resource", func() {
		_, err := s.bookings.CreateBooking(s.ctx, s.admin, builder.NewBookingBuilder().WithResources(uuid.New()).BuildCreateInput())
		s.assertKind(err, errs.ErrNotFound)
	})

	s.Run("other branch", func() {
		bb := builder.NewBookingBuilder()
		staff := builder.NewActorBuilder().AsStaff(uuid.New()).Build()
		_, err := s.bookings.CreateBooking(s.ctx, staff, bb.BuildCreateInput())
		s.assertKind(err, errs.ErrForbidden)
		s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	})

	s.Run("negative price", func() {
		_, err := s.bookings.CreateBooking(s.ctx, s.admin, builder.NewBookingBuilder().WithServiceTotal("-1").BuildCreateInput())
		s.assertKind(err, errs.ErrInvalidInput)
	})
}

// ================================================================================
// UpdateBooking
// ================================================================================

func (s *EngineTestSuite) TestUpdateBooking_MoveOffersVacatedSlot() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	res, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.AdminBookingUpdate{
		Window: ptr.Of(builder.Window(14, 0, 15, 0)),
	})

	s.Require().NoError(err)
	s.True(res.Booking.Window().Equal(builder.Window(14, 0, 15, 0)))
	s.True(s.loadBooking(b.ID()).Window().Equal(builder.Window(14, 0, 15, 0)))
	s.False(s.staffFree(bb, [4]int{14, 0, 15, 0}))

	s.Require().Len(res.Matches, 1)
	s.Equal(entry.ID(), res.Matches[0].EntryID)
	s.Equal(commands.MatchBooked, res.Matches[0].Kind)
	s.Equal(waitlist.StatusMatched, s.loadEntry(entry.ID()).Status())
}

func (s *EngineTestSuite) TestUpdateBooking_ConflictKeepsOriginal() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	s.book(builder.NewBookingBuilder().
		WithBranch(bb.BranchID).
		WithStaff(*bb.StaffID).
		WithWindow(builder.Window(14, 0, 15, 0)))

	_, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.BranchAdminBookingUpdate{
		Window: ptr.Of(builder.Window(14, 30, 15, 30)),
	})

	s.assertKind(err, errs.ErrConflict)
	s.True(s.loadBooking(b.ID()).Window().Equal(builder.Window(10, 0, 11, 0)))
	s.False(s.staffFree(bb, [4]int{10, 0, 11, 0}), "original reservation must be kept")
	s.True(s.staffFree(bb, [4]int{15, 0, 15, 30}))
}

func (s *EngineTestSuite) TestUpdateBooking_ChangeStaff() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	other := uuid.New()

	res, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.BranchAdminBookingUpdate{StaffID: &other})

	s.Require().NoError(err)
	s.Equal(other, *res.Booking.StaffID())
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.False(s.index.IsFree(bb.BranchID, availability.Staff(other), builder.Window(10, 0, 11, 0)))

	res, err = s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.AdminBookingUpdate{ClearStaff: true})

	s.Require().NoError(err)
	s.Nil(res.Booking.StaffID())
	s.True(s.index.IsFree(bb.BranchID, availability.Staff(other), builder.Window(10, 0, 11, 0)))
}

func (s *EngineTestSuite) TestUpdateBooking_RoleVariants() {
	bb := builder.NewBookingBuilder()
	b := s.book(bb)
	staff := builder.NewActorBuilder().AsStaff(bb.BranchID).Build()
	branchAdmin := builder.NewActorBuilder().AsBranchAdmin(bb.BranchID).Build()
	price := decimal.RequireFromString("99.00")

	tests := []struct {
		name   string
		update commands.BookingUpdate
		errIs  error
	}{
		{name: "staff may change the note", update: commands.StaffBookingUpdate{Note: ptr.Of("bring towel")}},
		{name: "staff may not move the booking", update: commands.BranchAdminBookingUpdate{Window: ptr.Of(builder.Window(12, 0, 13, 0))}, errIs: errs.ErrForbidden},
		{name: "staff may not reprice", update: commands.AdminBookingUpdate{ServiceTotal: &price}, errIs: errs.ErrForbidden},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.bookings.UpdateBooking(s.ctx, staff, b.ID(), tt.update)
			if tt.errIs != nil {
				s.assertKind(err, tt.errIs)
				return
			}
			s.NoError(err)
		})
	}

	s.Run("branch admin may not reprice", func() {
		_, err := s.bookings.UpdateBooking(s.ctx, branchAdmin, b.ID(), commands.AdminBookingUpdate{ServiceTotal: &price})
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("admin reprices", func() {
		res, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.AdminBookingUpdate{ServiceTotal: &price})
		s.Require().NoError(err)
		s.Equal("99.00", res.Booking.ServiceTotal().StringFixed(2))
		s.Empty(res.Matches)
	})

	s.Run("branch admin of another branch", func() {
		outsider := builder.NewActorBuilder().AsBranchAdmin(uuid.New()).Build()
		_, err := s.bookings.UpdateBooking(s.ctx, outsider, b.ID(), commands.StaffBookingUpdate{Note: ptr.Of("x")})
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("missing payload", func() {
		_, err := s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), nil)
		s.assertKind(err, errs.ErrInvalidInput)
	})

	s.Equal("bring towel", s.loadBooking(b.ID()).Note())
}

func (s *EngineTestSuite) TestUpdateBooking_SettledBookingCannotMove() {
	b := s.book(builder.NewBookingBuilder())
	_, err := s.lifecycle.CompleteBooking(s.ctx, s.admin, b.ID(), builder.NewCompletionBuilder().BuildPriced())
	s.Require().NoError(err)

	_, err = s.bookings.UpdateBooking(s.ctx, s.admin, b.ID(), commands.AdminBookingUpdate{
		Window: ptr.Of(builder.Window(14, 0, 15, 0)),
	})

	s.assertKind(err, errs.ErrInvalidState)
}
