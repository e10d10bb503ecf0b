//go:build unit

package commands_test

import (
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
)

func (s *EngineTestSuite) TestCreateEntry() {
	wb := builder.NewWaitlistBuilder().With(func(w *builder.WaitlistBuilder) { w.Comments = "  window seat  " })

	e, err := s.waitlist.CreateEntry(s.ctx, s.admin, wb.BuildCreateInput())

	s.Require().NoError(err)
	s.Equal(waitlist.StatusActive, e.Status())
	s.Equal("window seat", e.Comments())
	s.Equal(e.ID(), s.loadEntry(e.ID()).ID())
}

func (s *EngineTestSuite) TestCreateEntry_Rejections() {
	s.Run("plan without waitlist", func() {
		s.allowed[shared.FeatureWaitlist] = false
		defer func() { s.allowed[shared.FeatureWaitlist] = true }()

		_, err := s.waitlist.CreateEntry(s.ctx, s.admin, builder.NewWaitlistBuilder().BuildCreateInput())
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("other branch", func() {
		staff := builder.NewActorBuilder().AsStaff(uuid.New()).Build()
		_, err := s.waitlist.CreateEntry(s.ctx, staff, builder.NewWaitlistBuilder().BuildCreateInput())
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("missing customer", func() {
		wb := builder.NewWaitlistBuilder().With(func(w *builder.WaitlistBuilder) { w.CustomerID = uuid.Nil })
		_, err := s.waitlist.CreateEntry(s.ctx, s.admin, wb.BuildCreateInput())
		s.assertKind(err, errs.ErrInvalidInput)
	})
}

func (s *EngineTestSuite) TestCancelEntry() {
	wb := builder.NewWaitlistBuilder()
	e := s.enqueue(wb)
	staff := builder.NewActorBuilder().AsStaff(wb.BranchID).Build()

	cancelled, err := s.waitlist.CancelEntry(s.ctx, staff, e.ID())

	s.Require().NoError(err)
	s.Equal(waitlist.StatusCancelled, cancelled.Status())
	s.Equal(waitlist.StatusCancelled, s.loadEntry(e.ID()).Status())

	_, err = s.waitlist.CancelEntry(s.ctx, staff, e.ID())
	s.assertKind(err, errs.ErrInvalidState)
}

func (s *EngineTestSuite) TestCancelEntry_MatchedIsFinal() {
	bb := builder.NewBookingBuilder()
	e := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))
	s.Require().Len(s.freeSlot(bb), 1)

	_, err := s.waitlist.CancelEntry(s.ctx, s.admin, e.ID())

	s.assertKind(err, errs.ErrInvalidState)
	s.Equal(waitlist.StatusMatched, s.loadEntry(e.ID()).Status())
}

func (s *EngineTestSuite) TestCancelEntry_Rejections() {
	e := s.enqueue(builder.NewWaitlistBuilder())

	_, err := s.waitlist.CancelEntry(s.ctx, builder.NewActorBuilder().AsStaff(uuid.New()).Build(), e.ID())
	s.assertKind(err, errs.ErrForbidden)

	_, err = s.waitlist.CancelEntry(s.ctx, s.admin, uuid.New())
	s.assertKind(err, errs.ErrNotFound)

	s.Equal(waitlist.StatusActive, s.loadEntry(e.ID()).Status())
}
