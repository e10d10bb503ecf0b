//go:build unit

package commands_test

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/waitlist"
	"booking-engine/internal/infra/notify"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
)

// freeSlot cancels a fresh booking built by bb and returns the matcher outcomes.
func (s *EngineTestSuite) freeSlot(bb *builder.BookingBuilder) []commands.MatchOutcome {
	s.T().Helper()
	b := s.book(bb)
	res, err := s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "")
	s.Require().NoError(err)
	return res.Matches
}

func (s *EngineTestSuite) TestMatcher_PartialWindowsShareTheSlot() {
	bb := builder.NewBookingBuilder()
	early := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(9, 30, 10, 30)))
	late := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 30, 11, 30)))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 2)
	s.Equal(early.ID(), matches[0].EntryID)
	s.Equal(commands.MatchBooked, matches[0].Kind)
	s.True(matches[0].Window.Equal(builder.Window(10, 0, 10, 30)), matches[0].Window.String())
	s.Equal(late.ID(), matches[1].EntryID)
	s.Equal(commands.MatchBooked, matches[1].Kind)
	s.True(matches[1].Window.Equal(builder.Window(10, 30, 11, 0)), matches[1].Window.String())

	s.Equal(waitlist.StatusMatched, s.loadEntry(early.ID()).Status())
	s.Equal(waitlist.StatusMatched, s.loadEntry(late.ID()).Status())
	s.False(s.staffFree(bb, [4]int{10, 0, 10, 30}))
	s.False(s.staffFree(bb, [4]int{10, 30, 11, 0}))
}

func (s *EngineTestSuite) TestMatcher_IdenticalWindowsFirstComeFirstServed() {
	bb := builder.NewBookingBuilder()
	first := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))
	second := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 1)
	s.Equal(first.ID(), matches[0].EntryID)
	s.Equal(waitlist.StatusMatched, s.loadEntry(first.ID()).Status())
	s.Equal(waitlist.StatusActive, s.loadEntry(second.ID()).Status())
}

func (s *EngineTestSuite) TestMatcher_ProposalsDoNotConsumeTheSlot() {
	bb := builder.NewBookingBuilder()
	proposal := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).ProposalOnly())
	auto := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 2)
	s.Equal(commands.MatchProposed, matches[0].Kind)
	s.Equal(proposal.ID(), matches[0].EntryID)
	s.Nil(matches[0].BookingID)
	s.Equal(commands.MatchBooked, matches[1].Kind)
	s.Equal(auto.ID(), matches[1].EntryID)

	s.Equal(waitlist.StatusActive, s.loadEntry(proposal.ID()).Status(), "proposals leave the entry active")
	s.Equal([]string{"booking_created", "match_proposed", "booking_created"}, s.jobTopics())
}

func (s *EngineTestSuite) TestMatcher_ProposalGetsTheUnbookedRemainder() {
	bb := builder.NewBookingBuilder()
	auto := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 0, 10, 30)))
	proposal := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).ProposalOnly())

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 2)
	s.Equal(auto.ID(), matches[0].EntryID)
	s.Equal(commands.MatchBooked, matches[0].Kind)
	s.Equal(proposal.ID(), matches[1].EntryID)
	s.Equal(commands.MatchProposed, matches[1].Kind)
	s.True(matches[1].Window.Equal(builder.Window(10, 30, 11, 0)), matches[1].Window.String())
}

func (s *EngineTestSuite) TestMatcher_AutoBookTakesTheUnbookedRemainder() {
	bb := builder.NewBookingBuilder()
	s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 30, 11, 0)))
	wide := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 2)
	s.Equal(wide.ID(), matches[1].EntryID)
	s.Equal(commands.MatchBooked, matches[1].Kind)
	s.True(matches[1].Window.Equal(builder.Window(10, 0, 10, 30)), matches[1].Window.String())
	s.False(s.staffFree(bb, [4]int{10, 0, 10, 30}))
}

func (s *EngineTestSuite) TestMatcher_GateDeniesAutoBook() {
	s.allowed[shared.FeatureWaitlistAutoBook] = false
	bb := builder.NewBookingBuilder()
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 1)
	s.Equal(commands.MatchProposed, matches[0].Kind)
	s.Equal(entry.ID(), matches[0].EntryID)
	s.Equal(waitlist.StatusActive, s.loadEntry(entry.ID()).Status())
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
}

func (s *EngineTestSuite) TestMatcher_CandidateFilters() {
	bb := builder.NewBookingBuilder()
	optionID := uuid.New()
	s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithStaff(uuid.New()))
	s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithOption(optionID))
	s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(11, 0, 12, 0)))
	s.enqueue(builder.NewWaitlistBuilder().With(func(w *builder.WaitlistBuilder) { w.ServiceID = bb.ServiceID }))
	sameStaff := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithStaff(*bb.StaffID))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 1)
	s.Equal(sameStaff.ID(), matches[0].EntryID)
}

func (s *EngineTestSuite) TestMatcher_NoCandidates() {
	matches := s.freeSlot(builder.NewBookingBuilder())

	s.NotNil(matches)
	s.Empty(matches)
}

func (s *EngineTestSuite) TestMatcher_SkipsWindowsThatAreNotFree() {
	bb := builder.NewBookingBuilder()
	blocked := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 30, 11, 30)))
	// Another booking already holds the staff member for the second half of the slot.
	s.Require().NoError(s.index.Reserve(bb.BranchID, availability.Staff(*bb.StaffID), builder.Window(10, 30, 11, 0), uuid.New()))

	b, err := bb.BuildDomain(s.clock.Now())
	s.Require().NoError(err)
	matches, err := s.matcher.OnSlotFreed(s.ctx, b.Freed())

	s.Require().NoError(err)
	s.Empty(matches)
	s.Equal(waitlist.StatusActive, s.loadEntry(blocked.ID()).Status())
}

func (s *EngineTestSuite) TestMatcher_FailedCandidateIsSkipped() {
	bb := builder.NewBookingBuilder()
	// The room exists in the index only, so persisting a booking that uses it fails.
	roomID := uuid.New()
	s.Require().NoError(s.index.SetCapacity(bb.BranchID, roomID, 1))
	failing := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 0, 10, 30)))
	proposal := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb).WithDesired(builder.Window(10, 30, 11, 0)).ProposalOnly())

	b, err := bb.WithResources(roomID).BuildDomain(s.clock.Now())
	s.Require().NoError(err)

	matches, err := s.matcher.OnSlotFreed(s.ctx, b.Freed())

	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(proposal.ID(), matches[0].EntryID)
	s.Equal(waitlist.StatusActive, s.loadEntry(failing.ID()).Status())
	s.True(s.index.IsFree(bb.BranchID, availability.Resource(roomID), builder.Window(10, 0, 11, 0)), "partial reservation must be released")
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.Empty(s.scheduled())
}

func (s *EngineTestSuite) TestMatcher_CancelledContext() {
	bb := builder.NewBookingBuilder()
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))
	b, err := bb.BuildDomain(s.clock.Now())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err = s.matcher.OnSlotFreed(ctx, b.Freed())

	s.ErrorIs(err, context.Canceled)
	s.Equal(waitlist.StatusActive, s.loadEntry(entry.ID()).Status())
}

func (s *EngineTestSuite) TestMatcher_BookedSlotCarriesThePrice() {
	bb := builder.NewBookingBuilder().WithServiceTotal("55.00")
	s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))

	matches := s.freeSlot(bb)

	s.Require().Len(matches, 1)
	created := s.loadBooking(*matches[0].BookingID)
	s.Equal("55.00", created.ServiceTotal().StringFixed(2))
	s.Equal(booking.StatusScheduled, created.Status())
}

var errSerializationFailure = errs.New("could not serialize access due to concurrent update (SQLSTATE 40001)")

// replayingUoW runs every write transaction twice, discarding the first attempt the
// way the postgres unit of work does after a serialization failure.
type replayingUoW struct {
	shared.UnitOfWork
	attempts int
}

func (u *replayingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	err := u.UnitOfWork.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u.attempts++
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errSerializationFailure
	})
	if !errs.Is(err, errSerializationFailure) {
		return err
	}
	return u.UnitOfWork.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u.attempts++
		return fn(ctx, tx)
	})
}

func (s *EngineTestSuite) TestMatcher_AutoBookSurvivesTransactionRetry() {
	bb := builder.NewBookingBuilder()
	entry := s.enqueue(builder.NewWaitlistBuilder().ForSlot(bb))
	freed, err := bb.BuildDomain(s.clock.Now())
	s.Require().NoError(err)

	uow := &replayingUoW{UnitOfWork: s.uow}
	logger := slog.New(slog.DiscardHandler)
	notifier := notify.NewOutboxNotifier(s.uow, s.clock)
	creator := commands.NewBookingCreator(uow, s.index, notifier, s.clock, shared.NopMetrics{}, logger)
	matcher := commands.NewMatcher(uow, s.index, creator, s.mockGate, notifier, shared.NopMetrics{}, logger)

	matches, err := matcher.OnSlotFreed(s.ctx, freed.Freed())

	s.Require().NoError(err)
	s.Equal(2, uow.attempts)
	s.Require().Len(matches, 1)
	s.Equal(commands.MatchBooked, matches[0].Kind)
	stored := s.loadEntry(entry.ID())
	s.Equal(waitlist.StatusMatched, stored.Status())
	s.Equal(matches[0].BookingID, stored.MatchedBooking())
	s.False(s.staffFree(bb, [4]int{10, 0, 11, 0}))
	s.Len(s.scheduled(), 1)
}
