//go:build unit

package commands_test

import (
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
)

func (s *EngineTestSuite) TestIndexMaintenance_Rebuild() {
	branchID := uuid.New()
	roomID := s.resource(branchID, 1)
	active := builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID)
	s.book(active)
	cancelled := builder.NewBookingBuilder().WithBranch(branchID).WithWindow(builder.Window(12, 0, 13, 0))
	b := s.book(cancelled)
	_, err := s.lifecycle.CancelBooking(s.ctx, s.admin, b.ID(), "")
	s.Require().NoError(err)

	fresh := availability.NewIndex()
	maintenance := commands.NewIndexMaintenance(s.uow, fresh, s.clock, time.Hour, slog.New(slog.DiscardHandler))
	s.Require().NoError(maintenance.Rebuild(s.ctx))

	s.False(fresh.IsFree(branchID, availability.Staff(*active.StaffID), builder.Window(10, 0, 11, 0)))
	s.False(fresh.IsFree(branchID, availability.Resource(roomID), builder.Window(10, 0, 11, 0)))
	s.True(fresh.IsFree(branchID, availability.Staff(*cancelled.StaffID), builder.Window(12, 0, 13, 0)))
	occ, err := fresh.Occupancy(branchID, availability.Resource(roomID), builder.Window(0, 0, 23, 0))
	s.Require().NoError(err)
	s.Equal(1, occ.Capacity)
}

func (s *EngineTestSuite) TestIndexMaintenance_RebuildSkipsEndedBookings() {
	bb := builder.NewBookingBuilder()
	s.book(bb)
	s.clock.Set(builder.At(11, 0))

	fresh := availability.NewIndex()
	maintenance := commands.NewIndexMaintenance(s.uow, fresh, s.clock, time.Hour, slog.New(slog.DiscardHandler))
	s.Require().NoError(maintenance.Rebuild(s.ctx))

	s.True(fresh.IsFree(bb.BranchID, availability.Staff(*bb.StaffID), builder.Window(10, 0, 11, 0)))
}

func (s *EngineTestSuite) TestIndexMaintenance_PruneHonoursRetention() {
	bb := builder.NewBookingBuilder()
	s.book(bb)

	s.clock.Set(builder.At(11, 30))
	s.Zero(s.maintenance.Prune(), "ended 30 minutes ago, within the retention")

	s.clock.Set(builder.At(12, 0))
	s.Equal(1, s.maintenance.Prune())
	s.True(s.staffFree(bb, [4]int{10, 0, 11, 0}))
}
