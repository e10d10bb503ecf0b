//go:build unit

package commands_test

import (
	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/ptr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
)

func (s *EngineTestSuite) TestCreateResource_RegistersCapacity() {
	branchID := uuid.New()
	roomID := s.resource(branchID, 3)

	occ, err := s.index.Occupancy(branchID, availability.Resource(roomID), builder.Window(10, 0, 11, 0))

	s.Require().NoError(err)
	s.Equal(availability.Occupancy{Used: 0, Capacity: 3}, occ)
}

func (s *EngineTestSuite) TestCreateResource_Rejections() {
	branchID := uuid.New()

	s.Run("staff", func() {
		staff := builder.NewActorBuilder().AsStaff(branchID).Build()
		input := builder.NewResourceBuilder().With(func(r *builder.ResourceBuilder) { r.BranchID = branchID }).BuildCreateInput()
		_, err := s.resources.CreateResource(s.ctx, staff, input)
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("branch admin of another branch", func() {
		outsider := builder.NewActorBuilder().AsBranchAdmin(uuid.New()).Build()
		input := builder.NewResourceBuilder().With(func(r *builder.ResourceBuilder) { r.BranchID = branchID }).BuildCreateInput()
		_, err := s.resources.CreateResource(s.ctx, outsider, input)
		s.assertKind(err, errs.ErrForbidden)
	})

	s.Run("zero quantity", func() {
		input := builder.NewResourceBuilder().With(func(r *builder.ResourceBuilder) { r.TotalQuantity = 0 }).BuildCreateInput()
		_, err := s.resources.CreateResource(s.ctx, s.admin, input)
		s.assertKind(err, errs.ErrInvalidInput)
	})
}

func (s *EngineTestSuite) TestUpdateResource_CapacityBelowAllocations() {
	branchID := uuid.New()
	roomID := s.resource(branchID, 2)
	s.book(builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID))
	s.book(builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID).WithWindow(builder.Window(10, 30, 11, 30)))

	_, err := s.resources.UpdateResource(s.ctx, s.admin, roomID, commands.UpdateResourceInput{
		Name:          ptr.Of("Renamed"),
		TotalQuantity: ptr.Of(1),
	})

	s.assertKind(err, errs.ErrCapacityBelowAllocations)
	occ, err := s.index.Occupancy(branchID, availability.Resource(roomID), builder.Window(10, 0, 12, 0))
	s.Require().NoError(err)
	s.Equal(2, occ.Capacity)
}

func (s *EngineTestSuite) TestUpdateResource() {
	branchID := uuid.New()
	roomID := s.resource(branchID, 1)
	s.book(builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID))
	branchAdmin := builder.NewActorBuilder().AsBranchAdmin(branchID).Build()

	res, err := s.resources.UpdateResource(s.ctx, branchAdmin, roomID, commands.UpdateResourceInput{
		Name:          ptr.Of("Large room"),
		TotalQuantity: ptr.Of(2),
	})

	s.Require().NoError(err)
	s.Equal("Large room", res.Name())
	s.Equal(2, res.TotalQuantity())
	s.book(builder.NewBookingBuilder().WithBranch(branchID).WithResources(roomID))

	_, err = s.resources.UpdateResource(s.ctx, s.admin, uuid.New(), commands.UpdateResourceInput{Name: ptr.Of("x")})
	s.assertKind(err, errs.ErrNotFound)
}
