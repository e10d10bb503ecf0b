//go:build unit || e2e

package builder

import (
	"booking-engine/internal/domain/user"

	"github.com/google/uuid"
)

type ActorBuilder struct {
	UserID   uuid.UUID
	Role     user.Role
	BranchID *uuid.UUID
}

func NewActorBuilder() *ActorBuilder {
	return &ActorBuilder{
		UserID: uuid.New(),
		Role:   user.RoleAdmin,
	}
}

func (a *ActorBuilder) With(mutate func(*ActorBuilder)) *ActorBuilder {
	mutate(a)
	return a
}

func (a *ActorBuilder) Build() user.Actor {
	return user.Actor{UserID: a.UserID, Role: a.Role, BranchID: a.BranchID}
}

// Fluent builder methods
func (a *ActorBuilder) AsAdmin() *ActorBuilder {
	a.Role = user.RoleAdmin
	a.BranchID = nil
	return a
}

func (a *ActorBuilder) AsBranchAdmin(branchID uuid.UUID) *ActorBuilder {
	a.Role = user.RoleAdminBranch
	a.BranchID = &branchID
	return a
}

func (a *ActorBuilder) AsStaff(branchID uuid.UUID) *ActorBuilder {
	a.Role = user.RoleStaff
	a.BranchID = &branchID
	return a
}
