package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleAdminBranch Role = "admin_branch"
	RoleStaff       Role = "staff"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAdminBranch, RoleStaff:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor is the authenticated caller of a mutating operation. It is always passed
// explicitly; nothing in the engine reads a "current user" from ambient state.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	BranchID *uuid.UUID
}

func NewActor(userID uuid.UUID, role Role, branchID *uuid.UUID) (Actor, error) {
	if !role.IsValid() {
		return Actor{}, ErrInvalidRole
	}
	if role != RoleAdmin && branchID == nil {
		return Actor{}, errors.New("branch-scoped role requires a branch")
	}
	return Actor{UserID: userID, Role: role, BranchID: branchID}, nil
}

// CanAccessBranch reports whether the actor may act on records of the given branch.
// Admins are unscoped.
func (a Actor) CanAccessBranch(branchID uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return a.BranchID != nil && *a.BranchID == branchID
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleAdminBranch
}
