package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName    = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong  = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidTotalQuantity = errors.New("total quantity must be at least 1")
)

const (
	MaxResourceNameLength = 255
)

// Resource is a countable asset of a branch (chairs, rooms). TotalQuantity is the
// number of units that may be allocated concurrently.
type Resource struct {
	id            uuid.UUID
	branchID      uuid.UUID
	name          string
	totalQuantity int
	createdAt     time.Time
	updatedAt     time.Time
}

func NewResource(branchID uuid.UUID, name string, totalQuantity int, now time.Time) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}

	if err := validateTotalQuantity(totalQuantity); err != nil {
		return nil, err
	}

	return &Resource{
		id:            uuid.New(),
		branchID:      branchID,
		name:          strings.TrimSpace(name),
		totalQuantity: totalQuantity,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructResource(id, branchID uuid.UUID, name string, totalQuantity int, createdAt, updatedAt time.Time) *Resource {
	return &Resource{
		id:            id,
		branchID:      branchID,
		name:          name,
		totalQuantity: totalQuantity,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (r *Resource) Rename(name string, now time.Time) error {
	if err := validateResourceName(name); err != nil {
		return err
	}
	r.name = strings.TrimSpace(name)
	r.updatedAt = now
	return nil
}

// ChangeTotalQuantity validates the unit count only. Whether active allocations still
// fit is decided by the availability index, which owns occupancy.
func (r *Resource) ChangeTotalQuantity(n int, now time.Time) error {
	if err := validateTotalQuantity(n); err != nil {
		return err
	}
	r.totalQuantity = n
	r.updatedAt = now
	return nil
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func validateTotalQuantity(n int) error {
	if n < 1 {
		return ErrInvalidTotalQuantity
	}
	return nil
}

func (r *Resource) ID() uuid.UUID        { return r.id }
func (r *Resource) BranchID() uuid.UUID  { return r.branchID }
func (r *Resource) Name() string         { return r.name }
func (r *Resource) TotalQuantity() int   { return r.totalQuantity }
func (r *Resource) CreatedAt() time.Time { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time { return r.updatedAt }
