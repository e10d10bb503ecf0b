package availability

import (
	"bytes"
	"errors"

	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

var (
	ErrConflict                 = errors.New("capacity exhausted for window")
	ErrUnknownResource          = errors.New("resource is not registered in the index")
	ErrCapacityBelowAllocations = errors.New("capacity below active allocations")
	ErrInvalidCapacity          = errors.New("capacity must be at least 1")
)

type Kind string

const (
	KindStaff    Kind = "staff"
	KindResource Kind = "resource"
)

// Ref names one staff member or one countable resource.
type Ref struct {
	Kind Kind
	ID   uuid.UUID
}

func Staff(id uuid.UUID) Ref    { return Ref{Kind: KindStaff, ID: id} }
func Resource(id uuid.UUID) Ref { return Ref{Kind: KindResource, ID: id} }

func (r Ref) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// Key scopes a reference to its branch; it is the unit of locking.
type Key struct {
	BranchID uuid.UUID
	Ref      Ref
}

func compareKeys(a, b Key) int {
	if c := bytes.Compare(a.BranchID[:], b.BranchID[:]); c != 0 {
		return c
	}
	if a.Ref.Kind != b.Ref.Kind {
		if a.Ref.Kind < b.Ref.Kind {
			return -1
		}
		return 1
	}
	return bytes.Compare(a.Ref.ID[:], b.Ref.ID[:])
}

// Seed is a persisted reservation replayed into the index on startup.
type Seed struct {
	BranchID  uuid.UUID
	BookingID uuid.UUID
	Refs      []Ref
	Window    window.Window
}

// Occupancy is the peak concurrent use of a key within a window.
type Occupancy struct {
	Used     int
	Capacity int
}

func (o Occupancy) Free() bool {
	return o.Used < o.Capacity
}
