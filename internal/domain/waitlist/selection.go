package waitlist

import (
	"bytes"
	"slices"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

// Candidate is an eligible entry together with the part of the freed slot it can use.
type Candidate struct {
	Entry    *Entry
	Bookable window.Window
}

// Eligible applies the selection policy for a single entry against a freed slot.
func Eligible(e *Entry, slot booking.FreedSlot) bool {
	if !e.IsActive() || e.branchID != slot.BranchID || e.serviceID != slot.ServiceID {
		return false
	}
	if e.serviceOptionID != nil && !sameID(e.serviceOptionID, slot.ServiceOptionID) {
		return false
	}
	if e.staffID != nil && !sameID(e.staffID, slot.StaffID) {
		return false
	}
	return e.desired.Overlaps(slot.Window)
}

// SelectCandidates filters entries and orders them first-come-first-served,
// breaking createdAt ties by identifier.
func SelectCandidates(entries []*Entry, slot booking.FreedSlot) []Candidate {
	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if !Eligible(e, slot) {
			continue
		}
		bookable, _ := e.desired.Intersect(slot.Window)
		candidates = append(candidates, Candidate{Entry: e, Bookable: bookable})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := a.Entry.createdAt.Compare(b.Entry.createdAt); c != 0 {
			return c
		}
		return bytes.Compare(a.Entry.id[:], b.Entry.id[:])
	})
	return candidates
}

func sameID(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
