package availability

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"booking-engine/internal/domain/window"

	"github.com/google/uuid"
)

const staffCapacity = 1

type reservation struct {
	bookingID uuid.UUID
	window    window.Window
}

type slotState struct {
	mu           sync.Mutex
	capacity     int
	reservations []reservation
}

// Index is the in-memory occupancy of staff and resources. Locks are held per key;
// the map lock only guards key creation and lookup.
type Index struct {
	mu    sync.RWMutex
	slots map[Key]*slotState

	ownersMu sync.Mutex
	owners   map[uuid.UUID][]Key
}

func NewIndex() *Index {
	return &Index{
		slots:  make(map[Key]*slotState),
		owners: make(map[uuid.UUID][]Key),
	}
}

// SetCapacity registers a resource or changes its capacity. Lowering is rejected when
// the peak concurrent reservations of the resource exceed the new capacity.
func (idx *Index) SetCapacity(branchID uuid.UUID, resourceID uuid.UUID, capacity int) error {
	if capacity < 1 {
		return ErrInvalidCapacity
	}
	key := Key{BranchID: branchID, Ref: Resource(resourceID)}
	st := idx.state(key, true)

	st.mu.Lock()
	defer st.mu.Unlock()

	if peak := peakConcurrency(st.reservations, nil); peak > capacity {
		return fmt.Errorf("%w: %d active, requested %d", ErrCapacityBelowAllocations, peak, capacity)
	}
	st.capacity = capacity
	return nil
}

func (idx *Index) IsFree(branchID uuid.UUID, ref Ref, w window.Window) bool {
	occ, err := idx.Occupancy(branchID, ref, w)
	if err != nil {
		return false
	}
	return occ.Free()
}

func (idx *Index) Occupancy(branchID uuid.UUID, ref Ref, w window.Window) (Occupancy, error) {
	key := Key{BranchID: branchID, Ref: ref}
	st := idx.state(key, false)
	if st == nil {
		if ref.Kind == KindStaff {
			return Occupancy{Used: 0, Capacity: staffCapacity}, nil
		}
		return Occupancy{}, ErrUnknownResource
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return Occupancy{Used: peakConcurrency(st.reservations, &w), Capacity: st.capacity}, nil
}

func (idx *Index) Reserve(branchID uuid.UUID, ref Ref, w window.Window, bookingID uuid.UUID) error {
	return idx.ReserveAll(branchID, []Ref{ref}, w, bookingID)
}

// ReserveAll reserves every ref for the booking or none of them.
func (idx *Index) ReserveAll(branchID uuid.UUID, refs []Ref, w window.Window, bookingID uuid.UUID) error {
	keys, states, err := idx.lockKeys(branchID, refs)
	if err != nil {
		return err
	}
	defer unlockAll(states)

	for i, st := range states {
		if peakConcurrency(withoutBooking(st.reservations, bookingID), &w) >= st.capacity {
			return fmt.Errorf("%w: %s %s", ErrConflict, keys[i].Ref, w)
		}
	}
	for _, st := range states {
		st.reservations = append(withoutBooking(st.reservations, bookingID), reservation{bookingID: bookingID, window: w})
	}
	idx.recordOwner(bookingID, keys)
	return nil
}

// Replace atomically moves a booking to new refs and window. On conflict the
// booking keeps its previous reservations.
func (idx *Index) Replace(branchID uuid.UUID, bookingID uuid.UUID, refs []Ref, w window.Window) error {
	previous := idx.ownedKeys(bookingID)
	all := slices.Clone(refs)
	for _, k := range previous {
		if k.BranchID == branchID {
			all = append(all, k.Ref)
		}
	}

	keys, states, err := idx.lockKeys(branchID, all)
	if err != nil {
		return err
	}
	defer unlockAll(states)

	wanted := make(map[Key]bool, len(refs))
	for _, ref := range refs {
		wanted[Key{BranchID: branchID, Ref: ref}] = true
	}

	for i, st := range states {
		if !wanted[keys[i]] {
			continue
		}
		if peakConcurrency(withoutBooking(st.reservations, bookingID), &w) >= st.capacity {
			return fmt.Errorf("%w: %s %s", ErrConflict, keys[i].Ref, w)
		}
	}

	var held []Key
	for i, st := range states {
		st.reservations = withoutBooking(st.reservations, bookingID)
		if wanted[keys[i]] {
			st.reservations = append(st.reservations, reservation{bookingID: bookingID, window: w})
			held = append(held, keys[i])
		}
	}
	idx.setOwner(bookingID, held)
	return nil
}

// Release drops every reservation held by the booking. Unknown bookings are a no-op.
func (idx *Index) Release(bookingID uuid.UUID) {
	idx.ownersMu.Lock()
	keys := idx.owners[bookingID]
	delete(idx.owners, bookingID)
	idx.ownersMu.Unlock()

	for _, key := range keys {
		st := idx.state(key, false)
		if st == nil {
			continue
		}
		st.mu.Lock()
		st.reservations = withoutBooking(st.reservations, bookingID)
		st.mu.Unlock()
	}
}

// Load replays persisted reservations. Seeds that no longer fit are returned so the
// caller can report them; the rest are indexed.
func (idx *Index) Load(seeds []Seed) []error {
	var failed []error
	for _, s := range seeds {
		if err := idx.ReserveAll(s.BranchID, s.Refs, s.Window, s.BookingID); err != nil {
			failed = append(failed, fmt.Errorf("booking %s: %w", s.BookingID, err))
		}
	}
	return failed
}

// Prune forgets reservations that ended at or before the cutoff and returns how many were dropped.
func (idx *Index) Prune(cutoff time.Time) int {
	idx.mu.RLock()
	keys := make([]Key, 0, len(idx.slots))
	for k := range idx.slots {
		keys = append(keys, k)
	}
	idx.mu.RUnlock()

	dropped := make(map[uuid.UUID][]Key)
	total := 0
	for _, key := range keys {
		st := idx.state(key, false)
		st.mu.Lock()
		kept := st.reservations[:0]
		for _, r := range st.reservations {
			if r.window.To().After(cutoff) {
				kept = append(kept, r)
				continue
			}
			dropped[r.bookingID] = append(dropped[r.bookingID], key)
			total++
		}
		st.reservations = kept
		st.mu.Unlock()
	}

	idx.ownersMu.Lock()
	for bookingID, gone := range dropped {
		remaining := slices.DeleteFunc(idx.owners[bookingID], func(k Key) bool { return slices.Contains(gone, k) })
		if len(remaining) == 0 {
			delete(idx.owners, bookingID)
		} else {
			idx.owners[bookingID] = remaining
		}
	}
	idx.ownersMu.Unlock()
	return total
}

func (idx *Index) state(key Key, create bool) *slotState {
	idx.mu.RLock()
	st, ok := idx.slots[key]
	idx.mu.RUnlock()
	if ok || !create {
		return st
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if st, ok = idx.slots[key]; ok {
		return st
	}
	st = &slotState{capacity: staffCapacity}
	idx.slots[key] = st
	return st
}

// lockKeys resolves and locks the states of refs in a global key order so that
// concurrent multi-key reservations cannot deadlock.
func (idx *Index) lockKeys(branchID uuid.UUID, refs []Ref) ([]Key, []*slotState, error) {
	keys := make([]Key, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, Key{BranchID: branchID, Ref: ref})
	}
	slices.SortFunc(keys, compareKeys)
	keys = slices.Compact(keys)

	states := make([]*slotState, 0, len(keys))
	for _, key := range keys {
		st := idx.state(key, key.Ref.Kind == KindStaff)
		if st == nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownResource, key.Ref)
		}
		states = append(states, st)
	}
	for _, st := range states {
		st.mu.Lock()
	}
	return keys, states, nil
}

func unlockAll(states []*slotState) {
	for i := len(states) - 1; i >= 0; i-- {
		states[i].mu.Unlock()
	}
}

func (idx *Index) recordOwner(bookingID uuid.UUID, keys []Key) {
	if len(keys) == 0 {
		return
	}
	idx.ownersMu.Lock()
	defer idx.ownersMu.Unlock()
	merged := append(idx.owners[bookingID], keys...)
	slices.SortFunc(merged, compareKeys)
	idx.owners[bookingID] = slices.Compact(merged)
}

func (idx *Index) setOwner(bookingID uuid.UUID, keys []Key) {
	idx.ownersMu.Lock()
	defer idx.ownersMu.Unlock()
	if len(keys) == 0 {
		delete(idx.owners, bookingID)
		return
	}
	idx.owners[bookingID] = keys
}

func (idx *Index) ownerCount() int {
	idx.ownersMu.Lock()
	defer idx.ownersMu.Unlock()
	return len(idx.owners)
}

func (idx *Index) ownedKeys(bookingID uuid.UUID) []Key {
	idx.ownersMu.Lock()
	defer idx.ownersMu.Unlock()
	return slices.Clone(idx.owners[bookingID])
}

func withoutBooking(rs []reservation, bookingID uuid.UUID) []reservation {
	out := make([]reservation, 0, len(rs))
	for _, r := range rs {
		if r.bookingID != bookingID {
			out = append(out, r)
		}
	}
	return out
}

// peakConcurrency returns the maximum number of reservations active at any instant,
// restricted to within when it is non-nil.
func peakConcurrency(rs []reservation, within *window.Window) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, 2*len(rs))
	for _, r := range rs {
		w := r.window
		if within != nil {
			clipped, ok := r.window.Intersect(*within)
			if !ok {
				continue
			}
			w = clipped
		}
		edges = append(edges, edge{at: w.From(), delta: 1}, edge{at: w.To(), delta: -1})
	}
	// Ends sort before starts at the same instant: [a,b) and [b,c) never coexist.
	slices.SortFunc(edges, func(a, b edge) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return a.delta - b.delta
	})

	peak, current := 0, 0
	for _, e := range edges {
		current += e.delta
		peak = max(peak, current)
	}
	return peak
}
