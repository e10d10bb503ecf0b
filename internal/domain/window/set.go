package window

import (
	"slices"
	"time"
)

// Set is a normalized union of windows: sorted, non-overlapping, non-adjacent.
type Set struct {
	parts []Window
}

func (s *Set) Add(w Window) {
	parts := append(slices.Clone(s.parts), w)
	slices.SortFunc(parts, func(a, b Window) int { return a.from.Compare(b.from) })

	merged := parts[:0:0]
	for _, p := range parts {
		if n := len(merged); n > 0 && !p.from.After(merged[n-1].to) {
			if p.to.After(merged[n-1].to) {
				merged[n-1].to = p.to
			}
			continue
		}
		merged = append(merged, p)
	}
	s.parts = merged
}

// Covers reports whether every instant of w lies in the set.
func (s *Set) Covers(w Window) bool {
	for _, p := range s.parts {
		if p.Contains(w) {
			return true
		}
	}
	return false
}

// Gaps returns the parts of w not in the set, in order.
func (s *Set) Gaps(w Window) []Window {
	var gaps []Window
	cursor := w.from
	for _, p := range s.parts {
		if !p.to.After(cursor) {
			continue
		}
		if !p.from.Before(w.to) {
			break
		}
		if p.from.After(cursor) {
			gaps = append(gaps, Window{from: cursor, to: p.from})
		}
		cursor = p.to
		if !cursor.Before(w.to) {
			return gaps
		}
	}
	return append(gaps, Window{from: cursor, to: w.to})
}

func (s *Set) Total() time.Duration {
	var d time.Duration
	for _, p := range s.parts {
		d += p.Duration()
	}
	return d
}

func (s *Set) Windows() []Window {
	return slices.Clone(s.parts)
}
