package window

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("window start must be before its end")

// Window is a half-open time interval [from, to).
type Window struct {
	from time.Time
	to   time.Time
}

func New(from, to time.Time) (Window, error) {
	if !from.Before(to) {
		return Window{}, ErrInvalidWindow
	}
	return Window{from: from.UTC(), to: to.UTC()}, nil
}

// MustNew panics on an invalid window. Intended for fixtures and constants.
func MustNew(from, to time.Time) Window {
	w, err := New(from, to)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Window) From() time.Time { return w.from }
func (w Window) To() time.Time   { return w.to }

func (w Window) Duration() time.Duration {
	return w.to.Sub(w.from)
}

func (w Window) IsZero() bool {
	return w.from.IsZero() && w.to.IsZero()
}

// Overlaps uses half-open semantics: touching windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.from.Before(o.to) && o.from.Before(w.to)
}

func (w Window) Intersect(o Window) (Window, bool) {
	if !w.Overlaps(o) {
		return Window{}, false
	}
	from := w.from
	if o.from.After(from) {
		from = o.from
	}
	to := w.to
	if o.to.Before(to) {
		to = o.to
	}
	return Window{from: from, to: to}, true
}

func (w Window) Contains(o Window) bool {
	return !o.from.Before(w.from) && !o.to.After(w.to)
}

func (w Window) Equal(o Window) bool {
	return w.from.Equal(o.from) && w.to.Equal(o.to)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s,%s)", w.from.Format(time.RFC3339), w.to.Format(time.RFC3339))
}
