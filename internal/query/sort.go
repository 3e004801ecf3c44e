package query

import (
	"slices"
	"strings"
	"time"
)

// Direction is the tri-state sort affordance.
type Direction int

// Sort directions. Unsorted preserves insertion order.
const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// Comparator orders two entities: negative if a < b, zero if equal,
// positive if a > b. Comparators define the ascending order.
type Comparator[T any] func(a, b T) int

// Sorter orders a collection by one selectable field at a time.
// Register comparators per field, then drive the state with Toggle.
type Sorter[T any] struct {
	fields map[string]Comparator[T]
	field  string
	dir    Direction
}

// NewSorter creates a Sorter with no field selected.
func NewSorter[T any]() *Sorter[T] {
	return &Sorter[T]{fields: make(map[string]Comparator[T])}
}

// Register associates a comparator with a field name.
func (s *Sorter[T]) Register(field string, cmp Comparator[T]) {
	s.fields[field] = cmp
}

// Toggle advances the sort state for the given field: selecting a new field
// sorts ascending, selecting the current field flips the direction.
func (s *Sorter[T]) Toggle(field string) {
	if field != s.field {
		s.field = field
		s.dir = Ascending
		return
	}

	switch s.dir {
	case Ascending:
		s.dir = Descending
	default:
		s.dir = Ascending
	}
}

// Reset clears the sort selection, restoring insertion order.
func (s *Sorter[T]) Reset() {
	s.field = ""
	s.dir = Unsorted
}

// State returns the currently selected field and direction.
func (s *Sorter[T]) State() (field string, dir Direction) {
	return s.field, s.dir
}

// Apply returns a sorted copy of items per the current state. With no field
// selected (or an unregistered field) the copy keeps insertion order.
// The sort is stable: equal keys preserve their relative order.
func (s *Sorter[T]) Apply(items []T) []T {
	out := slices.Clone(items)

	cmp, ok := s.fields[s.field]
	if !ok || s.dir == Unsorted {
		return out
	}

	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp(a, b)
		if s.dir == Descending {
			return -c
		}
		return c
	})

	return out
}

// ByString builds a case-insensitive string comparator over the field
// selected by get.
func ByString[T any](get func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

// ByTime builds a comparator over the field selected by get, ordering by
// epoch timestamp. Nil times sort first under ascending.
func ByTime[T any](get func(T) *time.Time) Comparator[T] {
	return func(a, b T) int {
		ta, tb := get(a), get(b)
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return -1
		case tb == nil:
			return 1
		}
		return ta.Compare(*tb)
	}
}

// ByFloat builds a numeric comparator over the field selected by get.
func ByFloat[T any](get func(T) float64) Comparator[T] {
	return func(a, b T) int {
		fa, fb := get(a), get(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
}

// ByBool builds a comparator where true sorts first under ascending.
func ByBool[T any](get func(T) bool) Comparator[T] {
	return func(a, b T) int {
		ba, bb := get(a), get(b)
		switch {
		case ba == bb:
			return 0
		case ba:
			return -1
		}
		return 1
	}
}
