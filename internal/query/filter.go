// Package query implements the collection pipeline behind every admin list
// surface: conjunctive filtering, stable single-field sorting, fixed-size
// pagination, and derived per-entity metrics. Everything here is pure —
// functions never mutate their input collections.
package query

import "strings"

// AllSentinel is the select-filter value that bypasses the filter entirely.
const AllSentinel = "all"

// Predicate reports whether a single entity passes one named filter.
// Predicates never panic; absent fields are treated as empty.
type Predicate[T any] func(T) bool

// Filter returns the subset of items satisfying every predicate (logical AND).
// The result is a fresh slice; the input is left untouched. Filtering twice
// with the same predicates yields the same result.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))

outer:
	for _, item := range items {
		for _, p := range preds {
			if !p(item) {
				continue outer
			}
		}
		out = append(out, item)
	}

	return out
}

// TextContains builds a case-insensitive substring predicate over the field
// selected by get. An empty query matches everything.
func TextContains[T any](get func(T) string, query string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(item T) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(get(item)), q)
	}
}

// Equals builds an exact-match predicate for select filters. An empty
// selection or the "all" sentinel bypasses the filter.
func Equals[T any](get func(T) string, selected string) Predicate[T] {
	return func(item T) bool {
		if selected == "" || selected == AllSentinel {
			return true
		}
		return get(item) == selected
	}
}

// OneOf builds a set-membership predicate for multi-select filters. An empty
// selection bypasses the filter.
func OneOf[T any](get func(T) string, selected []string) Predicate[T] {
	if len(selected) == 0 {
		return func(T) bool { return true }
	}

	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}

	return func(item T) bool {
		_, ok := set[get(item)]
		return ok
	}
}
