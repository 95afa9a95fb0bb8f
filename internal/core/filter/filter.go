// Package filter implements the pure in-memory query layer used by list
// views: case-insensitive text search over configured fields, exact-match
// category filters, and inclusive date ranges, AND-combined and
// order-preserving. No I/O.
package filter

import (
	"strings"
	"time"
)

// Predicate reports whether an item passes one active filter.
type Predicate[T any] func(T) bool

// Apply returns the items passing every predicate, preserving input order.
// With no predicates the input is returned unchanged.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	if len(preds) == 0 {
		return items
	}
	var out []T
	for _, item := range items {
		pass := true
		for _, p := range preds {
			if !p(item) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, item)
		}
	}
	return out
}

// TextSearch matches items whose configured fields contain the query as a
// case-insensitive substring. An empty query matches everything, so an
// inactive search box costs nothing.
func TextSearch[T any](query string, fields func(T) []string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(item T) bool {
		if q == "" {
			return true
		}
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
}

// Exact matches items whose field equals want. An empty want is inactive.
func Exact[T any](want string, field func(T) string) Predicate[T] {
	return func(item T) bool {
		if want == "" {
			return true
		}
		return field(item) == want
	}
}

// DateRange matches items whose timestamp falls within [since, until],
// inclusive. A zero bound leaves that side open.
func DateRange[T any](since, until time.Time, field func(T) time.Time) Predicate[T] {
	active := !since.IsZero() || !until.IsZero()
	return func(item T) bool {
		ts := field(item)
		if ts.IsZero() {
			return !active
		}
		if !since.IsZero() && ts.Before(since) {
			return false
		}
		if !until.IsZero() && ts.After(until) {
			return false
		}
		return true
	}
}

// RFC3339Field adapts a string-timestamp accessor for DateRange. Records
// store timestamps as RFC3339 strings; unparseable values never match an
// active range.
func RFC3339Field[T any](field func(T) string) func(T) time.Time {
	return func(item T) time.Time {
		ts, err := time.Parse(time.RFC3339, field(item))
		if err != nil {
			return time.Time{}
		}
		return ts
	}
}
