// Package blacklist holds operator-curated exclusion sets and the filter
// that applies them.
package blacklist

import (
	"context"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind names the key space a blacklist applies to.
type Kind string

const (
	KindCompany Kind = "company" // exact company display names
	KindJob     Kind = "job"     // job ids
)

// ParseKind validates a kind given on the command line or in a URL.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCompany, KindJob:
		return k, nil
	default:
		return "", eris.Errorf("blacklist: unknown kind %q (want company or job)", s)
	}
}

// Set is an unordered set of exact identities.
type Set map[string]struct{}

// NewSet builds a set from values, ignoring blank entries.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v. Surrounding whitespace is trimmed; blank values are ignored.
func (s Set) Add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = struct{}{}
	}
}

// Remove deletes v if present.
func (s Set) Remove(v string) {
	delete(s, strings.TrimSpace(v))
}

// Contains reports whether v is in the set. A nil set contains nothing.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of entries.
func (s Set) Len() int { return len(s) }

// Sorted returns the entries in ascending order, for persistence and display.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Filter returns the items whose key is not in set, preserving order. An
// empty set returns items unchanged.
func Filter[T any](items []T, set Set, key func(T) string) []T {
	if len(set) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !set.Contains(key(item)) {
			out = append(out, item)
		}
	}
	return out
}

// Store persists one blacklist.
type Store interface {
	Get(ctx context.Context) (Set, error)
	Add(ctx context.Context, value string) error
	Remove(ctx context.Context, value string) error
	Write(ctx context.Context, set Set) error
}
