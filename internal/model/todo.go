package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MaxTitleLen caps todo titles, both user-entered and remote ones.
const MaxTitleLen = 100

// Todo is the domain model for a single task record.
// Ids are unique within a collection and never change once assigned.
type Todo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter names a predicate restricting the visible todo set.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterDone
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterDone:
		return "done"
	default:
		return "all"
	}
}

// Next cycles all -> active -> done -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterDone
	default:
		return FilterAll
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterDone:
		return t.Completed
	default:
		return true
	}
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active", "pending":
		return FilterActive, nil
	case "done", "completed":
		return FilterDone, nil
	}
	return FilterAll, fmt.Errorf("unknown filter: %q (want all|active|done)", s)
}

// SortBy names an ordering applied to the visible todo set.
type SortBy int

const (
	SortMostRecent SortBy = iota
	SortByID
)

func (s SortBy) String() string {
	if s == SortByID {
		return "id"
	}
	return "recent"
}

// Next toggles between the two orderings.
func (s SortBy) Next() SortBy {
	if s == SortMostRecent {
		return SortByID
	}
	return SortMostRecent
}

func ParseSortBy(s string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recent", "mostrecent", "most-recent":
		return SortMostRecent, nil
	case "id":
		return SortByID, nil
	}
	return SortMostRecent, fmt.Errorf("unknown sort: %q (want recent|id)", s)
}

// Visible derives the currently visible, ordered subset of items.
// Pure: the input slice is never mutated, the result is a fresh slice.
// The sort is stable; ties keep their original relative order.
func Visible(items []Todo, f Filter, s SortBy) []Todo {
	out := make([]Todo, 0, len(items))
	for _, t := range items {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	switch s {
	case SortByID:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	default: // most recent first
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// ClampTitle trims whitespace and truncates to MaxTitleLen runes.
func ClampTitle(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > MaxTitleLen {
		return string(r[:MaxTitleLen])
	}
	return s
}

// Stats counts completed and pending items.
func Stats(items []Todo) (done, pending int) {
	for _, t := range items {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
