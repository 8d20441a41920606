package domain

import (
	"fmt"
	"strings"
)

// Filter selects tasks of a day by completion state.
type Filter string

const (
	FilterActive    Filter = "active"    // Not yet completed
	FilterCompleted Filter = "completed" // Completed only
	FilterAll       Filter = "all"       // Everything
)

// AllFilters returns the filters in cycling order.
func AllFilters() []Filter {
	return []Filter{FilterActive, FilterAll, FilterCompleted}
}

// ParseFilter parses a filter name. An empty string yields FilterActive.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterActive, nil
	case FilterActive, FilterCompleted, FilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterAll:
		return true
	default:
		return !t.Completed
	}
}

// Apply returns the tasks that pass the filter, keeping their order.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Next returns the filter that follows f when cycling.
func (f Filter) Next() Filter {
	all := AllFilters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterActive
}

// Display returns a human-readable name for the filter.
func (f Filter) Display() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterAll:
		return "All"
	default:
		return "Active"
	}
}
