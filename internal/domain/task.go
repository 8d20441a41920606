// Package domain contains core business entities and interfaces.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Task is a single to-do item pinned to a calendar date.
// Field order matches the stored JSON key order.
type Task struct {
	ID        int64  `json:"id"` // Creation timestamp in Unix milliseconds
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Date      Date   `json:"date"`           // Day the task belongs to (immutable)
	Time      string `json:"time,omitempty"` // HH:MM, empty means no fixed time
}

// HasTime reports whether the task is scheduled at a fixed time of day.
func (t Task) HasTime() bool {
	return t.Time != ""
}

// Label returns the task text followed by its time, e.g. "Call mom (18:30)".
func (t Task) Label() string {
	if !t.HasTime() {
		return t.Text
	}
	return t.Text + " (" + t.Time + ")"
}

// NormalizeText trims surrounding whitespace and reports whether anything is left.
func NormalizeText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ParseClock validates an HH:MM time of day. An empty string is valid and
// means "no fixed time". Single-digit hours are padded ("9:05" -> "09:05").
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t.Format("15:04"), nil
}

// NextID returns the id for a task created at now. Ids are creation timestamps
// in milliseconds, bumped past last so two tasks created within the same
// millisecond stay distinct.
func NextID(now time.Time, last int64) int64 {
	return max(now.UnixMilli(), last+1)
}

// MaxID returns the largest id in tasks, or 0 when tasks is empty.
func MaxID(tasks []Task) int64 {
	var m int64
	for _, t := range tasks {
		m = max(m, t.ID)
	}
	return m
}

// SortByTime orders tasks in place: timed tasks ascending by time, untimed
// tasks after them. Ties keep their insertion order.
func SortByTime(tasks []Task) {
	slices.SortStableFunc(tasks, compareByTime)
}

func compareByTime(a, b Task) int {
	switch {
	case !a.HasTime() && !b.HasTime():
		return 0
	case !a.HasTime():
		return 1
	case !b.HasTime():
		return -1
	default:
		return strings.Compare(a.Time, b.Time)
	}
}

// TasksOn returns the tasks dated day, sorted by SortByTime.
// The result is a fresh slice; tasks is not modified.
func TasksOn(tasks []Task, day Date) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Date == day {
			out = append(out, t)
		}
	}
	SortByTime(out)
	return out
}

// TasksBetween returns the tasks dated within [from, to] inclusive,
// ordered by date and then by SortByTime.
func TasksBetween(tasks []Task, from, to Date) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Date.Between(from, to) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b Task) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return compareByTime(a, b)
	})
	return out
}

// CountCompleted returns how many tasks are completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// FindTask returns the index of the task with id, or -1.
func FindTask(tasks []Task, id int64) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}
