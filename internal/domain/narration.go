package domain

import (
	"fmt"
	"math"
	"strings"
)

// SummaryWindowDays is the length of the trailing summary window, the
// reference day included.
const SummaryWindowDays = 7

// NarrationSystemPrompt is the instruction sent ahead of every narration prompt.
const NarrationSystemPrompt = "You are a concise task assistant. Keep replies under 100 characters, " +
	"friendly and upbeat, focused on what matters, with concrete and doable suggestions."

// EmptyDayMessage is shown when the reference day has no tasks at all.
const EmptyDayMessage = "Nothing scheduled for today. Enjoy a relaxed day!"

// NarrationKind identifies which narration a request produces.
type NarrationKind string

const (
	NarrationReminder NarrationKind = "reminder"
	NarrationSummary  NarrationKind = "summary"
)

// NarrationSource records where narration text came from.
type NarrationSource string

const (
	SourceAI       NarrationSource = "ai"       // Generated by the chat-completion service
	SourceFallback NarrationSource = "fallback" // Deterministic local template
	SourceEmpty    NarrationSource = "empty"    // Fixed message for an empty day
)

// Narration is the text shown in the assistant panel.
type Narration struct {
	Text   string          `json:"text"`
	Source NarrationSource `json:"source"`
}

// DayBreakdown splits the tasks of one day by completion state.
type DayBreakdown struct {
	Pending   []Task
	Completed []Task
	Day       Date
}

// BreakdownDay collects the tasks dated day. Both halves are sorted by time.
func BreakdownDay(tasks []Task, day Date) DayBreakdown {
	b := DayBreakdown{Day: day}
	for _, t := range TasksOn(tasks, day) {
		if t.Completed {
			b.Completed = append(b.Completed, t)
		} else {
			b.Pending = append(b.Pending, t)
		}
	}
	return b
}

// Total returns the number of tasks on the day.
func (b DayBreakdown) Total() int {
	return len(b.Pending) + len(b.Completed)
}

// PendingList renders the pending tasks as "text (HH:MM), text".
func (b DayBreakdown) PendingList() string {
	labels := make([]string, len(b.Pending))
	for i, t := range b.Pending {
		labels[i] = t.Label()
	}
	return strings.Join(labels, ", ")
}

// Prompt returns the reminder request sent to the narration service.
func (b DayBreakdown) Prompt() string {
	var sb strings.Builder
	sb.WriteString("Write a short note based on today's tasks:\n")
	fmt.Fprintf(&sb, "Pending: %d\n", len(b.Pending))
	fmt.Fprintf(&sb, "Completed: %d\n", len(b.Completed))
	fmt.Fprintf(&sb, "To do: %s\n\n", b.PendingList())
	sb.WriteString("Reply briefly with:\n")
	sb.WriteString("1. A comment on progress (under 20 words)\n")
	sb.WriteString("2. A suggestion for the pending tasks (under 50 words)\n")
	sb.WriteString("3. Encouragement (under 20 words)")
	return sb.String()
}

// Fallback returns the reminder used when the narration service is unavailable.
func (b DayBreakdown) Fallback() string {
	text := fmt.Sprintf("You have %d tasks today: %d done, %d still pending.",
		b.Total(), len(b.Completed), len(b.Pending))
	if len(b.Pending) > 0 {
		text += "\n\nTackle these first: " + b.PendingList()
	}
	return text
}

// WeekStats summarizes the trailing window ending on To.
type WeekStats struct {
	From      Date
	To        Date
	Total     int
	Completed int
}

// TrailingWeek counts the tasks in [day-6, day].
func TrailingWeek(tasks []Task, day Date) WeekStats {
	w := WeekStats{From: day.AddDays(-(SummaryWindowDays - 1)), To: day}
	for _, t := range tasks {
		if !t.Date.Between(w.From, w.To) {
			continue
		}
		w.Total++
		if t.Completed {
			w.Completed++
		}
	}
	return w
}

// Rate returns the completion rate of the window as a whole percentage.
func (w WeekStats) Rate() int {
	return CompletionRate(w.Completed, w.Total)
}

// CompletionRate returns round(completed/total*100), or 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Prompt returns the summary request sent to the narration service.
func (w WeekStats) Prompt() string {
	var sb strings.Builder
	sb.WriteString("Write a short weekly summary from these numbers:\n")
	fmt.Fprintf(&sb, "Total tasks: %d\n", w.Total)
	fmt.Fprintf(&sb, "Completed: %d\n", w.Completed)
	fmt.Fprintf(&sb, "Completion rate: %d%%\n\n", w.Rate())
	sb.WriteString("Reply briefly with:\n")
	sb.WriteString("1. A comment on this week's performance (under 40 words)\n")
	sb.WriteString("2. A suggestion for improvement (under 40 words)")
	return sb.String()
}

// Fallback returns the summary used when the narration service is unavailable.
func (w WeekStats) Fallback() string {
	rate := w.Rate()
	text := fmt.Sprintf("📊 7-day completion rate: %d%%\n", rate)
	switch {
	case rate >= 80:
		text += "🌟 Fantastic! Keep the momentum going!"
	case rate >= 50:
		text += "💪 Solid progress, keep it up!"
	default:
		text += "🎯 Let's work together to raise the completion rate!"
	}
	return text
}
