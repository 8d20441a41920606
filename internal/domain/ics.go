package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	icsDateLayout  = "20060102"
	icsLocalLayout = "20060102T150405"
	icsUTCLayout   = "20060102T150405Z"
)

// TimedEventDuration is the length given to exported tasks that have a time.
const TimedEventDuration = 30 * time.Minute

// BuildCalendarICS renders tasks as an iCalendar document with one VEVENT per
// task. Untimed tasks become all-day events; timed tasks start at their time
// in loc and last TimedEventDuration.
func BuildCalendarICS(tasks []Task, now time.Time, loc *time.Location) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//daybook//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format(icsUTCLayout)
	for _, t := range tasks {
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:task-%d@daybook", t.ID),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Text),
		)
		lines = append(lines, eventTimes(t, loc)...)
		if t.Completed {
			lines = append(lines, "STATUS:CONFIRMED", "X-DAYBOOK-COMPLETED:TRUE")
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n")
}

func eventTimes(t Task, loc *time.Location) []string {
	day := t.Date.In(loc)
	if !t.HasTime() {
		return []string{
			"DTSTART;VALUE=DATE:" + day.Format(icsDateLayout),
			"DTEND;VALUE=DATE:" + day.AddDate(0, 0, 1).Format(icsDateLayout),
		}
	}
	clock, err := time.Parse("15:04", t.Time)
	if err != nil {
		return []string{"DTSTART;VALUE=DATE:" + day.Format(icsDateLayout)}
	}
	start := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	end := start.Add(TimedEventDuration)
	return []string{
		"DTSTART:" + start.Format(icsLocalLayout),
		"DTEND:" + end.Format(icsLocalLayout),
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
