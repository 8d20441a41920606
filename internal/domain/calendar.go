package domain

import "fmt"

// DefaultMaxPreview is the number of task previews shown in a calendar cell.
const DefaultMaxPreview = 3

// DayCell is one day of a month grid.
type DayCell struct {
	Preview    []Task // First tasks of the day in display order
	Date       Date
	Total      int  // All tasks of the day, completed included
	Overflow   int  // Tasks not shown in Preview
	IsToday    bool // Presentation only
	IsSelected bool // Presentation only
}

// OverflowLabel returns the marker for hidden tasks, or "" when none are hidden.
func (c DayCell) OverflowLabel() string {
	if c.Overflow <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", c.Overflow)
}

// MonthGrid is the calendar layout of a month with Sunday as the first column.
type MonthGrid struct {
	Days   []DayCell // One cell per day of month
	Month  Month
	Offset int // Blank cells before day 1 (weekday of the first, Sunday = 0)
}

// BuildMonthGrid lays out month and fills each day with up to maxPreview
// tasks sorted by time. A non-positive maxPreview uses DefaultMaxPreview.
func BuildMonthGrid(month Month, tasks []Task, today, selected Date, maxPreview int) MonthGrid {
	if maxPreview <= 0 {
		maxPreview = DefaultMaxPreview
	}

	byDay := make(map[Date][]Task)
	for _, t := range tasks {
		if t.Date.MonthOf() == month {
			byDay[t.Date] = append(byDay[t.Date], t)
		}
	}

	first := month.First()
	grid := MonthGrid{
		Month:  month,
		Offset: int(first.Weekday()),
		Days:   make([]DayCell, 0, month.Days()),
	}
	for i := range month.Days() {
		day := first.AddDays(i)
		dayTasks := byDay[day]
		SortByTime(dayTasks)

		cell := DayCell{
			Date:       day,
			Total:      len(dayTasks),
			IsToday:    day == today,
			IsSelected: day == selected,
		}
		if len(dayTasks) > maxPreview {
			cell.Preview = dayTasks[:maxPreview]
			cell.Overflow = len(dayTasks) - maxPreview
		} else {
			cell.Preview = dayTasks
		}
		grid.Days = append(grid.Days, cell)
	}
	return grid
}

// Weeks returns the grid as rows of seven cells. Leading and trailing
// positions outside the month are nil.
func (g MonthGrid) Weeks() [][]*DayCell {
	total := g.Offset + len(g.Days)
	rows := (total + 6) / 7
	weeks := make([][]*DayCell, rows)
	for r := range weeks {
		weeks[r] = make([]*DayCell, 7)
	}
	for i := range g.Days {
		pos := g.Offset + i
		weeks[pos/7][pos%7] = &g.Days[i]
	}
	return weeks
}

// Cell returns the cell for day, or nil when day is outside the grid's month.
func (g MonthGrid) Cell(day Date) *DayCell {
	if day.MonthOf() != g.Month || day.Day < 1 || day.Day > len(g.Days) {
		return nil
	}
	return &g.Days[day.Day-1]
}

// WeekdayHeaders returns the short weekday names, Sunday first.
func WeekdayHeaders() []string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
}
