// Package window computes the calendar dates shown by the week and month
// grids. Weeks start on Monday. Every date is local midnight in the
// location it was derived from.
package window

import (
	"time"
)

type Kind string

const (
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
)

// Window is an immutable run of consecutive dates, always a multiple of seven
// long and starting on a Monday.
type Window struct {
	kind Kind
	days []time.Time
}

// Month returns the grid for a calendar month, padded back to the Monday on
// or before the 1st and forward to the Sunday on or after the last day.
// monthIndex is zero based; values outside 0-11 roll into adjacent years.
func Month(year, monthIndex int, loc *time.Location) Window {
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	start := mondayOf(first)
	end := mondayOf(last).AddDate(0, 0, 6)
	return Window{kind: KindMonth, days: span(start, end)}
}

// Week returns the seven dates Monday through Sunday that contain anchor.
func Week(anchor time.Time) Window {
	start := mondayOf(anchor)
	return Window{kind: KindWeek, days: span(start, start.AddDate(0, 0, 6))}
}

func mondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

func span(start, end time.Time) []time.Time {
	out := make([]time.Time, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (w Window) Kind() Kind { return w.kind }

func (w Window) Len() int { return len(w.days) }

// Days returns a copy of the window's dates in order.
func (w Window) Days() []time.Time {
	out := make([]time.Time, len(w.days))
	copy(out, w.days)
	return out
}

func (w Window) Start() time.Time {
	if len(w.days) == 0 {
		return time.Time{}
	}
	return w.days[0]
}

// End is the exclusive upper bound: midnight after the last date.
func (w Window) End() time.Time {
	if len(w.days) == 0 {
		return time.Time{}
	}
	return w.days[len(w.days)-1].AddDate(0, 0, 1)
}

func (w Window) Contains(t time.Time) bool {
	_, ok := w.Index(t)
	return ok
}

// Index reports the position of t's calendar date within the window.
func (w Window) Index(t time.Time) (int, bool) {
	for i, d := range w.days {
		if SameDay(d, t.In(d.Location())) {
			return i, true
		}
	}
	return -1, false
}

// DateForWeekday returns the first date in the window falling on day.
func (w Window) DateForWeekday(day time.Weekday) (time.Time, bool) {
	for _, d := range w.days {
		if d.Weekday() == day {
			return d, true
		}
	}
	return time.Time{}, false
}

// Weeks splits the window into rows of seven dates.
func (w Window) Weeks() [][]time.Time {
	rows := make([][]time.Time, 0, len(w.days)/7)
	for i := 0; i+7 <= len(w.days); i += 7 {
		row := make([]time.Time, 7)
		copy(row, w.days[i:i+7])
		rows = append(rows, row)
	}
	return rows
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
