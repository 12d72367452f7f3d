// Package resolve projects stored activities onto the dates of a window.
package resolve

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

// Occurrence is one activity placed on one date. It is derived on every
// resolve and never stored.
type Occurrence struct {
	ActivityID  string
	Title       string
	Description string
	Color       model.Color
	Recurring   bool
	Date        time.Time
	Start       time.Time
	End         time.Time
	StartTime   model.TimeOfDay
	EndTime     model.TimeOfDay
}

// InstanceKey identifies the occurrence among all others, since a recurring
// activity yields one occurrence per matching date.
func (o Occurrence) InstanceKey() string {
	return o.ActivityID + "@" + o.Date.Format(time.DateOnly)
}

func (o Occurrence) DurationMinutes() int {
	return int(o.EndTime - o.StartTime)
}

type Day struct {
	Date        time.Time
	Occurrences []Occurrence
}

// Schedule holds one Day per window date, in window order.
type Schedule struct {
	Window window.Window
	Days   []Day
}

func (s Schedule) On(date time.Time) []Occurrence {
	if i, ok := s.Window.Index(date); ok && i < len(s.Days) {
		return s.Days[i].Occurrences
	}
	return nil
}

func (s Schedule) Count() int {
	n := 0
	for _, d := range s.Days {
		n += len(d.Occurrences)
	}
	return n
}

// Resolve expands activities over w. One-off activities land only on the
// date of their start; recurring ones land on every window date whose weekday
// is in their recurrence set, whatever their anchor date. Each date's
// occurrences are ordered by start time of day, ties kept in input order.
func Resolve(activities []model.Activity, w window.Window, loc *time.Location) (Schedule, error) {
	for _, a := range activities {
		if err := a.Validate(loc); err != nil {
			return Schedule{}, fmt.Errorf("resolve activity %q: %w", a.ID, err)
		}
	}

	dates := w.Days()
	out := Schedule{Window: w, Days: make([]Day, 0, len(dates))}
	for _, d := range dates {
		date := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		day := Day{Date: date, Occurrences: []Occurrence{}}
		for _, a := range activities {
			if !matches(a, date, loc) {
				continue
			}
			day.Occurrences = append(day.Occurrences, project(a, date, loc))
		}
		slices.SortStableFunc(day.Occurrences, func(x, y Occurrence) int {
			return cmp.Compare(x.StartTime, y.StartTime)
		})
		out.Days = append(out.Days, day)
	}
	return out, nil
}

func matches(a model.Activity, date time.Time, loc *time.Location) bool {
	if !a.IsRecurring() {
		return model.SameDate(a.StartAt(loc), date)
	}
	return model.WeekdaySet(a.Recurrence).Contains(date.Weekday())
}

func project(a model.Activity, date time.Time, loc *time.Location) Occurrence {
	start, end := a.StartTime(loc), a.EndTime(loc)
	return Occurrence{
		ActivityID:  a.ID,
		Title:       a.Title,
		Description: a.Description,
		Color:       a.Color,
		Recurring:   a.IsRecurring(),
		Date:        date,
		Start:       start.On(date),
		End:         end.On(date),
		StartTime:   start,
		EndTime:     end,
	}
}
