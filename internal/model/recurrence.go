package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// WeekdaySet holds weekday indexes, 0=Sunday through 6=Saturday.
type WeekdaySet []int

func WeekdaySetOf(days ...time.Weekday) WeekdaySet {
	out := make(WeekdaySet, 0, len(days))
	for _, d := range days {
		out = append(out, int(d))
	}
	return out
}

func (s WeekdaySet) Validate() error {
	sorted := make([]int, 0, len(s))
	for _, d := range s {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrValidation, d)
		}
		sorted = append(sorted, d)
	}
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return fmt.Errorf("%w: duplicate weekday %d in recurrence", ErrValidation, sorted[i])
		}
	}
	return nil
}

func (s WeekdaySet) Contains(day time.Weekday) bool {
	for _, d := range s {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Normalized returns the set sorted ascending, or nil when empty.
func (s WeekdaySet) Normalized() WeekdaySet {
	if len(s) == 0 {
		return nil
	}
	out := make(WeekdaySet, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func (s WeekdaySet) rruleDays() []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(s))
	for _, d := range s.Normalized() {
		out = append(out, rruleWeekdays[d])
	}
	return out
}

// RRule renders the weekly rule of a recurring activity, e.g.
// "FREQ=WEEKLY;BYDAY=MO,WE". It returns "" for one-off activities.
func RRule(a Activity) string {
	if !a.IsRecurring() {
		return ""
	}
	opt := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: WeekdaySet(a.Recurrence).rruleDays()}
	return opt.RRuleString()
}

// Preview lists up to count start instants of a at or after from.
func Preview(a Activity, from time.Time, count int, loc *time.Location) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	if err := a.Validate(loc); err != nil {
		return nil, err
	}
	from = from.In(loc)
	if !a.IsRecurring() {
		start := a.StartAt(loc)
		if start.Before(from) {
			return []time.Time{}, nil
		}
		return []time.Time{start}, nil
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   a.StartTime(loc).On(DateOf(from, loc)),
		Byweekday: WeekdaySet(a.Recurrence).rruleDays(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	out := make([]time.Time, 0, count)
	next := r.Iterator()
	for len(out) < count {
		t, ok := next()
		if !ok {
			break
		}
		if t.Before(from) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
