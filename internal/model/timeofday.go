package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock position within a day, in whole minutes after
// midnight.
type TimeOfDay int

const MinutesPerDay TimeOfDay = 24 * 60

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: time of day %02d:%02d out of range", ErrValidation, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay reads "HH:MM" (a single-digit hour is accepted).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: time of day %q is not HH:MM", ErrValidation, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("%w: time of day %q is not HH:MM", ErrValidation, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("%w: time of day %q is not HH:MM", ErrValidation, s)
	}
	return NewTimeOfDay(hour, minute)
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func TimeOfDayOfMillis(ms int64, loc *time.Location) TimeOfDay {
	return TimeOfDayOf(time.UnixMilli(ms).In(loc))
}

func (d TimeOfDay) Hour() int   { return int(d) / 60 }
func (d TimeOfDay) Minute() int { return int(d) % 60 }

// On returns a new instant on the calendar date of day at this time of day.
func (d TimeOfDay) On(day time.Time) time.Time {
	y, m, dd := day.Date()
	return time.Date(y, m, dd, d.Hour(), d.Minute(), 0, 0, day.Location())
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour(), d.Minute())
}

// DateOf truncates t to local midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
