package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Activity is the persisted calendar entry. Start and End are epoch
// milliseconds. For a recurring activity only their time of day matters; the
// date is an anchor.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Color       Color  `json:"color"`
	Description string `json:"description,omitempty"`
	Recurrence  []int  `json:"recurrence,omitempty"`
}

func (a Activity) Validate(loc *time.Location) error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if a.EndTime(loc) <= a.StartTime(loc) {
		return fmt.Errorf("%w: end %s must be after start %s", ErrValidation, a.EndTime(loc), a.StartTime(loc))
	}
	// A one-off activity's bounds are the occurrence itself.
	if !a.IsRecurring() {
		if a.End <= a.Start {
			return fmt.Errorf("%w: end must be after start", ErrValidation)
		}
		if !SameDate(a.StartAt(loc), a.EndAt(loc)) {
			return fmt.Errorf("%w: a one-off activity must start and end on the same day", ErrValidation)
		}
	}
	if err := WeekdaySet(a.Recurrence).Validate(); err != nil {
		return err
	}
	return nil
}

func (a Activity) IsRecurring() bool {
	return len(a.Recurrence) > 0
}

func (a Activity) StartAt(loc *time.Location) time.Time {
	return time.UnixMilli(a.Start).In(loc)
}

func (a Activity) EndAt(loc *time.Location) time.Time {
	return time.UnixMilli(a.End).In(loc)
}

func (a Activity) StartTime(loc *time.Location) TimeOfDay {
	return TimeOfDayOfMillis(a.Start, loc)
}

func (a Activity) EndTime(loc *time.Location) TimeOfDay {
	return TimeOfDayOfMillis(a.End, loc)
}

// AnchorDate is the calendar date embedded in Start.
func (a Activity) AnchorDate(loc *time.Location) time.Time {
	return DateOf(a.StartAt(loc), loc)
}

// WithDefaults fills the fields an incoming activity may leave blank.
func (a Activity) WithDefaults() Activity {
	if !a.Color.IsValid() {
		a.Color = ColorBlue
	}
	return a
}

// Clone returns a copy that shares no backing arrays with a.
func (a Activity) Clone() Activity {
	a.Recurrence = slices.Clone(a.Recurrence)
	return a
}
