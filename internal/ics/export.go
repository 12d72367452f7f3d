// Package ics writes the activity collection as an iCalendar feed.
package ics

import (
	"bytes"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/weekgrid/internal/model"
)

const productID = "-//weekgrid//calendar export//ES"

// Export renders one VEVENT per activity. Recurring activities are anchored
// on the first matching weekday on or after their stored start date and carry
// a weekly RRULE.
func Export(activities []model.Activity, loc *time.Location, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("weekgrid")

	for _, a := range activities {
		start, end := bounds(a, loc)
		ev := cal.AddEvent(a.ID + "@weekgrid")
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(a.Title)
		if a.Description != "" {
			ev.SetDescription(a.Description)
		}
		ev.SetColor(string(a.Color))
		if rule := model.RRule(a); rule != "" {
			ev.AddRrule(rule)
		}
	}
	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("ics: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// bounds moves a recurring activity's anchor forward to a date that is
// itself an occurrence, since DTSTART counts as the first instance.
func bounds(a model.Activity, loc *time.Location) (time.Time, time.Time) {
	if !a.IsRecurring() {
		return a.StartAt(loc), a.EndAt(loc)
	}
	day := a.AnchorDate(loc)
	set := model.WeekdaySet(a.Recurrence)
	for i := 0; i < 7 && !set.Contains(day.Weekday()); i++ {
		day = day.AddDate(0, 0, 1)
	}
	return a.StartTime(loc).On(day), a.EndTime(loc).On(day)
}
