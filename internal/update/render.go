package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/layout"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/views"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

func (m Model) slotData(s layout.Slot, day time.Time) views.SlotData {
	o := s.Occurrence
	return views.SlotData{
		Title:     o.Title,
		TimeRange: o.StartTime.String() + "-" + o.EndTime.String(),
		Color:     string(o.Color),
		Offset:    s.ClippedOffset,
		Duration:  s.ClippedDuration,
		Column:    s.StackIndex,
		Columns:   s.Columns,
		Selected:  o.ActivityID == m.SelectedID && model.SameDate(day, m.Focus),
	}
}

func (m Model) renderWeek() string {
	view := m.planner.View()
	data := views.WeekGridData{
		StartHour:   view.StartHour,
		EndHour:     view.EndHour,
		ColumnWidth: 16,
	}
	for _, day := range m.Board.Days {
		label := fmt.Sprintf("%s %d", window.WeekdayShort(day.Date.Weekday()), day.Date.Day())
		if model.SameDate(day.Date, m.Focus) {
			label = "[" + label + "]"
		}
		col := views.DayColumnData{Label: label, Today: day.Today}
		for _, s := range day.Slots {
			slot := m.slotData(s, day.Date)
			if !s.Visible {
				slot.Above = s.OffsetMinutes < 0
				slot.Below = !slot.Above
			}
			col.Slots = append(col.Slots, slot)
		}
		data.Days = append(data.Days, col)
	}
	return views.RenderWeekGrid(data)
}

func (m Model) renderMonth() string {
	data := views.MonthGridData{CellWidth: 16, MaxItems: 3}
	for _, d := range window.MondayFirst {
		data.Weekdays = append(data.Weekdays, window.WeekdayShort(d))
	}
	var week []views.MonthCellData
	for _, day := range m.Board.Days {
		cell := views.MonthCellData{
			Day:     day.Date.Day(),
			InMonth: day.InMonth,
			Today:   day.Today,
			Focused: model.SameDate(day.Date, m.Focus),
		}
		for _, s := range day.Slots {
			item := m.slotData(s, day.Date)
			item.TimeRange = s.Occurrence.StartTime.String()
			cell.Items = append(cell.Items, item)
		}
		week = append(week, cell)
		if len(week) == 7 {
			data.Weeks = append(data.Weeks, week)
			week = nil
		}
	}
	return views.RenderMonthGrid(data)
}

func (m Model) renderDetail() string {
	slot, ok := m.selectedSlot()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	o := slot.Occurrence
	data := views.DetailData{
		ID:          o.ActivityID,
		Title:       o.Title,
		Date:        fmt.Sprintf("%s %s", window.WeekdayName(o.Date.Weekday()), o.Date.Format(time.DateOnly)),
		TimeRange:   o.StartTime.String() + "-" + o.EndTime.String(),
		Description: o.Description,
		Color:       string(o.Color),
	}
	if a, err := m.planner.Activity(o.ActivityID); err == nil && a.IsRecurring() {
		data.Repeats = repeatsLabel(model.WeekdaySet(a.Recurrence))
	}
	if next, err := m.planner.Preview(o.ActivityID, 3); err == nil {
		for _, t := range next {
			data.Upcoming = append(data.Upcoming, t.Format("2006-01-02 15:04"))
		}
	}
	return views.RenderDetail(data)
}

// repeatsLabel lists the weekdays Monday first, e.g. "Lun, Mié".
func repeatsLabel(set model.WeekdaySet) string {
	var names []string
	for _, d := range window.MondayFirst {
		if set.Contains(d) {
			names = append(names, window.WeekdayShort(d))
		}
	}
	return strings.Join(names, ", ")
}
