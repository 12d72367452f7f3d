package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/httpserver/deps"
	"github.com/sandeepkv93/weekgrid/internal/layout"
	"github.com/sandeepkv93/weekgrid/internal/planner"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

type slotResponse struct {
	InstanceKey     string `json:"instanceKey"`
	ActivityID      string `json:"activityId"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Color           string `json:"color"`
	Recurring       bool   `json:"recurring"`
	Start           string `json:"start"`
	End             string `json:"end"`
	OffsetMinutes   int    `json:"offsetMinutes"`
	DurationMinutes int    `json:"durationMinutes"`
	Column          int    `json:"column"`
	Columns         int    `json:"columns"`
	ZIndex          int    `json:"zIndex"`
	Visible         bool   `json:"visible"`
	ClippedOffset   int    `json:"clippedOffset"`
	ClippedDuration int    `json:"clippedDuration"`
}

type dayResponse struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	InMonth bool           `json:"inMonth"`
	Today   bool           `json:"today"`
	Slots   []slotResponse `json:"slots"`
}

// boardResponse lists the window from Start through End, both inclusive.
type boardResponse struct {
	Kind      string        `json:"kind"`
	Title     string        `json:"title"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	StartHour int           `json:"startHour"`
	EndHour   int           `json:"endHour"`
	Days      []dayResponse `json:"days"`
}

func toSlot(s layout.Slot) slotResponse {
	o := s.Occurrence
	return slotResponse{
		InstanceKey:     o.InstanceKey(),
		ActivityID:      o.ActivityID,
		Title:           o.Title,
		Description:     o.Description,
		Color:           string(o.Color),
		Recurring:       o.Recurring,
		Start:           o.StartTime.String(),
		End:             o.EndTime.String(),
		OffsetMinutes:   s.OffsetMinutes,
		DurationMinutes: s.DurationMinutes,
		Column:          s.StackIndex,
		Columns:         s.Columns,
		ZIndex:          s.ZIndex,
		Visible:         s.Visible,
		ClippedOffset:   s.ClippedOffset,
		ClippedDuration: s.ClippedDuration,
	}
}

func toBoard(b planner.Board, view layout.View) boardResponse {
	out := boardResponse{
		Kind:      string(b.Kind),
		Title:     b.Title,
		Start:     b.Window.Start().Format(time.DateOnly),
		End:       b.Window.End().AddDate(0, 0, -1).Format(time.DateOnly),
		StartHour: view.StartHour,
		EndHour:   view.EndHour,
		Days:      make([]dayResponse, 0, len(b.Days)),
	}
	for _, day := range b.Days {
		dr := dayResponse{
			Date:    day.Date.Format(time.DateOnly),
			Weekday: window.WeekdayName(day.Date.Weekday()),
			InMonth: day.InMonth,
			Today:   day.Today,
			Slots:   make([]slotResponse, 0, len(day.Slots)),
		}
		for _, s := range day.Slots {
			dr.Slots = append(dr.Slots, toSlot(s))
		}
		out.Days = append(out.Days, dr)
	}
	return out
}

// dateParam reads ?name=YYYY-MM-DD, falling back to today.
func dateParam(r *http.Request, name string, p *planner.Planner) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return p.Today(), true
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, p.Location())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func Week(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		anchor, ok := dateParam(r, "date", d.Planner)
		if !ok {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		b, err := d.Planner.Week(anchor)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, toBoard(b, d.Planner.View()))
	}
}

// Month serves ?year=2026&month=2, with month counted from 1.
func Month(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, idx := window.MonthOf(d.Planner.Today())
		q := r.URL.Query()
		if raw := q.Get("year"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil || y < 1 || y > 9999 {
				badRequest(w, "year must be a number between 1 and 9999")
				return
			}
			year = y
		}
		if raw := q.Get("month"); raw != "" {
			m, err := strconv.Atoi(raw)
			if err != nil || m < 1 || m > 12 {
				badRequest(w, "month must be between 1 and 12")
				return
			}
			idx = m - 1
		}
		b, err := d.Planner.Month(year, idx)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, toBoard(b, d.Planner.View()))
	}
}
