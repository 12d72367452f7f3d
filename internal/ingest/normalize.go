// Package ingest turns schedules exported from other tools into activities.
package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

// Normalizer maps a raw payload onto activities anchored in Window, which
// should be the window the user is looking at.
type Normalizer struct {
	Window window.Window
	Loc    *time.Location
	Now    func() time.Time
	// Rand picks palette colors for entries that carry none.
	Rand  *rand.Rand
	NewID func() string
}

type Result struct {
	Shape      Shape
	Activities []model.Activity
	// Skipped counts entries that matched the schema but could not be used.
	Skipped int
}

func (r Result) Added() int { return len(r.Activities) }

type listItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Days        []any  `json:"days"`
	Color       string `json:"color"`
}

type academicItem struct {
	Inicio  string          `json:"inicio"`
	Fin     string          `json:"fin"`
	Curso   string          `json:"curso"`
	Seccion json.RawMessage `json:"seccion"`
	Codigo  json.RawMessage `json:"codigo"`
}

type course struct {
	Nombre   string            `json:"nombre"`
	Seccion  json.RawMessage   `json:"seccion"`
	Docente  json.RawMessage   `json:"docente"`
	Horarios []json.RawMessage `json:"horarios"`
}

type courseSlot struct {
	Dia    string `json:"dia"`
	Inicio string `json:"inicio"`
	Fin    string `json:"fin"`
}

// Normalize parses raw and returns the activities it describes. It fails
// with model.ErrFormat when the payload matches no schema or yields nothing.
func (n Normalizer) Normalize(raw []byte) (Result, error) {
	p, err := match(raw)
	if err != nil {
		return Result{}, err
	}

	res := Result{Shape: p.Shape}
	switch p.Shape {
	case ShapeList:
		n.fromList(p.List, &res)
	case ShapeAcademic:
		n.fromAcademic(p.Academic, &res)
	case ShapePlan:
		n.fromPlan(p.Courses, &res)
	}
	if len(res.Activities) == 0 {
		return res, fmt.Errorf("%w: no activities found in %s payload (%d skipped)", model.ErrFormat, p.Shape, res.Skipped)
	}
	return res, nil
}

func (n Normalizer) fromList(items []json.RawMessage, res *Result) {
	for _, raw := range items {
		var it listItem
		if err := json.Unmarshal(raw, &it); err != nil || strings.TrimSpace(it.Title) == "" || it.StartTime == "" || it.EndTime == "" {
			res.Skipped++
			continue
		}
		days, ok := foldDays(it.Days)
		if !ok {
			res.Skipped++
			continue
		}
		anchor := n.today()
		if len(days) > 0 {
			if d, found := n.Window.DateForWeekday(time.Weekday(days[0])); found {
				anchor = d
			}
		}
		color := model.Color(strings.TrimSpace(it.Color))
		if !color.IsValid() {
			color = n.pickColor()
		}
		n.emit(res, anchor, it.StartTime, it.EndTime, model.Activity{
			Title:       strings.TrimSpace(it.Title),
			Description: it.Description,
			Color:       color,
			Recurrence:  days,
		})
	}
}

func (n Normalizer) fromAcademic(days []member, res *Result) {
	for _, day := range days {
		var items []json.RawMessage
		if err := json.Unmarshal(day.Value, &items); err != nil {
			continue
		}
		wd, ok := ParseWeekday(day.Key)
		if !ok {
			res.Skipped += len(items)
			continue
		}
		for _, raw := range items {
			var it academicItem
			if err := json.Unmarshal(raw, &it); err != nil || strings.TrimSpace(it.Curso) == "" {
				res.Skipped++
				continue
			}
			n.emitOnWeekday(res, wd, it.Inicio, it.Fin, model.Activity{
				Title:       strings.TrimSpace(it.Curso),
				Description: fmt.Sprintf("Aula: %s - Código: %s", scalarText(it.Seccion), scalarText(it.Codigo)),
			})
		}
	}
}

func (n Normalizer) fromPlan(courses []json.RawMessage, res *Result) {
	for _, raw := range courses {
		var c course
		if err := json.Unmarshal(raw, &c); err != nil {
			res.Skipped++
			continue
		}
		for _, slotRaw := range c.Horarios {
			var s courseSlot
			if err := json.Unmarshal(slotRaw, &s); err != nil || strings.TrimSpace(c.Nombre) == "" {
				res.Skipped++
				continue
			}
			wd, ok := ParseWeekday(s.Dia)
			if !ok {
				res.Skipped++
				continue
			}
			n.emitOnWeekday(res, wd, s.Inicio, s.Fin, model.Activity{
				Title:       strings.TrimSpace(c.Nombre),
				Description: strings.TrimSpace(fmt.Sprintf("Secc: %s - %s", scalarText(c.Seccion), scalarText(c.Docente))),
			})
		}
	}
}

// emitOnWeekday anchors a single-weekday recurring activity on that weekday's
// date in the window.
func (n Normalizer) emitOnWeekday(res *Result, wd time.Weekday, from, to string, a model.Activity) {
	anchor, ok := n.Window.DateForWeekday(wd)
	if !ok {
		res.Skipped++
		return
	}
	a.Color = n.pickColor()
	a.Recurrence = []int{int(wd)}
	n.emit(res, anchor, from, to, a)
}

func (n Normalizer) emit(res *Result, anchor time.Time, from, to string, a model.Activity) {
	start, err := model.ParseTimeOfDay(from)
	if err != nil {
		res.Skipped++
		return
	}
	end, err := model.ParseTimeOfDay(to)
	if err != nil || end <= start {
		res.Skipped++
		return
	}
	day := model.DateOf(anchor, n.loc())
	a.ID = n.newID()
	a.Start = start.On(day).UnixMilli()
	a.End = end.On(day).UnixMilli()
	if err := a.Validate(n.loc()); err != nil {
		res.Skipped++
		return
	}
	res.Activities = append(res.Activities, a)
}

// foldDays converts weekday numbers, folding 7 onto Sunday. Duplicates
// after folding collapse, first occurrence kept.
func foldDays(in []any) ([]int, bool) {
	if len(in) == 0 {
		return nil, true
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		var d int
		switch x := v.(type) {
		case float64:
			if x != math.Trunc(x) {
				return nil, false
			}
			d = int(x)
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, false
			}
			d = i
		default:
			return nil, false
		}
		if d < 0 {
			return nil, false
		}
		d %= 7
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, true
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (n Normalizer) loc() *time.Location {
	if n.Loc != nil {
		return n.Loc
	}
	return time.Local
}

func (n Normalizer) today() time.Time {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return now().In(n.loc())
}

func (n Normalizer) pickColor() model.Color {
	if n.Rand != nil {
		return model.Palette[n.Rand.IntN(len(model.Palette))]
	}
	return model.Palette[rand.IntN(len(model.Palette))]
}

func (n Normalizer) newID() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}
