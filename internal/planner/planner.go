// Package planner is the application service behind the terminal and HTTP
// front ends: it turns store contents into laid-out boards and applies edits.
package planner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/ics"
	"github.com/sandeepkv93/weekgrid/internal/ingest"
	"github.com/sandeepkv93/weekgrid/internal/layout"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/resolve"
	"github.com/sandeepkv93/weekgrid/internal/store"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

type Options struct {
	View layout.View
	Now  func() time.Time
	Log  logger.Logger
	// Rand drives palette picks for imported entries without a color.
	Rand *rand.Rand
}

type Planner struct {
	store *store.Store
	view  layout.View
	loc   *time.Location
	now   func() time.Time
	log   logger.Logger
	rand  *rand.Rand
}

func New(st *store.Store, opts Options) *Planner {
	p := &Planner{
		store: st,
		view:  opts.View,
		loc:   st.Location(),
		now:   opts.Now,
		log:   opts.Log,
		rand:  opts.Rand,
	}
	if p.view == (layout.View{}) {
		p.view = layout.DefaultView
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.log == nil {
		p.log = logger.Nop()
	}
	return p
}

func (p *Planner) Location() *time.Location { return p.loc }

func (p *Planner) View() layout.View { return p.view }

// Today is the current date at local midnight.
func (p *Planner) Today() time.Time {
	return model.DateOf(p.now(), p.loc)
}

func (p *Planner) Activities() []model.Activity {
	return p.store.All()
}

func (p *Planner) Activity(id string) (model.Activity, error) {
	a, ok := p.store.Get(id)
	if !ok {
		return model.Activity{}, fmt.Errorf("%w: %q", model.ErrNotFound, id)
	}
	return a, nil
}

type BoardDay struct {
	Date    time.Time
	Slots   []layout.Slot
	InMonth bool
	Today   bool
}

type Board struct {
	Kind   window.Kind
	Title  string
	Window window.Window
	Days   []BoardDay
}

// Occurrences counts the slots on the whole board.
func (b Board) Occurrences() int {
	n := 0
	for _, d := range b.Days {
		n += len(d.Slots)
	}
	return n
}

// Week builds the board for the week containing anchor.
func (p *Planner) Week(anchor time.Time) (Board, error) {
	w := window.Week(anchor.In(p.loc))
	days := w.Days()
	first, last := days[0], days[len(days)-1]
	title := fmt.Sprintf("%d %s - %d %s %d",
		first.Day(), window.MonthName(int(first.Month())-1),
		last.Day(), window.MonthName(int(last.Month())-1), last.Year())
	return p.board(w, title, func(time.Time) bool { return true })
}

// Month builds the padded grid for a zero based month index.
func (p *Planner) Month(year, monthIndex int) (Board, error) {
	year, monthIndex = window.ShiftMonth(year, monthIndex, 0)
	w := window.Month(year, monthIndex, p.loc)
	title := fmt.Sprintf("%s %d", window.MonthName(monthIndex), year)
	return p.board(w, title, func(d time.Time) bool {
		return d.Year() == year && int(d.Month())-1 == monthIndex
	})
}

func (p *Planner) board(w window.Window, title string, inMonth func(time.Time) bool) (Board, error) {
	sched, err := resolve.Resolve(p.usable(), w, p.loc)
	if err != nil {
		return Board{}, err
	}
	today := p.Today()
	b := Board{Kind: w.Kind(), Title: title, Window: w, Days: make([]BoardDay, 0, len(sched.Days))}
	for _, day := range sched.Days {
		slots, err := layout.Day(day.Occurrences, p.view)
		if err != nil {
			return Board{}, err
		}
		b.Days = append(b.Days, BoardDay{
			Date:    day.Date,
			Slots:   slots,
			InMonth: inMonth(day.Date),
			Today:   model.SameDate(day.Date, today),
		})
	}
	return b, nil
}

// usable filters out stored activities that fail validation, which can only
// come from hand-edited or legacy data, so one bad entry does not blank the
// whole board.
func (p *Planner) usable() []model.Activity {
	all := p.store.All()
	out := all[:0]
	for _, a := range all {
		if err := a.Validate(p.loc); err != nil {
			p.log.Warn("skipping invalid activity", logger.String("id", a.ID), logger.Error(err))
			continue
		}
		out = append(out, a)
	}
	return out
}

// Draft is what the editor collects: a date, clock times and weekdays.
type Draft struct {
	Title       string
	Description string
	Date        time.Time
	From        string
	// To defaults to one hour after From.
	To       string
	Color    model.Color
	Weekdays []int
}

func (d Draft) activity(loc *time.Location) (model.Activity, error) {
	start, err := model.ParseTimeOfDay(d.From)
	if err != nil {
		return model.Activity{}, err
	}
	end := start + 60
	if strings.TrimSpace(d.To) != "" {
		if end, err = model.ParseTimeOfDay(d.To); err != nil {
			return model.Activity{}, err
		}
	}
	if end <= start || end >= model.MinutesPerDay {
		return model.Activity{}, fmt.Errorf("%w: end must be after start on the same day", model.ErrValidation)
	}
	color := d.Color
	if !color.IsValid() {
		color = model.ColorBlue
	}
	day := model.DateOf(d.Date, loc)
	return model.Activity{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Start:       start.On(day).UnixMilli(),
		End:         end.On(day).UnixMilli(),
		Color:       color,
		Recurrence:  model.WeekdaySet(d.Weekdays).Normalized(),
	}, nil
}

func (p *Planner) Create(ctx context.Context, d Draft) (model.Activity, error) {
	a, err := d.activity(p.loc)
	if err != nil {
		return model.Activity{}, err
	}
	return p.store.Add(ctx, a)
}

// Edit replaces every field of the activity id with the draft.
func (p *Planner) Edit(ctx context.Context, id string, d Draft) (model.Activity, error) {
	a, err := d.activity(p.loc)
	if err != nil {
		return model.Activity{}, err
	}
	a.ID = id
	if err := p.store.Update(ctx, a); err != nil {
		return model.Activity{}, err
	}
	return a, nil
}

// Replace stores a fully specified activity under its id.
func (p *Planner) Replace(ctx context.Context, a model.Activity) error {
	return p.store.Update(ctx, a)
}

// Add stores a fully specified activity, generating an id when missing.
func (p *Planner) Add(ctx context.Context, a model.Activity) (model.Activity, error) {
	return p.store.Add(ctx, a)
}

func (p *Planner) Delete(ctx context.Context, id string) error {
	return p.store.Remove(ctx, id)
}

func (p *Planner) Clear(ctx context.Context) error {
	return p.store.Clear(ctx)
}

// Import normalizes raw against the window the user is looking at and adds
// the result in one write.
func (p *Planner) Import(ctx context.Context, raw []byte, w window.Window) (ingest.Result, error) {
	n := ingest.Normalizer{Window: w, Loc: p.loc, Now: p.now, Rand: p.rand}
	res, err := n.Normalize(raw)
	if err != nil {
		p.log.Warn("import rejected", logger.String("shape", res.Shape.String()), logger.Int("skipped", res.Skipped), logger.Error(err))
		return res, err
	}
	added, err := p.store.AddAll(ctx, res.Activities)
	if err != nil {
		return ingest.Result{Shape: res.Shape, Skipped: res.Skipped}, err
	}
	res.Activities = added
	p.log.Info("import finished",
		logger.String("shape", res.Shape.String()),
		logger.Int("added", res.Added()),
		logger.Int("skipped", res.Skipped))
	return res, nil
}

// Preview lists the next count start instants of activity id from now on.
func (p *Planner) Preview(id string, count int) ([]time.Time, error) {
	a, err := p.Activity(id)
	if err != nil {
		return nil, err
	}
	return model.Preview(a, p.now(), count, p.loc)
}

func (p *Planner) ExportICS() ([]byte, error) {
	return ics.Export(p.store.All(), p.loc, p.now())
}
