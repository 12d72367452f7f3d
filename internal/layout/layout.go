// Package layout places one day's occurrences on the vertical time grid.
package layout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/rdleal/intervalst/interval"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/resolve"
)

// View is the band of hours the grid shows. EndHour is exclusive; 24 means
// the grid runs to midnight.
type View struct {
	StartHour int
	EndHour   int
}

// DefaultView starts the grid at 01:00 and closes it at the midnight line.
var DefaultView = View{StartHour: 1, EndHour: 24}

func (v View) Validate() error {
	if v.StartHour < 0 || v.StartHour > 23 {
		return fmt.Errorf("%w: view start hour %d", model.ErrValidation, v.StartHour)
	}
	if v.EndHour <= v.StartHour || v.EndHour > 24 {
		return fmt.Errorf("%w: view end hour %d", model.ErrValidation, v.EndHour)
	}
	return nil
}

func (v View) Minutes() int { return (v.EndHour - v.StartHour) * 60 }

// Slot is an occurrence with its grid geometry, in minutes from the top of
// the view. OffsetMinutes is negative when the occurrence starts above the
// view. The Clipped fields describe the part inside the view and are only
// meaningful when Visible is true.
type Slot struct {
	Occurrence      resolve.Occurrence
	OffsetMinutes   int
	DurationMinutes int
	StackIndex      int
	Columns         int
	ZIndex          int
	Visible         bool
	ClippedOffset   int
	ClippedDuration int
}

var errEmptyOccurrence = errors.New("layout: occurrence ends before it starts")

// Day lays out the occurrences of a single date. Slots come back in start
// order. Occurrences that overlap are packed into side by side columns:
// StackIndex is the slot's column and Columns the width of its overlap group.
func Day(occs []resolve.Occurrence, view View) ([]Slot, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}
	for _, o := range occs {
		if o.EndTime <= o.StartTime {
			return nil, fmt.Errorf("%w: %w: %s", model.ErrValidation, errEmptyOccurrence, o.InstanceKey())
		}
	}

	order := make([]int, len(occs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(occs[a].StartTime, occs[b].StartTime)
	})

	// Keys are scaled by n and offset by index so identical spans stay
	// distinct in the tree. Hits are re-checked against real minutes.
	n := int64(len(occs))
	tree := interval.NewSearchTree[int](func(x, y int64) int { return cmp.Compare(x, y) })
	groups := newUnion(len(occs))
	slots := make([]Slot, len(occs))

	for rank, i := range order {
		o := occs[i]
		col := 0
		if hits, ok := tree.AllIntersections(int64(o.StartTime)*n, int64(o.EndTime)*n+n-1); ok {
			used := make(map[int]bool, len(hits))
			for _, j := range hits {
				if !overlaps(o, occs[j]) {
					continue
				}
				used[slots[j].StackIndex] = true
				groups.join(i, j)
			}
			for used[col] {
				col++
			}
		}
		if err := tree.Insert(int64(o.StartTime)*n+int64(i), int64(o.EndTime)*n+int64(i), i); err != nil {
			return nil, fmt.Errorf("layout: index %s: %w", o.InstanceKey(), err)
		}
		slots[i] = place(o, view)
		slots[i].StackIndex = col
		slots[i].ZIndex = 10 + rank
	}

	width := make(map[int]int)
	for i := range slots {
		root := groups.find(i)
		width[root] = max(width[root], slots[i].StackIndex+1)
	}
	out := make([]Slot, 0, len(order))
	for _, i := range order {
		slots[i].Columns = width[groups.find(i)]
		out = append(out, slots[i])
	}
	return out, nil
}

func overlaps(a, b resolve.Occurrence) bool {
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

func place(o resolve.Occurrence, view View) Slot {
	top := view.StartHour * 60
	bottom := view.EndHour * 60
	start, end := int(o.StartTime), int(o.EndTime)

	s := Slot{
		Occurrence:      o,
		OffsetMinutes:   start - top,
		DurationMinutes: end - start,
	}
	clipStart, clipEnd := max(start, top), min(end, bottom)
	if clipEnd > clipStart {
		s.Visible = true
		s.ClippedOffset = clipStart - top
		s.ClippedDuration = clipEnd - clipStart
	}
	return s
}

type union []int

func newUnion(n int) union {
	u := make(union, n)
	for i := range u {
		u[i] = i
	}
	return u
}

func (u union) find(i int) int {
	for u[i] != i {
		u[i] = u[u[i]]
		i = u[i]
	}
	return i
}

func (u union) join(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u[rb] = ra
	}
}
