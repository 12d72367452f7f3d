package resolve

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/window"
)

func ms(y int, m time.Month, d, hh, mm int) int64 {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC).UnixMilli()
}

func TestResolveRecurringGymScenario(t *testing.T) {
	gym := model.Activity{
		ID:         "gym",
		Title:      "Gym",
		Start:      ms(2026, 2, 9, 8, 0),
		End:        ms(2026, 2, 9, 9, 0),
		Color:      model.ColorGreen,
		Recurrence: []int{1, 3},
	}
	w := window.Week(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	s, err := Resolve([]model.Activity{gym}, w, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 occurrences, got %d", s.Count())
	}
	mon := s.On(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC))
	wed := s.On(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	if len(mon) != 1 || len(wed) != 1 {
		t.Fatalf("expected monday and wednesday occurrences, got %d/%d", len(mon), len(wed))
	}
	if !wed[0].Start.Equal(time.Date(2026, 2, 11, 8, 0, 0, 0, time.UTC)) || !wed[0].End.Equal(time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected wednesday bounds %s-%s", wed[0].Start, wed[0].End)
	}
	if wed[0].InstanceKey() != "gym@2026-02-11" || mon[0].InstanceKey() == wed[0].InstanceKey() {
		t.Fatalf("unexpected instance keys %s %s", mon[0].InstanceKey(), wed[0].InstanceKey())
	}
}

func TestResolveRecurringIgnoresAnchorDate(t *testing.T) {
	// anchored years before the window
	a := model.Activity{
		ID:         "old",
		Title:      "Standup",
		Start:      ms(2019, 5, 6, 9, 30),
		End:        ms(2019, 5, 6, 9, 45),
		Color:      model.ColorBlue,
		Recurrence: []int{0, 1, 2, 3, 4, 5, 6},
	}
	w := window.Month(2026, 1, time.UTC)
	s, err := Resolve([]model.Activity{a}, w, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Count() != w.Len() {
		t.Fatalf("expected one occurrence per date (%d), got %d", w.Len(), s.Count())
	}
	for _, d := range s.Days {
		o := d.Occurrences[0]
		if o.StartTime.String() != "09:30" || o.EndTime.String() != "09:45" {
			t.Fatalf("time of day not preserved on %s: %s-%s", d.Date, o.StartTime, o.EndTime)
		}
		if !model.SameDate(o.Start, d.Date) {
			t.Fatalf("occurrence start %s not on %s", o.Start, d.Date)
		}
	}
}

func TestResolveOneOffMatchesExactDateOnly(t *testing.T) {
	a := model.Activity{
		ID:    "dentist",
		Title: "Dentist",
		Start: ms(2026, 2, 10, 15, 0),
		End:   ms(2026, 2, 10, 16, 0),
		Color: model.ColorRed,
	}
	in := window.Week(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	s, err := Resolve([]model.Activity{a}, in, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Count() != 1 || len(s.On(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))) != 1 {
		t.Fatalf("expected exactly one occurrence on tuesday, got %d", s.Count())
	}

	// Same weekday, next week: must not match by weekday coincidence.
	next := window.Week(time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC))
	s, err = Resolve([]model.Activity{a}, next, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("expected no occurrences outside the start date, got %d", s.Count())
	}
}

func TestResolveOrdersByStartTimeStable(t *testing.T) {
	day := func(id string, hh int) model.Activity {
		return model.Activity{ID: id, Title: id, Start: ms(2026, 2, 12, hh, 0), End: ms(2026, 2, 12, hh+1, 0), Color: model.ColorBlue}
	}
	acts := []model.Activity{day("late", 18), day("tie-a", 9), day("early", 7), day("tie-b", 9)}
	w := window.Week(time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC))
	first, err := Resolve(acts, w, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := first.On(time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC))
	want := []string{"early", "tie-a", "tie-b", "late"}
	for i, id := range want {
		if got[i].ActivityID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ActivityID)
		}
	}

	second, err := Resolve(acts, w, time.UTC)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := range first.Days {
		a, b := first.Days[i].Occurrences, second.Days[i].Occurrences
		if len(a) != len(b) {
			t.Fatalf("day %d differs between runs", i)
		}
		for j := range a {
			if a[j].InstanceKey() != b[j].InstanceKey() {
				t.Fatalf("day %d position %d differs between runs", i, j)
			}
		}
	}
}

func TestResolveFanOutMatchesWeekdayIntersection(t *testing.T) {
	sets := [][]int{{}, {0}, {6, 0}, {1, 2, 3, 4, 5}, {0, 1, 2, 3, 4, 5, 6}}
	w := window.Week(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	for _, set := range sets {
		a := model.Activity{ID: "r", Title: "r", Start: ms(2020, 1, 1, 10, 0), End: ms(2020, 1, 1, 11, 0), Color: model.ColorPurple, Recurrence: set}
		s, err := Resolve([]model.Activity{a}, w, time.UTC)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := len(set)
		if len(set) == 0 {
			want = 0 // one-off anchored in 2020
		}
		if s.Count() != want {
			t.Fatalf("recurrence %v: expected %d, got %d", set, want, s.Count())
		}
	}
}

func TestResolveRejectsInvalidActivity(t *testing.T) {
	bad := model.Activity{ID: "bad", Title: "Overnight", Start: ms(2026, 2, 9, 23, 0), End: ms(2026, 2, 10, 1, 0), Color: model.ColorBlue}
	_, err := Resolve([]model.Activity{bad}, window.Week(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)), time.UTC)
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
