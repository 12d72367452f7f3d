package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/storage"
)

type memMedium struct {
	values map[string][]byte
	saves  int
	fail   error
}

func newMem() *memMedium { return &memMedium{values: map[string][]byte{}} }

func (m *memMedium) Load(_ context.Context, key string) ([]byte, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (m *memMedium) Save(_ context.Context, key string, value []byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memMedium) Close() error { return nil }

func ms(d, hh, mm int) int64 {
	return time.Date(2026, 2, d, hh, mm, 0, 0, time.UTC).UnixMilli()
}

func gym() model.Activity {
	return model.Activity{Title: "Gym", Start: ms(9, 8, 0), End: ms(9, 9, 0), Color: model.ColorGreen, Recurrence: []int{3, 1}}
}

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func setupStore(t *testing.T, m storage.Medium) *Store {
	t.Helper()
	s, err := New(t.Context(), m, WithLocation(time.UTC), sequentialIDs())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestNewWithMissingKeyIsEmpty(t *testing.T) {
	s := setupStore(t, newMem())
	if len(s.All()) != 0 {
		t.Fatalf("expected empty store, got %d", len(s.All()))
	}
}

func TestNewRejectsCorruptPayload(t *testing.T) {
	m := newMem()
	m.values[DefaultKey] = []byte(`{"not":"an array"}`)
	_, err := New(t.Context(), m)
	if !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestAddAssignsIDAndPersists(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)
	got, err := s.Add(t.Context(), gym())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID != "id-1" {
		t.Fatalf("expected generated id, got %q", got.ID)
	}
	if got.Recurrence[0] != 1 || got.Recurrence[1] != 3 {
		t.Fatalf("expected normalized recurrence, got %v", got.Recurrence)
	}
	if m.saves != 1 {
		t.Fatalf("expected one write, got %d", m.saves)
	}

	var persisted []map[string]any
	if err := json.Unmarshal(m.values[DefaultKey], &persisted); err != nil {
		t.Fatalf("persisted value is not a JSON array: %v", err)
	}
	if len(persisted) != 1 || persisted[0]["id"] != "id-1" || persisted[0]["start"] != float64(ms(9, 8, 0)) {
		t.Fatalf("unexpected persisted value: %s", m.values[DefaultKey])
	}
	if _, ok := persisted[0]["description"]; ok {
		t.Fatal("empty description must be omitted")
	}
}

func TestAddDefaultsMissingColor(t *testing.T) {
	s := setupStore(t, newMem())
	a := gym()
	a.Color = ""
	got, err := s.Add(t.Context(), a)
	if err != nil {
		t.Fatalf("add without color: %v", err)
	}
	if got.Color != model.ColorBlue {
		t.Fatalf("expected default color, got %q", got.Color)
	}
	got.Color = " "
	if err := s.Update(t.Context(), got); err != nil {
		t.Fatalf("update without color: %v", err)
	}
	if stored, _ := s.Get(got.ID); stored.Color != model.ColorBlue {
		t.Fatalf("expected default color after update, got %q", stored.Color)
	}
}

func TestAddRejectsInvalidAndDuplicate(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)

	bad := gym()
	bad.Title = ""
	if _, err := s.Add(t.Context(), bad); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty title, got %v", err)
	}
	bad = gym()
	bad.End = bad.Start
	if _, err := s.Add(t.Context(), bad); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero duration, got %v", err)
	}

	a := gym()
	a.ID = "fixed"
	if _, err := s.Add(t.Context(), a); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add(t.Context(), a); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate id, got %v", err)
	}
	if m.saves != 1 {
		t.Fatalf("rejected adds must not persist, got %d writes", m.saves)
	}
}

func TestAddAllIsAtomic(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)
	bad := gym()
	bad.Recurrence = []int{9}
	if _, err := s.AddAll(t.Context(), []model.Activity{gym(), bad}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if s.Len() != 0 || m.saves != 0 {
		t.Fatalf("partial batch was stored: len=%d saves=%d", s.Len(), m.saves)
	}

	added, err := s.AddAll(t.Context(), []model.Activity{gym(), gym(), gym()})
	if err != nil {
		t.Fatalf("add all: %v", err)
	}
	if len(added) != 3 || m.saves != 1 {
		t.Fatalf("expected 3 activities in one write, got %d in %d", len(added), m.saves)
	}
}

func TestUpdate(t *testing.T) {
	s := setupStore(t, newMem())
	first, _ := s.Add(t.Context(), gym())
	second, _ := s.Add(t.Context(), gym())

	first.Title = "Swim"
	if err := s.Update(t.Context(), first); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := s.Get(first.ID)
	if !ok || got.Title != "Swim" {
		t.Fatalf("unexpected activity after update: %+v", got)
	}
	other, _ := s.Get(second.ID)
	if other.Title != "Gym" {
		t.Fatal("update touched an unrelated activity")
	}

	missing := gym()
	missing.ID = "nope"
	if err := s.Update(t.Context(), missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)
	a, _ := s.Add(t.Context(), gym())
	b, _ := s.Add(t.Context(), gym())
	writes := m.saves

	if err := s.Remove(t.Context(), "does-not-exist"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if m.saves != writes || s.Len() != 2 {
		t.Fatal("remove of unknown id mutated the store")
	}

	if err := s.Remove(t.Context(), a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("unexpected remaining activities: %+v", all)
	}
}

func TestClear(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)
	_, _ = s.AddAll(t.Context(), []model.Activity{gym(), gym()})
	if err := s.Clear(t.Context()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Len() != 0 || string(m.values[DefaultKey]) != "[]" {
		t.Fatalf("store not cleared: %s", m.values[DefaultKey])
	}
}

func TestPersistFailureLeavesMemoryUnchanged(t *testing.T) {
	m := newMem()
	s := setupStore(t, m)
	a, _ := s.Add(t.Context(), gym())

	m.fail = errors.New("disk full")
	if _, err := s.Add(t.Context(), gym()); !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if err := s.Remove(t.Context(), a.ID); !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if err := s.Clear(t.Context()); !errors.Is(err, model.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("failed writes changed memory: %d activities", s.Len())
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s := setupStore(t, newMem())
	_, _ = s.Add(t.Context(), gym())
	all := s.All()
	all[0].Title = "mutated"
	all[0].Recurrence[0] = 6
	again := s.All()
	if again[0].Title != "Gym" || again[0].Recurrence[0] != 1 {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestRoundTripThroughFileMedium(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	m, err := storage.OpenFile(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := setupStore(t, m)
	one := model.Activity{Title: "Dentist", Description: "bring card", Start: ms(10, 15, 0), End: ms(10, 16, 0), Color: model.Color("#ff8800")}
	if _, err := s.AddAll(t.Context(), []model.Activity{gym(), one}); err != nil {
		t.Fatalf("add all: %v", err)
	}

	m2, _ := storage.OpenFile(dir)
	reloaded, err := New(t.Context(), m2, WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want, got := s.All(), reloaded.All()
	if len(want) != len(got) {
		t.Fatalf("expected %d activities, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.ID != g.ID || w.Title != g.Title || w.Start != g.Start || w.End != g.End || w.Color != g.Color || w.Description != g.Description || len(w.Recurrence) != len(g.Recurrence) {
			t.Fatalf("activity %d did not round-trip: %+v vs %+v", i, w, g)
		}
	}
}

func TestReloadSkipsDuplicateIDs(t *testing.T) {
	m := newMem()
	m.values[DefaultKey] = []byte(`[{"id":"a","title":"A","start":0,"end":3600000,"color":"blue"},{"id":"a","title":"B","start":0,"end":3600000,"color":"red"}]`)
	s := setupStore(t, m)
	all := s.All()
	if len(all) != 1 || all[0].Title != "A" {
		t.Fatalf("unexpected activities: %+v", all)
	}
}
