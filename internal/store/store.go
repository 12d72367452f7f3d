// Package store owns the canonical list of activities. Every mutation is
// written through to the storage medium before it becomes visible.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/model"
	"github.com/sandeepkv93/weekgrid/internal/storage"
)

const DefaultKey = "savedEvents"

type Store struct {
	mu     sync.Mutex
	medium storage.Medium
	key    string
	loc    *time.Location
	newID  func() string
	log    logger.Logger
	items  []model.Activity
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New loads the collection saved under the store key. A medium that has
// never been written to yields an empty store.
func New(ctx context.Context, medium storage.Medium, opts ...Option) (*Store, error) {
	if medium == nil {
		return nil, errors.New("store: nil medium")
	}
	s := &Store{
		medium: medium,
		key:    DefaultKey,
		loc:    time.Local,
		newID:  uuid.NewString,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collection with what the medium holds now.
// Another writer's changes become visible this way; the last write wins.
func (s *Store) Reload(ctx context.Context) error {
	raw, err := s.medium.Load(ctx, s.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	items, err := decode(raw)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %w", model.ErrPersistence, s.key, err)
	}
	items = s.sanitize(items)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.log.Debug("store loaded", logger.String("key", s.key), logger.Int("activities", len(items)))
	return nil
}

func (s *Store) sanitize(items []model.Activity) []model.Activity {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, a := range items {
		if a.ID == "" || seen[a.ID] {
			s.log.Warn("dropping stored activity with missing or duplicate id", logger.String("id", a.ID), logger.String("title", a.Title))
			continue
		}
		seen[a.ID] = true
		if err := a.Validate(s.loc); err != nil {
			s.log.Warn("stored activity is invalid", logger.String("id", a.ID), logger.Error(err))
		}
		out = append(out, a)
	}
	return out
}

func (s *Store) Location() *time.Location { return s.loc }

// All returns a copy of the activities in insertion order.
func (s *Store) All() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.items)
}

func (s *Store) Get(id string) (model.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return model.Activity{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Add validates a, assigns an id and a default color when missing and
// appends it.
func (s *Store) Add(ctx context.Context, a model.Activity) (model.Activity, error) {
	added, err := s.AddAll(ctx, []model.Activity{a})
	if err != nil {
		return model.Activity{}, err
	}
	return added[0], nil
}

// AddAll appends a batch with a single write. Either every activity is
// stored or none is.
func (s *Store) AddAll(ctx context.Context, batch []model.Activity) ([]model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool, len(s.items)+len(batch))
	for _, a := range s.items {
		taken[a.ID] = true
	}
	added := make([]model.Activity, 0, len(batch))
	for _, a := range batch {
		a = a.Clone().WithDefaults()
		if a.ID == "" {
			a.ID = s.newID()
		}
		if taken[a.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", model.ErrValidation, a.ID)
		}
		if err := a.Validate(s.loc); err != nil {
			return nil, err
		}
		a.Recurrence = model.WeekdaySet(a.Recurrence).Normalized()
		taken[a.ID] = true
		added = append(added, a)
	}
	if len(added) == 0 {
		return added, nil
	}

	next := append(cloneAll(s.items), added...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.log.Info("activities added", logger.Int("count", len(added)))
	return cloneAll(added), nil
}

// Update replaces the activity with the same id and leaves the rest alone.
func (s *Store) Update(ctx context.Context, a model.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(a.ID)
	if i < 0 {
		return fmt.Errorf("%w: %q", model.ErrNotFound, a.ID)
	}
	a = a.Clone().WithDefaults()
	if err := a.Validate(s.loc); err != nil {
		return err
	}
	a.Recurrence = model.WeekdaySet(a.Recurrence).Normalized()

	next := cloneAll(s.items)
	next[i] = a
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Info("activity updated", logger.String("id", a.ID))
	return nil
}

// Remove deletes the activity with id. Removing an id that is not stored is
// a no-op and writes nothing, since views may hold ids that were already
// deleted elsewhere.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug("remove of unknown activity ignored", logger.String("id", id))
		return nil
	}
	next := slices.Delete(cloneAll(s.items), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Info("activity removed", logger.String("id", id))
	return nil
}

// Clear drops every activity. It cannot be undone.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, []model.Activity{}); err != nil {
		return err
	}
	s.log.Info("store cleared")
	return nil
}

// commit writes next to the medium and only then makes it current. Callers
// hold s.mu.
func (s *Store) commit(ctx context.Context, next []model.Activity) error {
	raw, err := encode(next)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", model.ErrPersistence, err)
	}
	if err := s.medium.Save(ctx, s.key, raw); err != nil {
		s.log.Error("persist failed", logger.String("key", s.key), logger.Error(err))
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	s.items = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, a := range s.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []model.Activity) []model.Activity {
	out := make([]model.Activity, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

func encode(items []model.Activity) ([]byte, error) {
	if items == nil {
		items = []model.Activity{}
	}
	return json.Marshal(items)
}

func decode(raw []byte) ([]model.Activity, error) {
	if len(raw) == 0 {
		return []model.Activity{}, nil
	}
	var items []model.Activity
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Activity{}
	}
	return items, nil
}
