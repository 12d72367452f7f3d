package storage

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*RedisMedium, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	m, err := NewRedisMedium(client, "")
	if err != nil {
		t.Fatalf("new redis medium: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, srv
}

func TestRedisMedium(t *testing.T) {
	m, _ := setupRedis(t)
	exerciseMedium(t, m)
}

func TestRedisMediumUsesPrefix(t *testing.T) {
	m, srv := setupRedis(t)
	if err := m.Save(t.Context(), "savedEvents", []byte("[]")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := srv.Get("weekgrid:savedEvents")
	if err != nil {
		t.Fatalf("miniredis get: %v", err)
	}
	if got != "[]" {
		t.Fatalf("unexpected stored value %q", got)
	}
}
