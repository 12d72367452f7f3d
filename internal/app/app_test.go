package app

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/sandeepkv93/weekgrid/internal/config"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/planner"
)

func TestOpenMediumBackends(t *testing.T) {
	dir := t.TempDir()
	mr := miniredis.RunT(t)

	cases := map[string]config.StorageConfig{
		"file":   {Backend: config.BackendFile, Path: filepath.Join(dir, "data")},
		"sqlite": {Backend: config.BackendSQLite, Path: filepath.Join(dir, "db", "weekgrid.db")},
		"redis": {Backend: config.BackendRedis, Redis: config.RedisConfig{
			Addr: mr.Addr(), Prefix: "test:", ConnectTimeout: 2 * time.Second,
		}},
	}
	for name, sc := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := OpenMedium(t.Context(), sc, logger.Nop())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer m.Close()
			if err := m.Save(t.Context(), "savedEvents", []byte("[]")); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := m.Load(t.Context(), "savedEvents")
			if err != nil || string(got) != "[]" {
				t.Fatalf("load: %q, %v", got, err)
			}
		})
	}

	if _, err := OpenMedium(t.Context(), config.StorageConfig{Backend: "tape"}, logger.Nop()); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data")
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "weekgrid.log")
	return cfg
}

func TestNewSharesStoreAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(t.Context(), cfg, ModeServe)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := a.Planner().Create(t.Context(), planner.Draft{
		Title: "Gym",
		Date:  time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		From:  "07:00",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := New(t.Context(), cfg, ModeServe)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if got := len(b.Planner().Activities()); got != 1 {
		t.Fatalf("expected persisted activity, got %d", got)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Listen = freeAddr(t)

	a, err := New(t.Context(), cfg, ModeServe)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://" + cfg.Listen + "/healthz"
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("healthz status %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
