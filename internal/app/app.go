// Package app wires configuration, logging, storage and the planner into
// either the terminal UI or the HTTP server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/weekgrid/internal/config"
	"github.com/sandeepkv93/weekgrid/internal/httpserver"
	"github.com/sandeepkv93/weekgrid/internal/httpserver/deps"
	"github.com/sandeepkv93/weekgrid/internal/layout"
	"github.com/sandeepkv93/weekgrid/internal/logger"
	"github.com/sandeepkv93/weekgrid/internal/planner"
	"github.com/sandeepkv93/weekgrid/internal/redisconn"
	"github.com/sandeepkv93/weekgrid/internal/storage"
	"github.com/sandeepkv93/weekgrid/internal/store"
	"github.com/sandeepkv93/weekgrid/internal/update"
)

type Mode int

const (
	ModeTUI Mode = iota
	ModeServe
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	mode    Mode
	logger  logger.Logger
	medium  storage.Medium
	store   *store.Store
	planner *planner.Planner
}

// New builds every dependency. The caller must Close the result.
func New(ctx context.Context, cfg *config.Config, mode Mode) (*App, error) {
	logOpts := logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, File: cfg.Log.File}
	if mode == ModeTUI && logOpts.File == "" {
		// stderr belongs to the terminal UI.
		logOpts.File = config.DefaultLogPath()
	}
	if logOpts.File != "" {
		if err := os.MkdirAll(filepath.Dir(logOpts.File), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	loggerClient, err := logger.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	medium, err := OpenMedium(ctx, cfg.Storage, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("storage opened",
		logger.String("backend", cfg.Storage.Backend),
		logger.String("key", cfg.Storage.Key))

	st, err := store.New(ctx, medium,
		store.WithKey(cfg.Storage.Key),
		store.WithLocation(loc),
		store.WithLogger(loggerClient))
	if err != nil {
		_ = medium.Close()
		return nil, err
	}

	p := planner.New(st, planner.Options{
		View: layout.View{StartHour: cfg.View.StartHour, EndHour: cfg.View.EndHour},
		Log:  loggerClient,
	})

	return &App{
		cfg:     cfg,
		mode:    mode,
		logger:  loggerClient,
		medium:  medium,
		store:   st,
		planner: p,
	}, nil
}

// OpenMedium opens the configured storage backend.
func OpenMedium(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (storage.Medium, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.OpenFile(cfg.Path)
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		return storage.OpenSQLite(ctx, cfg.Path)
	case config.BackendRedis:
		opts := redisconn.DefaultOptions(cfg.Redis.Addr)
		opts.User = cfg.Redis.Username
		opts.Password = cfg.Redis.Password
		opts.DB = cfg.Redis.DB
		opts.ConnectTimeout = cfg.Redis.ConnectTimeout
		client, err := redisconn.Connect(ctx, opts, log)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisMedium(client, cfg.Redis.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (a *App) Planner() *planner.Planner { return a.planner }

// Run blocks in the selected mode until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	if a.mode == ModeServe {
		return a.serve(ctx)
	}
	return a.runTUI(ctx)
}

func (a *App) runTUI(ctx context.Context) error {
	m := update.NewModel(a.planner, update.Options{Context: ctx, Log: a.logger})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

func (a *App) serve(ctx context.Context) error {
	server := httpserver.New(a.cfg.Listen, a.logger, deps.Deps{
		Logger:    a.logger,
		StartTime: time.Now(),
		TimeNow:   time.Now,
		Planner:   a.planner,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	err := a.medium.Close()
	if err != nil {
		a.logger.Warnf("failed to close storage: %v", err)
	}
	_ = a.logger.Sync()
	return err
}
