package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/weekgrid/internal/app"
	"github.com/sandeepkv93/weekgrid/internal/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	envFile := flag.String("env", ".env", "optional dotenv file")
	serve := flag.Bool("serve", false, "run the HTTP API instead of the terminal UI")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("weekgrid: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("weekgrid: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := app.ModeTUI
	if *serve {
		mode = app.ModeServe
	}
	a, err := app.New(ctx, cfg, mode)
	if err != nil {
		log.Fatalf("weekgrid failed to start: %v", err)
	}
	runErr := a.Run(ctx)
	_ = a.Close()
	if runErr != nil {
		log.Fatalf("weekgrid: %v", runErr)
	}
}
