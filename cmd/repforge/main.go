package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/repforge/internal/cli"
	"github.com/alexanderramin/repforge/internal/config"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/alexanderramin/repforge/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	repos := repository.NewSQLiteRepos(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Warnings about degraded state go to stderr; use-case tracing is opt-in.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engines := service.NewEngines(cat, cfg.Engine, logger)

	var logObserver service.UseCaseObserver
	if cfg.LogUseCases {
		logObserver = service.NewLogUseCaseObserver(os.Stderr)
	}
	observer := service.MultiUseCaseObserver(logObserver, service.NewMetricsUseCaseObserver())

	app := &cli.App{
		Programs:    service.NewProgramService(repos, uow, engines, logger, observer),
		Workouts:    service.NewWorkoutService(repos, uow, engines, logger, observer),
		Baselines:   service.NewBaselineService(repos, uow, engines, logger, observer),
		Progression: service.NewProgressionService(repos, uow, engines, logger, observer),
		Volume:      service.NewVolumeService(repos, engines, logger, observer),
		Catalog:     cat,
		Landmarks:   engines.Volume.Landmarks,
		MetricsAddr: cfg.MetricsAddr,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
