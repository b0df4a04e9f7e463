package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/config"
	"github.com/AdamBeresnev/tournament-scheduler/internal/db"
	"github.com/AdamBeresnev/tournament-scheduler/internal/publish"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
	"github.com/AdamBeresnev/tournament-scheduler/internal/store"
	"github.com/AdamBeresnev/tournament-scheduler/views"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("tournament scheduler stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arena, closeArena, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeArena()

	notifiers := []service.ChampionNotifier{publish.LogNotifier{}}
	if cfg.R2.Enabled() {
		r2, err := publish.NewR2Publisher(ctx, cfg.R2)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, r2)
	}

	svc := service.NewTournamentService(arena, service.Options{
		GameName:     cfg.GameName,
		Mode:         cfg.Mode,
		MaxLosses:    cfg.MaxLosses,
		BestOf:       cfg.BestOf,
		EnqueueRate:  cfg.EnqueueRate,
		EnqueueBurst: cfg.EnqueueBurst,
		Notifiers:    notifiers,
	})
	if err := svc.Start(ctx); err != nil {
		return err
	}

	if cfg.HTTPAddr != "" {
		srv := &http.Server{Addr: cfg.HTTPAddr, Handler: newRouter(svc)}
		go func() {
			slog.Info("status server starting", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("status server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	_, runErr := svc.Run(ctx, cfg.RefreshInterval)
	if errors.Is(runErr, context.Canceled) {
		slog.Warn("caught interrupt, dumping bracket")
		runErr = nil
	}

	if err := dumpDOT(cfg.DOTOutput, svc); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func openStore(cfg *config.Config) (service.Store, func(), error) {
	if cfg.DBDriver == config.DriverPostgres {
		gormDB, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(gormDB), func() { sqlDB.Close() }, nil
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(database.DB, cfg.MigrationsPath); err != nil {
		database.Close()
		return nil, nil, err
	}
	return store.NewArenaStore(database), func() { database.Close() }, nil
}

// dumpDOT writes the bracket to path, or stdout when path is empty.
func dumpDOT(path string, svc *service.TournamentService) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	var err error
	svc.Snapshot(func(b *bracket.Bracket) {
		err = views.WriteDOT(w, b, svc.BestOf())
	})
	return err
}
