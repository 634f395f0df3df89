package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashabalin/go-taskboard/internal/config"
	"github.com/ashabalin/go-taskboard/internal/services"
	"github.com/ashabalin/go-taskboard/internal/storage"
	"github.com/ashabalin/go-taskboard/internal/storage/postgres"
)

// MustRunAutocloser drives the overdue sweep as its own process. With
// once set it performs a single sweep and returns; otherwise it runs
// on the configured interval until the process is signalled.
func MustRunAutocloser(once bool) {
	cfg := config.Global()

	store := postgres.New(globalLogger, globalPostgresPool, storage.Limits{
		MaxProjects: cfg.Limits.MaxProjects,
		MaxTasks:    cfg.Limits.MaxTasks,
	})
	autocloser := services.NewAutocloser(globalLogger, store)

	if once {
		closed, err := autocloser.Run(context.Background())
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("autoclose sweep failed")
			panic(err)
		}
		globalLogger.Info().
			Int("closed", closed).
			Msg("closed overdue tasks")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go autocloser.RunEvery(ctx, cfg.Autoclose.Interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().Msg("shutting down autoclose job")
}
