package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
)

// DefaultAutocloseInterval is how often the sweep runs when the
// configuration doesn't say otherwise.
const DefaultAutocloseInterval = 15 * time.Minute

// Autocloser is the batch job that force-closes overdue tasks: every
// task with a deadline strictly before today and a status other than
// done is transitioned to done, which stamps its at-closed timestamp.
//
// The sweep is stateless and idempotent; tasks already done are never
// selected, so an immediate re-run closes nothing.
type Autocloser struct {
	logger  zerolog.Logger
	storage storage.Storage
	// now is swappable for tests.
	now func() time.Time
}

func NewAutocloser(logger zerolog.Logger, store storage.Storage) *Autocloser {
	return &Autocloser{
		logger:  logger,
		storage: store,
		now:     time.Now,
	}
}

// Run performs one sweep and returns the number of tasks it closed.
//
// Each transition is an isolated unit: failing to close one task is
// logged and skipped without rolling back or aborting the rest.
func (a *Autocloser) Run(ctx context.Context) (int, error) {
	today := models.Today(a.now())

	overdue, err := a.storage.ListOverdue(ctx, today)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to list overdue tasks")
		return 0, err
	}

	closed := 0
	for _, task := range overdue {
		err = a.storage.ChangeTaskStatus(ctx, task.ProjectID, task.ID, models.StatusDone)
		if err != nil {
			a.logger.Warn().
				Err(err).
				Int64("task_id", task.ID).
				Int64("project_id", task.ProjectID).
				Msg("failed to close overdue task")
			continue
		}
		closed++
	}

	a.logger.Info().
		Int("closed", closed).
		Int("overdue", len(overdue)).
		Msg("autoclose sweep finished")
	return closed, nil
}

// RunEvery runs the sweep on the given interval until the context is
// cancelled. An errored sweep doesn't stop the loop.
func (a *Autocloser) RunEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAutocloseInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info().
		Dur("interval", interval).
		Msg("autoclose job started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("autoclose job stopped")
			return
		case <-ticker.C:
			if _, err := a.Run(ctx); err != nil {
				a.logger.Error().
					Err(err).
					Msg("autoclose sweep failed")
			}
		}
	}
}
