package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
	"github.com/ashabalin/go-taskboard/internal/storage/memory"
)

func TestAutocloserRun(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})

	project, err := store.AddProject(ctx, "Alpha", "first project")
	require.NoError(t, err)

	yesterday := models.Today(time.Now()).AddDate(0, 0, -1)

	// T1 has no deadline, T2 expired yesterday and is still todo.
	t1, err := store.AddTask(ctx, storage.AddTaskParams{
		ProjectID: project.ID, Title: "T1", Description: "no deadline",
	})
	require.NoError(t, err)
	t2, err := store.AddTask(ctx, storage.AddTaskParams{
		ProjectID: project.ID, Title: "T2", Description: "expired", Deadline: &yesterday,
	})
	require.NoError(t, err)

	autocloser := NewAutocloser(zerolog.Nop(), store)
	closed, err := autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	tasks, err := store.ListTasks(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		switch task.ID {
		case t1.ID:
			assert.Equal(t, models.StatusTodo, task.Status)
			assert.Nil(t, task.AtClosed)
		case t2.ID:
			assert.Equal(t, models.StatusDone, task.Status)
			require.NotNil(t, task.AtClosed)
			assert.WithinDuration(t, time.Now(), *task.AtClosed, time.Minute)
		}
	}
}

func TestAutocloserRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})

	project, err := store.AddProject(ctx, "Alpha", "first project")
	require.NoError(t, err)

	yesterday := models.Today(time.Now()).AddDate(0, 0, -1)
	_, err = store.AddTask(ctx, storage.AddTaskParams{
		ProjectID: project.ID, Title: "expired", Description: "d", Deadline: &yesterday,
	})
	require.NoError(t, err)

	autocloser := NewAutocloser(zerolog.Nop(), store)

	closed, err := autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	closed, err = autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestAutocloserRun_SpansProjects(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})

	yesterday := models.Today(time.Now()).AddDate(0, 0, -1)
	for _, name := range []string{"Alpha", "Beta"} {
		project, err := store.AddProject(ctx, name, "description")
		require.NoError(t, err)
		_, err = store.AddTask(ctx, storage.AddTaskParams{
			ProjectID: project.ID, Title: "expired", Description: "d", Deadline: &yesterday,
		})
		require.NoError(t, err)
	}

	autocloser := NewAutocloser(zerolog.Nop(), store)
	closed, err := autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)
}

func TestAutocloserRun_DeadlineTodayIsNotOverdue(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})

	project, err := store.AddProject(ctx, "Alpha", "description")
	require.NoError(t, err)

	today := models.Today(time.Now())
	_, err = store.AddTask(ctx, storage.AddTaskParams{
		ProjectID: project.ID, Title: "due today", Description: "d", Deadline: &today,
	})
	require.NoError(t, err)

	autocloser := NewAutocloser(zerolog.Nop(), store)
	closed, err := autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestAutocloserRun_UsesInjectedClock(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})

	project, err := store.AddProject(ctx, "Alpha", "description")
	require.NoError(t, err)

	deadline := models.Today(time.Now()).AddDate(0, 0, 3)
	_, err = store.AddTask(ctx, storage.AddTaskParams{
		ProjectID: project.ID, Title: "future", Description: "d", Deadline: &deadline,
	})
	require.NoError(t, err)

	autocloser := NewAutocloser(zerolog.Nop(), store)

	closed, err := autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)

	// A week from now the same task has expired.
	autocloser.now = func() time.Time { return time.Now().AddDate(0, 0, 7) }
	closed, err = autocloser.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
}
