package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
)

type taskServiceImpl struct {
	logger  zerolog.Logger
	storage storage.Storage
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.Storage,
) TaskService {
	return &taskServiceImpl{
		logger:  logger,
		storage: store,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if err := models.ValidateTitle(params.Title); err != nil {
		return nil, err
	}
	if err := models.ValidateDescription(params.Description); err != nil {
		return nil, err
	}

	deadline, err := parseNewDeadline(params.Deadline)
	if err != nil {
		return nil, err
	}

	project, err := s.storage.GetProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}
	if err = checkTitleUnique(project, params.Title, 0); err != nil {
		return nil, err
	}

	task, err := s.storage.AddTask(ctx, storage.AddTaskParams{
		ProjectID:   params.ProjectID,
		Title:       params.Title,
		Description: params.Description,
		Deadline:    deadline,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", params.ProjectID).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("project_id", params.ProjectID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, projectID int64) ([]*models.Task, error) {
	// GetProject rather than ListTasks so that a missing project
	// surfaces as not found instead of an empty list.
	project, err := s.storage.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return project.Tasks, nil
}

func (s *taskServiceImpl) EditTask(ctx context.Context, params EditTaskParams) (*models.Task, error) {
	// Parse the status before touching anything else; bad status text
	// fails the whole edit.
	var status *models.Status
	if params.Status != nil {
		parsed, err := models.ParseStatus(*params.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	if params.Title != nil {
		if err := models.ValidateTitle(*params.Title); err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		if err := models.ValidateDescription(*params.Description); err != nil {
			return nil, err
		}
	}

	var deadline *time.Time
	if params.Deadline != nil {
		d, err := parseNewDeadline(*params.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = d
	}

	project, err := s.storage.GetProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}
	task, err := project.GetTask(params.TaskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if err = checkTitleUnique(project, *params.Title, task.ID); err != nil {
			return nil, err
		}
	}

	if params.Title != nil || params.Description != nil || deadline != nil {
		task, err = s.storage.EditTask(ctx, storage.EditTaskParams{
			ProjectID:   params.ProjectID,
			TaskID:      params.TaskID,
			Title:       params.Title,
			Description: params.Description,
			Deadline:    deadline,
		})
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", params.TaskID).
				Msg("failed to edit task")
			return nil, err
		}
	}

	if status != nil {
		err = s.storage.ChangeTaskStatus(ctx, params.ProjectID, params.TaskID, *status)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int64("task_id", params.TaskID).
				Msg("failed to change task status")
			return nil, err
		}

		// Re-read so the returned task carries the status and the
		// at-closed stamp written by the status-change path.
		project, err = s.storage.GetProject(ctx, params.ProjectID)
		if err != nil {
			return nil, err
		}
		task, err = project.GetTask(params.TaskID)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("task_id", params.TaskID).
		Int64("project_id", params.ProjectID).
		Msg("edited task")
	return task, nil
}

func (s *taskServiceImpl) ChangeStatus(ctx context.Context, projectID, taskID int64, status string) error {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return err
	}

	err = s.storage.ChangeTaskStatus(ctx, projectID, taskID, parsed)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to change task status")
		return err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Str("status", parsed.String()).
		Msg("changed task status")
	return nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, projectID, taskID int64) error {
	err := s.storage.RemoveTask(ctx, projectID, taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("project_id", projectID).
		Msg("deleted task")
	return nil
}

// parseNewDeadline parses a textual deadline being newly written and
// rejects dates earlier than today. Deadlines that have elapsed since
// they were stored are never rejected on read; the autoclose sweep
// depends on them.
func parseNewDeadline(raw string) (*time.Time, error) {
	deadline, err := models.ParseDeadline(raw)
	if err != nil {
		return nil, err
	}
	if deadline != nil && deadline.Before(models.Today(time.Now())) {
		return nil, fmt.Errorf("%w: deadline cannot be in the past", models.ErrValidation)
	}
	return deadline, nil
}

func checkTitleUnique(project *models.Project, title string, excludeID int64) error {
	normalized := models.Normalize(title)
	for _, t := range project.Tasks {
		if t.ID != excludeID && models.Normalize(t.Title) == normalized {
			return fmt.Errorf("%w: task title %q already exists in project %d", models.ErrValidation, title, project.ID)
		}
	}
	return nil
}
