package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
)

// Storage is the durable implementation of the storage port on top of
// a pgx connection pool. Uniqueness of project names is backstopped by
// a database index; task deletion cascades through the project_id
// foreign key.
type Storage struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	limits storage.Limits
}

func New(logger zerolog.Logger, pgPool *pgxpool.Pool, limits storage.Limits) *Storage {
	return &Storage{
		logger: logger,
		pgPool: pgPool,
		limits: limits,
	}
}

func (s *Storage) AddProject(ctx context.Context, name, description string) (*models.Project, error) {
	if s.limits.MaxProjects > 0 {
		const countProjectsQuery = `SELECT COUNT(*) FROM projects`

		var count int
		err := s.pgPool.QueryRow(ctx, countProjectsQuery).Scan(&count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to count projects")
			return nil, err
		}
		if count >= s.limits.MaxProjects {
			return nil, fmt.Errorf("%w: maximum number of projects reached", models.ErrValidation)
		}
	}

	project, err := models.NewProject(0, name, description)
	if err != nil {
		return nil, err
	}

	const insertProjectQuery = `
INSERT INTO projects (name, description, created_at)
VALUES ($1, $2, $3)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertProjectQuery,
		project.Name,
		project.Description,
		project.CreatedAt,
	).Scan(&project.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Warn().
				Str("name", name).
				Msg("project name already exists")
			return nil, fmt.Errorf("%w: project name %q already exists", models.ErrValidation, name)
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}
	s.logger.Debug().
		Int64("project_id", project.ID).
		Msg("inserted project")
	return project, nil
}

func (s *Storage) ListProjects(ctx context.Context) ([]*models.Project, error) {
	const selectProjectsQuery = `
SELECT id, name, description, created_at
FROM projects
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectProjectsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects")
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := new(models.Project)
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over projects")
		return nil, err
	}
	return projects, nil
}

func (s *Storage) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	const selectProjectQuery = `
SELECT id, name, description, created_at
FROM projects
WHERE id = $1
`
	project := new(models.Project)
	err := s.pgPool.QueryRow(
		ctx,
		selectProjectQuery,
		projectID,
	).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project %d", models.ErrNotFound, projectID)
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to select project")
		return nil, err
	}

	project.Tasks, err = s.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Storage) UpdateProject(ctx context.Context, projectID int64, name, description *string) (*models.Project, error) {
	const updateProjectQuery = `
UPDATE projects
SET name        = COALESCE($1, name),
    description = COALESCE($2, description)
WHERE id = $3
RETURNING id, name, description, created_at
`
	project := new(models.Project)
	err := s.pgPool.QueryRow(
		ctx,
		updateProjectQuery,
		name,
		description,
		projectID,
	).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project %d", models.ErrNotFound, projectID)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: project name %q already exists", models.ErrValidation, *name)
		}

		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to update project")
		return nil, err
	}

	// Reload tasks so the returned aggregate matches what GetProject
	// and the memory store hand back.
	project.Tasks, err = s.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int64("project_id", projectID).
		Msg("updated project")
	return project, nil
}

func (s *Storage) RemoveProject(ctx context.Context, projectID int64) error {
	// The tasks foreign key is ON DELETE CASCADE, so one statement
	// removes the project and everything it owns.
	const deleteProjectQuery = `
DELETE FROM projects
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteProjectQuery, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to delete project")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %d", models.ErrNotFound, projectID)
	}
	s.logger.Debug().
		Int64("project_id", projectID).
		Msg("deleted project")
	return nil
}

func (s *Storage) AddTask(ctx context.Context, params storage.AddTaskParams) (*models.Task, error) {
	if _, err := s.GetProject(ctx, params.ProjectID); err != nil {
		return nil, err
	}

	if s.limits.MaxTasks > 0 {
		const countTasksQuery = `SELECT COUNT(*) FROM tasks`

		var count int
		err := s.pgPool.QueryRow(ctx, countTasksQuery).Scan(&count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to count tasks")
			return nil, err
		}
		if count >= s.limits.MaxTasks {
			return nil, fmt.Errorf("%w: maximum number of tasks reached", models.ErrValidation)
		}
	}

	task, err := models.NewTask(0, params.Title, params.Description, models.StatusTodo, params.Deadline)
	if err != nil {
		return nil, err
	}
	task.ProjectID = params.ProjectID

	const insertTaskQuery = `
INSERT INTO tasks (project_id,
                   title,
                   description,
                   status,
                   deadline,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err = s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.ProjectID,
		task.Title,
		task.Description,
		string(task.Status),
		task.Deadline,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Int64("project_id", task.ProjectID).
		Msg("inserted task")
	return task, nil
}

func (s *Storage) ListTasks(ctx context.Context, projectID int64) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT id, title, description, status, deadline, created_at, updated_at, at_closed
FROM tasks
WHERE project_id = $1
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{ProjectID: projectID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.AtClosed,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over tasks")
		return nil, err
	}
	return tasks, nil
}

func (s *Storage) EditTask(ctx context.Context, params storage.EditTaskParams) (*models.Task, error) {
	task := &models.Task{
		ID:        params.TaskID,
		ProjectID: params.ProjectID,
		UpdatedAt: time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title       = COALESCE($1, title),
    description = COALESCE($2, description),
    deadline    = COALESCE($3, deadline),
    updated_at  = $4
WHERE id = $5 AND project_id = $6
RETURNING title, description, status, deadline, created_at, at_closed
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.Deadline,
		task.UpdatedAt,
		task.ID,
		task.ProjectID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Deadline,
		&task.CreatedAt,
		&task.AtClosed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task %d in project %d", models.ErrNotFound, params.TaskID, params.ProjectID)
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *Storage) ChangeTaskStatus(ctx context.Context, projectID, taskID int64, status models.Status) error {
	// AtClosed is owned by this statement alone: stamped on the
	// transition into done, cleared on the transition out of it.
	const updateTaskStatusQuery = `
UPDATE tasks
SET at_closed = CASE
                    WHEN $1 = 'done' AND status <> 'done' THEN $2::timestamptz
                    WHEN $1 <> 'done' THEN NULL
                    ELSE at_closed
                END,
    status     = $1,
    updated_at = $2
WHERE id = $3 AND project_id = $4
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTaskStatusQuery,
		string(status),
		time.Now(),
		taskID,
		projectID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task status")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %d in project %d", models.ErrNotFound, taskID, projectID)
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Str("status", status.String()).
		Msg("updated task status")
	return nil
}

func (s *Storage) RemoveTask(ctx context.Context, projectID, taskID int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND project_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, taskID, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %d in project %d", models.ErrNotFound, taskID, projectID)
	}
	s.logger.Debug().
		Int64("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *Storage) ListOverdue(ctx context.Context, today time.Time) ([]*models.Task, error) {
	const selectOverdueQuery = `
SELECT id, project_id, title, description, status, deadline, created_at, updated_at, at_closed
FROM tasks
WHERE deadline < $1
  AND status <> 'done'
ORDER BY id
`
	rows, err := s.pgPool.Query(ctx, selectOverdueQuery, today)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select overdue tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := new(models.Task)
		err = rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Deadline,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.AtClosed,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan overdue task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over overdue tasks")
		return nil, err
	}
	return tasks, nil
}
