package services

import (
	"context"

	"github.com/ashabalin/go-taskboard/internal/models"
)

type ProjectService interface {
	// CreateProject validates the name and description, checks the
	// normalized name against every existing project and delegates
	// persistence to storage.
	//
	// It returns a models.ErrValidation error when the name is
	// already taken.
	CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error)

	// ListProjects returns all projects ordered by ascending id.
	ListProjects(ctx context.Context) ([]*models.Project, error)

	// GetProject returns a single project with its tasks.
	//
	// It returns a models.ErrNotFound error when the project
	// doesn't exist.
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)

	// RenameProject applies a partial update. When a new name is
	// provided, global uniqueness is re-checked excluding the
	// project's own id.
	RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error)

	// DeleteProject removes the project and, through storage,
	// cascades to its tasks.
	DeleteProject(ctx context.Context, projectID int64) error
}

type TaskService interface {
	// CreateTask validates the fields, checks the normalized title
	// against the project's existing tasks and rejects a deadline
	// earlier than today.
	//
	// It returns a models.ErrNotFound error when the project doesn't
	// exist and a models.ErrValidation error on a duplicate title or
	// a bad deadline.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// ListTasks returns the project's tasks ordered by ascending id.
	ListTasks(ctx context.Context, projectID int64) ([]*models.Task, error)

	// EditTask applies a partial update. Status text is parsed first;
	// title uniqueness is re-checked against siblings excluding the
	// task itself; the deadline is re-validated. Field changes go
	// through one storage call while the status goes through the
	// dedicated status-change call, which owns the at-closed stamp.
	EditTask(ctx context.Context, params EditTaskParams) (*models.Task, error)

	// ChangeStatus parses the status text and delegates to the
	// status-change storage call.
	ChangeStatus(ctx context.Context, projectID, taskID int64, status string) error

	// DeleteTask removes the task from its project.
	DeleteTask(ctx context.Context, projectID, taskID int64) error
}

type CreateProjectParams struct {
	Name        string
	Description string
}

type RenameProjectParams struct {
	ProjectID   int64
	Name        *string
	Description *string
}

type CreateTaskParams struct {
	ProjectID   int64
	Title       string
	Description string
	// Deadline is the textual YYYY-MM-DD form; empty means none.
	Deadline string
}

type EditTaskParams struct {
	ProjectID   int64
	TaskID      int64
	Title       *string
	Description *string
	Status      *string
	// Deadline, when present, must be a YYYY-MM-DD date not earlier
	// than today. An absent or empty value keeps the stored deadline;
	// a deadline cannot be cleared once set.
	Deadline *string
}
