package storage

import (
	"context"
	"time"

	"github.com/ashabalin/go-taskboard/internal/models"
)

// Storage is the persistence port consumed by the services. Both the
// in-memory store and the postgres store implement it.
//
// Implementations return models.ErrNotFound for missing keys and
// models.ErrValidation when a configured limit is reached or a
// database-level uniqueness constraint fires.
type Storage interface {
	// AddProject persists a new project and assigns its id.
	AddProject(ctx context.Context, name, description string) (*models.Project, error)

	// ListProjects returns all projects ordered by ascending id.
	ListProjects(ctx context.Context) ([]*models.Project, error)

	// GetProject returns the project with its tasks loaded.
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)

	// UpdateProject applies the provided name/description fields and
	// returns the updated project with its tasks loaded, like
	// GetProject does.
	UpdateProject(ctx context.Context, projectID int64, name, description *string) (*models.Project, error)

	// RemoveProject deletes the project and cascades to its tasks.
	RemoveProject(ctx context.Context, projectID int64) error

	// AddTask persists a new task under the project and assigns its id.
	AddTask(ctx context.Context, params AddTaskParams) (*models.Task, error)

	// ListTasks returns the project's tasks ordered by ascending id.
	ListTasks(ctx context.Context, projectID int64) ([]*models.Task, error)

	// EditTask applies the provided title/description/deadline fields.
	// A nil deadline leaves the stored value untouched: once set, a
	// deadline can be moved but never cleared. Status is deliberately
	// excluded; see ChangeTaskStatus.
	EditTask(ctx context.Context, params EditTaskParams) (*models.Task, error)

	// ChangeTaskStatus is the single code path that owns the AtClosed
	// timestamp: it stamps it when the task enters done from another
	// status and clears it when the task leaves done.
	ChangeTaskStatus(ctx context.Context, projectID, taskID int64, status models.Status) error

	// RemoveTask deletes the task from the project.
	RemoveTask(ctx context.Context, projectID, taskID int64) error

	// ListOverdue returns every task, across all projects, whose
	// deadline is strictly before today and whose status is not done.
	ListOverdue(ctx context.Context, today time.Time) ([]*models.Task, error)
}

type AddTaskParams struct {
	ProjectID   int64
	Title       string
	Description string
	Deadline    *time.Time
}

type EditTaskParams struct {
	ProjectID   int64
	TaskID      int64
	Title       *string
	Description *string
	Deadline    *time.Time
}

// Limits are the storage-wide ceilings supplied by configuration.
// A zero value means unlimited.
type Limits struct {
	MaxProjects int
	MaxTasks    int
}
