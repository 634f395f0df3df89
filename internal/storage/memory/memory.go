package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
)

// Storage keeps projects and tasks in process memory behind a single
// mutex. Ids come from monotonically increasing counters. It backs the
// tests and any deployment that does not need durability.
type Storage struct {
	mu             sync.Mutex
	limits         storage.Limits
	projects       map[int64]*models.Project
	projectCounter int64
	taskCounter    int64
}

func New(limits storage.Limits) *Storage {
	return &Storage{
		limits:         limits,
		projects:       make(map[int64]*models.Project),
		projectCounter: 1,
		taskCounter:    1,
	}
}

func (s *Storage) AddProject(_ context.Context, name, description string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limits.MaxProjects > 0 && len(s.projects) >= s.limits.MaxProjects {
		return nil, fmt.Errorf("%w: maximum number of projects reached", models.ErrValidation)
	}

	project, err := models.NewProject(s.projectCounter, name, description)
	if err != nil {
		return nil, err
	}

	s.projects[project.ID] = project
	s.projectCounter++
	return cloneProject(project), nil
}

func (s *Storage) ListProjects(_ context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, cloneProject(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (s *Storage) GetProject(_ context.Context, projectID int64) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	return cloneProject(project), nil
}

func (s *Storage) UpdateProject(_ context.Context, projectID int64, name, description *string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	if err = project.Rename(name, description); err != nil {
		return nil, err
	}
	return cloneProject(project), nil
}

func (s *Storage) RemoveProject(_ context.Context, projectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[projectID]; !ok {
		return fmt.Errorf("%w: project %d", models.ErrNotFound, projectID)
	}
	// Tasks live inside the project, so dropping it cascades.
	delete(s.projects, projectID)
	return nil
}

func (s *Storage) AddTask(_ context.Context, params storage.AddTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.getProject(params.ProjectID)
	if err != nil {
		return nil, err
	}

	if s.limits.MaxTasks > 0 && s.countTasks() >= s.limits.MaxTasks {
		return nil, fmt.Errorf("%w: maximum number of tasks reached", models.ErrValidation)
	}

	task, err := models.NewTask(s.taskCounter, params.Title, params.Description, models.StatusTodo, params.Deadline)
	if err != nil {
		return nil, err
	}
	if err = project.AddTask(task); err != nil {
		return nil, err
	}

	s.taskCounter++
	return cloneTask(task), nil
}

func (s *Storage) ListTasks(_ context.Context, projectID int64) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(project.Tasks))
	for _, t := range project.Tasks {
		tasks = append(tasks, cloneTask(t))
	}
	return tasks, nil
}

func (s *Storage) EditTask(_ context.Context, params storage.EditTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.getTask(params.ProjectID, params.TaskID)
	if err != nil {
		return nil, err
	}

	err = task.Update(models.TaskPatch{
		Title:       params.Title,
		Description: params.Description,
		Deadline:    params.Deadline,
	})
	if err != nil {
		return nil, err
	}
	return cloneTask(task), nil
}

func (s *Storage) ChangeTaskStatus(_ context.Context, projectID, taskID int64, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.getTask(projectID, taskID)
	if err != nil {
		return err
	}

	previous := task.Status
	task.ChangeStatus(status)
	switch {
	case status == models.StatusDone && previous != models.StatusDone:
		now := time.Now()
		task.AtClosed = &now
	case status != models.StatusDone:
		task.AtClosed = nil
	}
	return nil
}

func (s *Storage) RemoveTask(_ context.Context, projectID, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.getProject(projectID)
	if err != nil {
		return err
	}
	return project.RemoveTask(taskID)
}

func (s *Storage) ListOverdue(_ context.Context, today time.Time) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var overdue []*models.Task
	for _, p := range s.projects {
		for _, t := range p.Tasks {
			if t.Overdue(today) {
				overdue = append(overdue, cloneTask(t))
			}
		}
	}
	sort.Slice(overdue, func(i, j int) bool { return overdue[i].ID < overdue[j].ID })
	return overdue, nil
}

func (s *Storage) getProject(projectID int64) (*models.Project, error) {
	project, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %d", models.ErrNotFound, projectID)
	}
	return project, nil
}

func (s *Storage) getTask(projectID, taskID int64) (*models.Task, error) {
	project, err := s.getProject(projectID)
	if err != nil {
		return nil, err
	}
	return project.GetTask(taskID)
}

func (s *Storage) countTasks() int {
	count := 0
	for _, p := range s.projects {
		count += len(p.Tasks)
	}
	return count
}

// Clones keep callers from mutating stored state outside the mutex.

func cloneTask(t *models.Task) *models.Task {
	c := *t
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.AtClosed != nil {
		at := *t.AtClosed
		c.AtClosed = &at
	}
	return &c
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.Tasks = make([]*models.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		c.Tasks = append(c.Tasks, cloneTask(t))
	}
	return &c
}
