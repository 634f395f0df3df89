package models

import "time"

// Project owns an ordered collection of tasks and enforces
// task-level uniqueness within itself. Global name uniqueness across
// projects belongs to the service layer, which can see siblings.
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	Tasks       []*Task
}

func NewProject(id int64, name, description string) (*Project, error) {
	if err := ValidateTitle(name); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	return &Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// AddTask appends the task, preserving insertion order. It rejects a
// task whose id or normalized title collides with a sibling.
func (p *Project) AddTask(task *Task) error {
	for _, t := range p.Tasks {
		if t.ID == task.ID {
			return validationError("task id %d already exists in project %d", task.ID, p.ID)
		}
		if Normalize(t.Title) == Normalize(task.Title) {
			return validationError("task title %q already exists in project %d", task.Title, p.ID)
		}
	}

	task.ProjectID = p.ID
	p.Tasks = append(p.Tasks, task)
	return nil
}

func (p *Project) RemoveTask(taskID int64) error {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return nil
		}
	}
	return notFoundError("task %d not found in project %d", taskID, p.ID)
}

func (p *Project) GetTask(taskID int64) (*Task, error) {
	for _, t := range p.Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, notFoundError("task %d not found in project %d", taskID, p.ID)
}

// Rename applies the provided fields after validating them.
func (p *Project) Rename(name, description *string) error {
	if name != nil {
		if err := ValidateTitle(*name); err != nil {
			return err
		}
	}
	if description != nil {
		if err := ValidateDescription(*description); err != nil {
			return err
		}
	}

	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	return nil
}
