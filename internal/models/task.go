package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLen = 30
	MaxDescLen  = 150
)

// DeadlineLayout is the only textual deadline format accepted at
// any boundary.
const DeadlineLayout = "2006-01-02"

type Task struct {
	ID          int64
	ProjectID   int64
	Title       string
	Description string
	Status      Status
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// AtClosed is non-nil exactly while the task is done. It is
	// written only by the storage status-change operation, never by
	// field edits.
	AtClosed *time.Time
}

// TaskPatch carries a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Deadline    *time.Time
}

// NewTask validates the task fields and builds the entity. The id is
// assigned by storage; the model only requires it to be unique within
// the owning project.
func NewTask(id int64, title, description string, status Status, deadline *time.Time) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}
	if status == "" {
		status = StatusTodo
	}

	now := time.Now()
	return &Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update applies the provided fields after validating each of them
// with the creation rules. The status, if present, must already be
// parsed; AtClosed stamping stays with storage.
func (t *Task) Update(patch TaskPatch) error {
	if patch.Title != nil {
		if err := ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := ValidateDescription(*patch.Description); err != nil {
			return err
		}
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.ChangeStatus(*patch.Status)
	}
	if patch.Deadline != nil {
		t.Deadline = patch.Deadline
	}
	t.UpdatedAt = time.Now()
	return nil
}

// ChangeStatus moves the task to any of the three valid statuses.
// There is no transition graph.
func (t *Task) ChangeStatus(status Status) {
	t.Status = status
	t.UpdatedAt = time.Now()
}

// Overdue reports whether the task should be picked up by the
// autoclose sweep: a set deadline strictly before today and a
// non-terminal status.
func (t *Task) Overdue(today time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(today) && t.Status != StatusDone
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationError("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return validationError("title must be at most %d characters", MaxTitleLen)
	}
	return nil
}

func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return validationError("description cannot be empty")
	}
	if utf8.RuneCountInString(description) > MaxDescLen {
		return validationError("description must be at most %d characters", MaxDescLen)
	}
	return nil
}

// ParseDeadline parses a YYYY-MM-DD date. An empty string means no
// deadline and yields nil.
func ParseDeadline(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(DeadlineLayout, raw)
	if err != nil {
		return nil, validationError("deadline %q must be a valid date in YYYY-MM-DD format", raw)
	}
	return &d, nil
}

// Today truncates the given time to its calendar date, rendered at
// UTC midnight. Parsed deadlines sit at UTC midnight of their date,
// so both sides of every deadline comparison share one zone.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize folds text for uniqueness comparison. Stored values keep
// their original casing and whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
