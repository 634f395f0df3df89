package models

import (
	"fmt"
	"strings"
)

// Status is the closed set of task lifecycle states. Any status may
// follow any other; only the autoclose sweep is restricted to writing
// StatusDone.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// ParseStatus matches text against the three known statuses,
// ignoring case and surrounding whitespace.
//
// It returns ErrInvalidStatus for anything else.
func ParseStatus(text string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(text))) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusDoing:
		return StatusDoing, nil
	case StatusDone:
		return StatusDone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
}

func (s Status) String() string {
	return string(s)
}
