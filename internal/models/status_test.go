package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		text string
		want Status
	}{
		{"todo", StatusTodo},
		{"doing", StatusDoing},
		{"done", StatusDone},
		{"TODO", StatusTodo},
		{"Doing", StatusDoing},
		{" done ", StatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			status, err := ParseStatus(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, text := range []string{"", "in_progress", "donee", "archived", "to do"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseStatus(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidStatus))
			// Invalid status is a validation failure to everyone past
			// the parsing boundary.
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}
