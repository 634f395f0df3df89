package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	project, err := NewProject(1, "Alpha", "first project")
	require.NoError(t, err)
	return project
}

func mustNewTask(t *testing.T, id int64, title string) *Task {
	t.Helper()
	task, err := NewTask(id, title, "some description", StatusTodo, nil)
	require.NoError(t, err)
	return task
}

func TestProjectAddTask(t *testing.T) {
	project := newTestProject(t)

	require.NoError(t, project.AddTask(mustNewTask(t, 1, "first")))
	require.NoError(t, project.AddTask(mustNewTask(t, 2, "second")))

	require.Len(t, project.Tasks, 2)
	assert.Equal(t, "first", project.Tasks[0].Title)
	assert.Equal(t, "second", project.Tasks[1].Title)
	assert.Equal(t, project.ID, project.Tasks[0].ProjectID)
}

func TestProjectAddTask_DuplicateID(t *testing.T) {
	project := newTestProject(t)
	require.NoError(t, project.AddTask(mustNewTask(t, 1, "first")))

	err := project.AddTask(mustNewTask(t, 1, "other"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProjectAddTask_DuplicateNormalizedTitle(t *testing.T) {
	project := newTestProject(t)
	require.NoError(t, project.AddTask(mustNewTask(t, 1, "Ship it")))

	err := project.AddTask(mustNewTask(t, 2, "  ship IT "))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProjectRemoveTask(t *testing.T) {
	project := newTestProject(t)
	require.NoError(t, project.AddTask(mustNewTask(t, 1, "first")))

	require.NoError(t, project.RemoveTask(1))
	assert.Empty(t, project.Tasks)

	err := project.RemoveTask(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProjectGetTask(t *testing.T) {
	project := newTestProject(t)
	require.NoError(t, project.AddTask(mustNewTask(t, 7, "seventh")))

	task, err := project.GetTask(7)
	require.NoError(t, err)
	assert.Equal(t, "seventh", task.Title)

	_, err = project.GetTask(8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProjectRename(t *testing.T) {
	project := newTestProject(t)

	name := "Beta"
	require.NoError(t, project.Rename(&name, nil))
	assert.Equal(t, "Beta", project.Name)
	assert.Equal(t, "first project", project.Description)

	description := "renamed project"
	require.NoError(t, project.Rename(nil, &description))
	assert.Equal(t, "Beta", project.Name)
	assert.Equal(t, "renamed project", project.Description)
}

func TestProjectRename_Invalid(t *testing.T) {
	project := newTestProject(t)

	empty := "  "
	err := project.Rename(&empty, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Alpha", project.Name)
}
