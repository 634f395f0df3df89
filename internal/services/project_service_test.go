package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
	"github.com/ashabalin/go-taskboard/internal/storage/memory"
)

func newProjectService() (ProjectService, *memory.Storage) {
	store := memory.New(storage.Limits{})
	return NewProjectService(zerolog.Nop(), store), store
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	project, err := svc.CreateProject(ctx, CreateProjectParams{
		Name:        "Alpha",
		Description: "first project",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), project.ID)
	assert.Equal(t, "Alpha", project.Name)
}

func TestCreateProject_DuplicateNormalizedName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	_, err := svc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: "first"})
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, CreateProjectParams{Name: "  ALPHA ", Description: "second"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestCreateProject_InvalidFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	_, err := svc.CreateProject(ctx, CreateProjectParams{Name: "", Description: "desc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = svc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestRenameProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	project, err := svc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: "first"})
	require.NoError(t, err)

	name := "Gamma"
	renamed, err := svc.RenameProject(ctx, RenameProjectParams{ProjectID: project.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Gamma", renamed.Name)
	assert.Equal(t, "first", renamed.Description)
}

func TestRenameProject_KeepingOwnNameIsAllowed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	project, err := svc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: "first"})
	require.NoError(t, err)

	name := "Alpha"
	description := "updated description"
	_, err = svc.RenameProject(ctx, RenameProjectParams{
		ProjectID:   project.ID,
		Name:        &name,
		Description: &description,
	})
	require.NoError(t, err)
}

func TestRenameProject_CollisionLeavesProjectUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	p, err := svc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: "first"})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, CreateProjectParams{Name: "Beta", Description: "second"})
	require.NoError(t, err)

	name := "beta"
	_, err = svc.RenameProject(ctx, RenameProjectParams{ProjectID: p.ID, Name: &name})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	unchanged, err := svc.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", unchanged.Name)
}

func TestRenameProject_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	name := "Gamma"
	_, err := svc.RenameProject(ctx, RenameProjectParams{ProjectID: 42, Name: &name})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestDeleteProject_CascadesToTasks(t *testing.T) {
	ctx := context.Background()
	store := memory.New(storage.Limits{})
	projectSvc := NewProjectService(zerolog.Nop(), store)
	taskSvc := NewTaskService(zerolog.Nop(), store)

	project, err := projectSvc.CreateProject(ctx, CreateProjectParams{Name: "Alpha", Description: "first"})
	require.NoError(t, err)
	_, err = taskSvc.CreateTask(ctx, CreateTaskParams{
		ProjectID:   project.ID,
		Title:       "task",
		Description: "description",
	})
	require.NoError(t, err)

	require.NoError(t, projectSvc.DeleteProject(ctx, project.ID))

	_, err = taskSvc.ListTasks(ctx, project.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestListProjects_StableOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProjectService()

	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		_, err := svc.CreateProject(ctx, CreateProjectParams{Name: name, Description: "description"})
		require.NoError(t, err)
	}

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Zulu", projects[0].Name)
	assert.Equal(t, "Alpha", projects[1].Name)
	assert.Equal(t, "Mike", projects[2].Name)
}
