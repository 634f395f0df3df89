package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/storage"
)

type projectServiceImpl struct {
	logger  zerolog.Logger
	storage storage.Storage
}

func NewProjectService(
	logger zerolog.Logger,
	store storage.Storage,
) ProjectService {
	return &projectServiceImpl{
		logger:  logger,
		storage: store,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, params CreateProjectParams) (*models.Project, error) {
	if err := models.ValidateTitle(params.Name); err != nil {
		return nil, err
	}
	if err := models.ValidateDescription(params.Description); err != nil {
		return nil, err
	}

	// Check-then-act: a concurrent writer can slip a duplicate in
	// between this scan and the insert. The postgres store backstops
	// it with a unique index.
	if err := s.checkNameUnique(ctx, params.Name, 0); err != nil {
		return nil, err
	}

	project, err := s.storage.AddProject(ctx, params.Name, params.Description)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("name", params.Name).
			Msg("failed to create project")
		return nil, err
	}

	s.logger.Info().
		Int64("project_id", project.ID).
		Str("name", project.Name).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.storage.ListProjects(ctx)
}

func (s *projectServiceImpl) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	return s.storage.GetProject(ctx, projectID)
}

func (s *projectServiceImpl) RenameProject(ctx context.Context, params RenameProjectParams) (*models.Project, error) {
	if params.Name != nil {
		if err := models.ValidateTitle(*params.Name); err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		if err := models.ValidateDescription(*params.Description); err != nil {
			return nil, err
		}
	}

	project, err := s.storage.GetProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if err = s.checkNameUnique(ctx, *params.Name, project.ID); err != nil {
			return nil, err
		}
	}

	project, err = s.storage.UpdateProject(ctx, params.ProjectID, params.Name, params.Description)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", params.ProjectID).
			Msg("failed to rename project")
		return nil, err
	}

	s.logger.Info().
		Int64("project_id", project.ID).
		Msg("renamed project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID int64) error {
	err := s.storage.RemoveProject(ctx, projectID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("project_id", projectID).
			Msg("failed to delete project")
		return err
	}

	s.logger.Info().
		Int64("project_id", projectID).
		Msg("deleted project")
	return nil
}

// checkNameUnique compares the normalized name against every project
// except the one with excludeID.
func (s *projectServiceImpl) checkNameUnique(ctx context.Context, name string, excludeID int64) error {
	projects, err := s.storage.ListProjects(ctx)
	if err != nil {
		return err
	}

	normalized := models.Normalize(name)
	for _, p := range projects {
		if p.ID != excludeID && models.Normalize(p.Name) == normalized {
			return fmt.Errorf("%w: project name %q already exists", models.ErrValidation, name)
		}
	}
	return nil
}
