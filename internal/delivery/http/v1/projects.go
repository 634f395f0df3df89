package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/services"
)

type getProjectResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	Tasks       []getTaskResponse `json:"tasks,omitempty"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	resp := getProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
	}
	for _, task := range project.Tasks {
		resp.Tasks = append(resp.Tasks, newGetTaskResponse(task))
	}
	return resp
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=30"`
	Description string `json:"description" binding:"required,max=150"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	resp := make([]getProjectResponse, 0, len(projects))
	for _, project := range projects {
		resp = append(resp, newGetProjectResponse(project))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c, projectID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

type renameProjectRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=30"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=150"`
}

func (h *handlerImpl) HandleRenameProject(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var req renameProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.RenameProject(c, services.RenameProjectParams{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	err := h.projects.DeleteProject(c, projectID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, aborting with a client
// error when it isn't a valid id.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abort(c, newBadRequestError("invalid "+name))
		return 0, false
	}
	return id, true
}
