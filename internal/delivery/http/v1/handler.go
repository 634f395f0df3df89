package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ashabalin/go-taskboard/internal/services"
)

type Handler interface {
	HandleRequestIDMiddleware(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleListProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleRenameProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleEditTask(c *gin.Context)
	HandleChangeTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	projects services.ProjectService
	tasks    services.TaskService
}

func New(
	logger zerolog.Logger,
	projectService services.ProjectService,
	taskService services.TaskService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		projects: projectService,
		tasks:    taskService,
	}
}
