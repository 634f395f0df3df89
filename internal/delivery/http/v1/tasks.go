package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashabalin/go-taskboard/internal/models"
	"github.com/ashabalin/go-taskboard/internal/services"
)

type getTaskResponse struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *string    `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AtClosed    *time.Time `json:"at_closed,omitempty"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	resp := getTaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		AtClosed:    task.AtClosed,
	}
	if task.Deadline != nil {
		deadline := task.Deadline.Format(models.DeadlineLayout)
		resp.Deadline = &deadline
	}
	return resp
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=30"`
	Description string `json:"description" binding:"required,max=150"`
	Deadline    string `json:"deadline,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, projectID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	resp := make([]getTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newGetTaskResponse(task))
	}
	c.JSON(http.StatusOK, resp)
}

type editTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=30"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=150"`
	Status      *string `json:"status,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

func (h *handlerImpl) HandleEditTask(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	var req editTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.EditTask(c, services.EditTaskParams{
		ProjectID:   projectID,
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type changeTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *handlerImpl) HandleChangeTaskStatus(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	var req changeTaskStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.tasks.ChangeStatus(c, projectID, taskID, req.Status)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, projectID, taskID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
