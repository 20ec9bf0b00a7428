package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-task-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/services"
)

// TaskHandler serves the /task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask creates a task authored by the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		WorkspaceID:  req.WorkspaceID,
		AssignedToID: req.AssignedToID,
		CreatorID:    userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns every task.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks()
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// SearchTasks filters tasks by the query string and returns one page.
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	var query dto.TaskSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	input := services.SearchTasksInput{
		AssignedToID: query.AssignedToID,
		CreatedByID:  query.CreatedByID,
		WorkspaceID:  query.WorkspaceID,
		Search:       query.Search,
		Page:         query.Page,
		Limit:        query.Limit,
	}
	if query.Status != "" {
		input.Status = &query.Status
	}
	if query.Priority != "" {
		input.Priority = &query.Priority
	}

	tasks, total, err := h.taskService.SearchTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskSearchResponse(tasks, query.Page, query.Limit, total))
}

// GetTask returns one task with its relations.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(middleware.IDParam(c, "id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Sending assignedToId as null unassigns
// the task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssignedToID.IsNull() {
		input.ClearAssignee = true
	} else if req.AssignedToID.Present {
		input.AssignedToID = req.AssignedToID.Value
	}

	task, err := h.taskService.UpdateTask(middleware.IDParam(c, "id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and reports how many rows went away.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	count, err := h.taskService.DeleteTask(middleware.IDParam(c, "id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Count: count})
}

// GenerateTasks drafts tasks from free text. Drafts are not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	resp := dto.GenerateTasksResponse{Tasks: make([]dto.TaskDraftDTO, 0, len(drafts))}
	for _, d := range drafts {
		resp.Tasks = append(resp.Tasks, dto.TaskDraftDTO{
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
			DueDate:     d.DueDate,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func respondTaskError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		apierrors.NotFound(c, notFound.Error())
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "title must not be blank")
	case errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, "status must be one of: TODO, IN_PROGRESS, DONE")
	case errors.Is(err, services.ErrInvalidTaskPriority):
		apierrors.BadRequest(c, "priority must be one of: LOW, MEDIUM, HIGH")
	case errors.Is(err, services.ErrInvalidPagination):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, "No tasks could be generated from the provided text")
	default:
		apierrors.InternalError(c, err)
	}
}
