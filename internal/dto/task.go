package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Status       models.TaskStatus    `json:"status"`
	Priority     models.TaskPriority  `json:"priority"`
	DueDate      time.Time            `json:"dueDate"`
	WorkspaceID  uint64               `json:"workspaceId"`
	AssignedToID *uint64              `json:"assignedToId"`
	CreatedByID  uint64               `json:"createdById"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	AssignedTo   *UserDTO             `json:"assignedTo"`
	CreatedBy    *UserDTO             `json:"createdBy,omitempty"`
	Workspace    *WorkspaceSummaryDTO `json:"workspace,omitempty"`
}

type CreateTaskRequest struct {
	Title        string              `json:"title" binding:"required,max=50"`
	Description  string              `json:"description" binding:"required"`
	Status       models.TaskStatus   `json:"status,omitempty" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority     models.TaskPriority `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	DueDate      time.Time           `json:"dueDate" binding:"required"`
	WorkspaceID  uint64              `json:"workspaceId" binding:"required"`
	AssignedToID *uint64             `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest is a partial update. AssignedToID distinguishes an omitted
// key from an explicit null, which clears the assignee.
type UpdateTaskRequest struct {
	Title        *string              `json:"title" binding:"omitempty,min=1,max=50"`
	Description  *string              `json:"description" binding:"omitempty,min=1"`
	Status       *models.TaskStatus   `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority     *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate      *time.Time           `json:"dueDate"`
	AssignedToID Nullable[uint64]     `json:"assignedToId"`
}

// MarshalJSON writes only the fields that are set.
func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	if r.Priority != nil {
		fields["priority"] = *r.Priority
	}
	if r.DueDate != nil {
		fields["dueDate"] = *r.DueDate
	}
	if r.AssignedToID.Present {
		fields["assignedToId"] = r.AssignedToID
	}
	return json.Marshal(fields)
}

// TaskSearchQuery holds the query string of GET /task/search
type TaskSearchQuery struct {
	Status       models.TaskStatus   `form:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority     models.TaskPriority `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedToID *uint64             `form:"assignedToId"`
	CreatedByID  *uint64             `form:"createdById"`
	WorkspaceID  *uint64             `form:"workspaceId"`
	Search       string              `form:"search" binding:"omitempty,max=255"`
	Page         int                 `form:"page,default=1" binding:"min=1,max=1000000"`
	Limit        int                 `form:"limit,default=10" binding:"min=1,max=100"`
}

// PageMeta describes one page of a search result
type PageMeta struct {
	TotalItems   int64 `json:"totalItems"`
	ItemCount    int   `json:"itemCount"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

// TaskSearchResponse represents a page of search results
type TaskSearchResponse struct {
	Data []TaskDTO `json:"data"`
	Meta PageMeta  `json:"meta"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Data []TaskDTO `json:"data"`
	utils.PaginationResponse
}

// DeleteTaskResponse carries the number of tasks removed
type DeleteTaskResponse struct {
	Count int64 `json:"count"`
}

type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required,max=10000"`
}

// TaskDraftDTO is an AI suggested task that has not been saved
type TaskDraftDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
}

type GenerateTasksResponse struct {
	Tasks []TaskDraftDTO `json:"tasks"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		WorkspaceID:  task.WorkspaceID,
		AssignedToID: task.AssignedToID,
		CreatedByID:  task.CreatedByID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	// Include creator if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	// Include workspace if preloaded
	if task.Workspace.ID != 0 {
		workspace := ToWorkspaceSummaryDTO(task.Workspace)
		dto.Workspace = &workspace
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	return TaskListResponse{
		Data: ToTaskDTOs(tasks),
		PaginationResponse: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}

// ToTaskSearchResponse converts a page of search results
func ToTaskSearchResponse(tasks []models.Task, page, limit int, total int64) TaskSearchResponse {
	return TaskSearchResponse{
		Data: ToTaskDTOs(tasks),
		Meta: PageMeta{
			TotalItems:   total,
			ItemCount:    len(tasks),
			ItemsPerPage: limit,
			TotalPages:   utils.TotalPages(total, limit),
			CurrentPage:  page,
		},
	}
}
