package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/workspace-task-api/internal/constants"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired          = errors.New("title is required")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrInvalidPagination      = errors.New("page must be between 1 and 1000000 and limit between 1 and 100")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

const maxTitleLength = 50

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	drafter       TaskDrafter
}

// NewTaskService creates a new TaskService. drafter may be nil when no AI
// backend is configured.
func NewTaskService(taskRepo repository.TaskRepository, workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		drafter:       drafter,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	DueDate      time.Time
	WorkspaceID  uint64
	AssignedToID *uint64
	CreatorID    uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	AssignedToID  *uint64
	ClearAssignee bool
}

// SearchTasksInput represents the criteria of a task search
type SearchTasksInput struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToID *uint64
	CreatedByID  *uint64
	WorkspaceID  *uint64
	Search       string
	Page         int
	Limit        int
}

// CreateTask creates a task in an existing workspace
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if err := s.ensureWorkspaceExists(input.WorkspaceID); err != nil {
		return nil, err
	}
	if input.AssignedToID != nil {
		if err := s.ensureUserExists(*input.AssignedToID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		WorkspaceID:  input.WorkspaceID,
		AssignedToID: input.AssignedToID,
		CreatedByID:  input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// ListTasks returns every task with its relations
func (s *TaskService) ListTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, models.TaskRelations...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskNotFound(taskID)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask merges the set fields into an existing task
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskNotFound(taskID)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.ensureUserExists(*input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask soft deletes a task and returns the number of rows removed.
// A task that is missing or already deleted is reported as not found.
func (s *TaskService) DeleteTask(taskID uint64) (int64, error) {
	count, err := s.taskRepo.Delete(taskID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete task: %w", err)
	}
	if count == 0 {
		return 0, taskNotFound(taskID)
	}
	return count, nil
}

// SearchTasks filters tasks by criteria, newest first
func (s *TaskService) SearchTasks(input SearchTasksInput) ([]models.Task, int64, error) {
	if input.Page < 1 || input.Page > constants.MaxPage || input.Limit < constants.MinPageSize || input.Limit > constants.MaxPageSize {
		return nil, 0, ErrInvalidPagination
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidTaskStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, ErrInvalidTaskPriority
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedToID: input.AssignedToID,
		CreatedByID:  input.CreatedByID,
		WorkspaceID:  input.WorkspaceID,
		Search:       input.Search,
		Page:         input.Page,
		Limit:        input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tasks: %w", err)
	}

	return tasks, total, nil
}

// ListWorkspaceTasks returns a page of the tasks in a workspace
func (s *TaskService) ListWorkspaceTasks(workspaceID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	if err := s.ensureWorkspaceExists(workspaceID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		WorkspaceID: &workspaceID,
		Page:        params.Page,
		Limit:       params.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workspace tasks: %w", err)
	}

	return tasks, total, nil
}

// GenerateTasks uses AI to draft tasks from text. Nothing is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.drafter.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if utf8.RuneCountInString(aiTask.Title) > maxTitleLength {
			aiTask.Title = string([]rune(aiTask.Title)[:maxTitleLength])
		}
		if strings.TrimSpace(aiTask.Description) == "" {
			aiTask.Description = aiTask.Title
		}

		aiTask.Priority = models.TaskPriority(strings.ToUpper(string(aiTask.Priority)))
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) ensureWorkspaceExists(id uint64) error {
	if _, err := s.workspaceRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workspaceNotFound(id)
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}
	return nil
}

func (s *TaskService) ensureUserExists(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return userNotFound(id)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}
