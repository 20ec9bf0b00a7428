package repository

import (
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDs returns the users matching ids, skipping unknown ones
	FindByIDs(ids []uint64) ([]models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// EmailTaken reports whether any user other than excludeID, deleted or
	// not, already holds email
	EmailTaken(email string, excludeID uint64) (bool, error)

	// List returns every active user
	List() ([]models.User, error)

	// Update saves the user's own columns
	Update(user *models.User) error

	// Delete soft deletes a user together with their memberships, assignments
	// and owned workspaces
	Delete(id uint64) error
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// Create creates a new workspace
	Create(workspace *models.Workspace) error

	// FindByID finds a workspace by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Workspace, error)

	// List retrieves a page of workspaces with owner, members and tasks
	List(params utils.PaginationParams) ([]models.Workspace, int64, error)

	// Update saves the workspace's own columns
	Update(workspace *models.Workspace) error

	// ReplaceMembers swaps the whole member set for users
	ReplaceMembers(workspace *models.Workspace, users []models.User) error

	// AddMember appends user to the member set
	AddMember(workspace *models.Workspace, user *models.User) error

	// RemoveMember drops userID from the member set
	RemoveMember(workspace *models.Workspace, userID uint64) error

	// Delete soft deletes a workspace and its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindAll returns every task with its relations
	FindAll() ([]models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves the task's own columns
	Update(task *models.Task) error

	// Delete soft deletes a task, returning the number of rows removed
	Delete(id uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToID *uint64
	CreatedByID  *uint64
	WorkspaceID  *uint64
	// Search is matched case-insensitively against title and description.
	Search string
	Page   int
	Limit  int
}
