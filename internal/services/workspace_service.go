package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/utils"
	"gorm.io/gorm"
)

const (
	minWorkspaceNameLength        = 3
	maxWorkspaceDescriptionLength = 1000
)

var (
	ErrInvalidWorkspaceName        = errors.New("workspace name must be at least 3 characters")
	ErrWorkspaceDescriptionTooLong = errors.New("workspace description must be at most 1000 characters")
)

// WorkspaceService provides business logic for workspace operations.
// Every mutation reloads the workspace and checks the actor against its owner.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description *string
	OwnerID     uint64
	MemberIDs   []uint64
}

// UpdateWorkspaceInput holds optional changes. A non-nil MemberIDs replaces
// the member set. ClearDescription removes the description and wins over
// Description.
type UpdateWorkspaceInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
	MemberIDs        *[]uint64
}

// CreateWorkspace creates a workspace owned by the actor and attaches members.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	name, err := workspaceName(input.Name)
	if err != nil {
		return nil, err
	}

	members, err := s.resolveUsers(input.MemberIDs)
	if err != nil {
		return nil, err
	}

	workspace := &models.Workspace{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.workspaceRepo.Create(workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if len(members) > 0 {
		if err := s.workspaceRepo.ReplaceMembers(workspace, members); err != nil {
			return nil, fmt.Errorf("failed to add workspace members: %w", err)
		}
	}

	return s.GetWorkspace(workspace.ID)
}

// GetWorkspace returns a workspace with owner, members and tasks.
func (s *WorkspaceService) GetWorkspace(id uint64) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(id, repository.WorkspaceRelations...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workspaceNotFound(id)
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return workspace, nil
}

// ListWorkspaces returns a page of workspaces and the total count.
func (s *WorkspaceService) ListWorkspaces(params utils.PaginationParams) ([]models.Workspace, int64, error) {
	workspaces, total, err := s.workspaceRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, total, nil
}

// UpdateWorkspace applies a partial update on behalf of the owner.
func (s *WorkspaceService) UpdateWorkspace(id, actorID uint64, input UpdateWorkspaceInput) (*models.Workspace, error) {
	workspace, err := s.ownedWorkspace(id, actorID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := workspaceName(*input.Name)
		if err != nil {
			return nil, err
		}
		workspace.Name = name
	}
	switch {
	case input.ClearDescription:
		workspace.Description = nil
	case input.Description != nil:
		if utf8.RuneCountInString(*input.Description) > maxWorkspaceDescriptionLength {
			return nil, ErrWorkspaceDescriptionTooLong
		}
		workspace.Description = input.Description
	}

	var members []models.User
	if input.MemberIDs != nil {
		if members, err = s.resolveUsers(*input.MemberIDs); err != nil {
			return nil, err
		}
	}

	if err := s.workspaceRepo.Update(workspace); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	if input.MemberIDs != nil {
		if err := s.workspaceRepo.ReplaceMembers(workspace, members); err != nil {
			return nil, fmt.Errorf("failed to replace workspace members: %w", err)
		}
	}

	return s.GetWorkspace(workspace.ID)
}

// AddMember adds userID to the workspace. Adding an existing member is a no-op.
func (s *WorkspaceService) AddMember(id, userID, actorID uint64) (*models.Workspace, error) {
	workspace, err := s.ownedWorkspace(id, actorID, ActionManageMembers)
	if err != nil {
		return nil, err
	}

	if workspace.HasMember(userID) {
		return workspace, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userNotFound(userID)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.workspaceRepo.AddMember(workspace, user); err != nil {
		return nil, fmt.Errorf("failed to add workspace member: %w", err)
	}

	return s.GetWorkspace(workspace.ID)
}

// RemoveMember drops userID from the workspace. Removing a non-member is a no-op.
func (s *WorkspaceService) RemoveMember(id, userID, actorID uint64) (*models.Workspace, error) {
	workspace, err := s.ownedWorkspace(id, actorID, ActionManageMembers)
	if err != nil {
		return nil, err
	}

	if !workspace.HasMember(userID) {
		return workspace, nil
	}

	if err := s.workspaceRepo.RemoveMember(workspace, userID); err != nil {
		return nil, fmt.Errorf("failed to remove workspace member: %w", err)
	}

	return s.GetWorkspace(workspace.ID)
}

// DeleteWorkspace removes the workspace and its tasks on behalf of the owner.
func (s *WorkspaceService) DeleteWorkspace(id, actorID uint64) error {
	if _, err := s.ownedWorkspace(id, actorID, ActionDelete); err != nil {
		return err
	}

	if err := s.workspaceRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// ownedWorkspace loads a workspace and fails unless actorID owns it.
func (s *WorkspaceService) ownedWorkspace(id, actorID uint64, action string) (*models.Workspace, error) {
	workspace, err := s.GetWorkspace(id)
	if err != nil {
		return nil, err
	}

	if workspace.OwnerID != actorID {
		return nil, &OwnershipError{Action: action}
	}

	return workspace, nil
}

// resolveUsers loads every id, failing on the first one that does not exist.
func (s *WorkspaceService) resolveUsers(ids []uint64) ([]models.User, error) {
	ids = uniqueUint64(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}

	if len(users) != len(ids) {
		found := make(map[uint64]struct{}, len(users))
		for _, u := range users {
			found[u.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				return nil, userNotFound(id)
			}
		}
	}

	return users, nil
}

// workspaceName trims surrounding space and checks what is left.
func workspaceName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) < minWorkspaceNameLength {
		return "", ErrInvalidWorkspaceName
	}
	return name, nil
}
