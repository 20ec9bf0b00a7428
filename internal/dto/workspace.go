package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/utils"
)

// WorkspaceDTO represents a workspace in API responses. Members are listed by id.
type WorkspaceDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     uint64    `json:"ownerId"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	Members     []uint64  `json:"members"`
	Tasks       []TaskDTO `json:"tasks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WorkspaceSummaryDTO is the workspace embedded in task responses
type WorkspaceSummaryDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     uint64  `json:"ownerId"`
}

type CreateWorkspaceRequest struct {
	Name        string   `json:"name" binding:"required,min=3,max=255"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=1000"`
	Members     []uint64 `json:"members,omitempty"`
}

// UpdateWorkspaceRequest is a partial update. A non-nil Members replaces the
// whole member set. Description set to null clears it.
type UpdateWorkspaceRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,min=3,max=255"`
	Description Nullable[string] `json:"description"`
	Members     *[]uint64        `json:"members,omitempty"`
}

// MarshalJSON writes only the fields that are set.
func (r UpdateWorkspaceRequest) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description.Present {
		fields["description"] = r.Description
	}
	if r.Members != nil {
		fields["members"] = *r.Members
	}
	return json.Marshal(fields)
}

type AddMemberRequest struct {
	UserID uint64 `json:"userId" binding:"required"`
}

// WorkspaceListResponse represents a page of workspaces
type WorkspaceListResponse struct {
	Data []WorkspaceDTO `json:"data"`
	utils.PaginationResponse
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace) WorkspaceDTO {
	dto := WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
		Members:     workspace.MemberIDs(),
		Tasks:       ToTaskDTOs(workspace.Tasks),
		CreatedAt:   workspace.CreatedAt,
		UpdatedAt:   workspace.UpdatedAt,
	}

	// Include owner if preloaded
	if workspace.Owner.ID != 0 {
		owner := ToUserDTO(workspace.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToWorkspaceSummaryDTO drops the relations of a workspace
func ToWorkspaceSummaryDTO(workspace models.Workspace) WorkspaceSummaryDTO {
	return WorkspaceSummaryDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
	}
}

// ToWorkspaceListResponse converts a page of workspaces
func ToWorkspaceListResponse(workspaces []models.Workspace, params utils.PaginationParams, total int64) WorkspaceListResponse {
	items := make([]WorkspaceDTO, len(workspaces))
	for i, workspace := range workspaces {
		items[i] = ToWorkspaceDTO(workspace)
	}

	return WorkspaceListResponse{
		Data: items,
		PaginationResponse: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
