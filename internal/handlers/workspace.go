package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-task-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/services"
	"github.com/yukikurage/workspace-task-api/internal/utils"
)

// WorkspaceHandler serves the /workspaces endpoints.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	taskService      *services.TaskService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService, taskService *services.TaskService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		taskService:      taskService,
	}
}

// CreateWorkspace creates a workspace owned by the caller
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		MemberIDs:   req.Members,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*workspace))
}

// ListWorkspaces returns a page of workspaces
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	workspaces, total, err := h.workspaceService.ListWorkspaces(params)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceListResponse(workspaces, params, total))
}

// GetWorkspace returns one workspace with owner, members and tasks
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspace, err := h.workspaceService.GetWorkspace(middleware.IDParam(c, "id"))
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*workspace))
}

// ListWorkspaceTasks returns a page of the workspace's tasks
func (h *WorkspaceHandler) ListWorkspaceTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListWorkspaceTasks(middleware.IDParam(c, "id"), params)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// UpdateWorkspace applies a partial update; owner only. A null description
// clears it.
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	input := services.UpdateWorkspaceInput{
		Name:      req.Name,
		MemberIDs: req.Members,
	}
	if req.Description.IsNull() {
		input.ClearDescription = true
	} else if req.Description.Present {
		input.Description = req.Description.Value
	}

	workspace, err := h.workspaceService.UpdateWorkspace(middleware.IDParam(c, "id"), userID, input)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*workspace))
}

// DeleteWorkspace removes a workspace and its tasks; owner only
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.workspaceService.DeleteWorkspace(middleware.IDParam(c, "id"), userID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Workspace deleted successfully"})
}

// AddMember adds a user to the workspace; owner only
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	workspace, err := h.workspaceService.AddMember(middleware.IDParam(c, "id"), req.UserID, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*workspace))
}

// RemoveMember removes a user from the workspace; owner only
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	workspace, err := h.workspaceService.RemoveMember(middleware.IDParam(c, "id"), middleware.IDParam(c, "userId"), userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*workspace))
}

func respondWorkspaceError(c *gin.Context, err error) {
	var (
		notFound  *services.NotFoundError
		ownership *services.OwnershipError
	)
	switch {
	case errors.As(err, &ownership):
		apierrors.BadRequest(c, ownership.Error())
	case errors.As(err, &notFound):
		apierrors.NotFound(c, notFound.Error())
	case errors.Is(err, services.ErrInvalidWorkspaceName):
		apierrors.BadRequest(c, "name must be at least 3 characters")
	case errors.Is(err, services.ErrWorkspaceDescriptionTooLong):
		apierrors.BadRequest(c, "description must be at most 1000 characters")
	default:
		apierrors.InternalError(c, err)
	}
}
