package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-task-api/internal/constants"
	"github.com/yukikurage/workspace-task-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/services"
)

// UserHandler serves the /user endpoints.
type UserHandler struct {
	userService *services.UserService
	cookie      CookieConfig
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
	}
}

// ListUsers returns every user
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a user by id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(middleware.IDParam(c, "id"))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetProfile returns the caller's own record
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update to the caller's account
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	user, err := h.userService.UpdateUser(middleware.IDParam(c, "id"), userID, services.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes the caller's account and signs them out
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.userService.DeleteUser(middleware.IDParam(c, "id"), userID); err != nil {
		respondUserError(c, err)
		return
	}

	clearTokenCookie(c, h.cookie)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

func respondUserError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &notFound):
		apierrors.NotFound(c, notFound.Error())
	case errors.Is(err, services.ErrNotAccountOwnerUpdate):
		apierrors.BadRequest(c, "You can only update your own account")
	case errors.Is(err, services.ErrNotAccountOwnerDelete):
		apierrors.BadRequest(c, "You can only delete your own account")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "A user with this email already exists")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	default:
		apierrors.InternalError(c, err)
	}
}
