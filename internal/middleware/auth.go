package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workspace-task-api/internal/constants"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/services"
)

// Authenticator resolves an access token to a live user.
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
}

// RequireAuth checks the access token from the cookie or the Authorization
// header and loads the user it belongs to.
func RequireAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c, cookieName)
		if token == "" {
			apierrors.Unauthorized(c, "No authentication token provided")
			return
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				apierrors.Unauthorized(c, "Token has expired")
			case errors.Is(err, security.ErrTokenInvalid):
				apierrors.Unauthorized(c, "Invalid token")
			case errors.Is(err, services.ErrNotFound):
				apierrors.Unauthorized(c, "User no longer exists")
			default:
				apierrors.InternalError(c, err)
			}
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// ExtractToken returns the token from the cookie, falling back to a bearer header.
func ExtractToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
