package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/services"
)

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	AuthService      *services.AuthService
	UserService      *services.UserService
	WorkspaceService *services.WorkspaceService
	TaskService      *services.TaskService
	Cookie           CookieConfig
	// Limiter throttles signup and login. Nil disables rate limiting.
	Limiter middleware.Limiter
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	apierrors.RegisterJSONFieldNames()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Cannot "+c.Request.Method+" "+c.Request.URL.Path)
	})
	r.NoMethod(apierrors.MethodNotAllowed)

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Cookie)
	userHandler := NewUserHandler(cfg.UserService, cfg.Cookie)
	workspaceHandler := NewWorkspaceHandler(cfg.WorkspaceService, cfg.TaskService)
	taskHandler := NewTaskHandler(cfg.TaskService)

	requireAuth := middleware.RequireAuth(cfg.AuthService, cfg.Cookie.Name)
	userID := middleware.RequireIDParam("id", "user")
	workspaceID := middleware.RequireIDParam("id", "workspace")
	taskID := middleware.RequireIDParam("id", "task")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Workspace Task API is running",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/signup", middleware.RateLimit(cfg.Limiter, "signup"), authHandler.Signup)
		auth.POST("/login", middleware.RateLimit(cfg.Limiter, "login"), authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	users := r.Group("/user")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/profile", requireAuth, userHandler.GetProfile)
		users.GET("/:id", userID, userHandler.GetUser)
		users.PATCH("/:id", requireAuth, userID, userHandler.UpdateUser)
		users.DELETE("/:id", requireAuth, userID, userHandler.DeleteUser)
	}

	workspaces := r.Group("/workspaces")
	{
		workspaces.GET("", workspaceHandler.ListWorkspaces)
		workspaces.POST("", requireAuth, workspaceHandler.CreateWorkspace)
		workspaces.GET("/:id", workspaceID, workspaceHandler.GetWorkspace)
		workspaces.GET("/:id/tasks", requireAuth, workspaceID, workspaceHandler.ListWorkspaceTasks)
		workspaces.PATCH("/:id", requireAuth, workspaceID, workspaceHandler.UpdateWorkspace)
		workspaces.DELETE("/:id", requireAuth, workspaceID, workspaceHandler.DeleteWorkspace)
		workspaces.POST("/:id/members", requireAuth, workspaceID, workspaceHandler.AddMember)
		workspaces.DELETE("/:id/members/:userId", requireAuth, workspaceID,
			middleware.RequireIDParam("userId", "user"), workspaceHandler.RemoveMember)
	}

	tasks := r.Group("/task")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/search", taskHandler.SearchTasks)
		tasks.POST("/generate", taskHandler.GenerateTasks)
		tasks.GET("/:id", taskID, taskHandler.GetTask)
		tasks.PATCH("/:id", taskID, taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskID, taskHandler.DeleteTask)
	}

	return r
}
