package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/handlers"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/services"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := security.NewTokenManager("client-test-secret", time.Hour)

	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:      services.NewAuthService(userRepo, tokens),
		UserService:      services.NewUserService(userRepo),
		WorkspaceService: services.NewWorkspaceService(workspaceRepo, userRepo),
		TaskService:      services.NewTaskService(taskRepo, workspaceRepo, userRepo, nil),
		Cookie:           handlers.CookieConfig{Name: "access_token", MaxAge: time.Hour},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func signup(t *testing.T, c *Client, email, firstName string) dto.UserDTO {
	t.Helper()
	resp, err := c.Signup(context.Background(), dto.SignupRequest{
		Email:     email,
		Password:  "password123",
		FirstName: firstName,
		LastName:  "Example",
	})
	require.NoError(t, err)
	return resp.User
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	if message != "" {
		require.Contains(t, apiErr.Message, message)
	}
}

func TestClient_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	alice := newClient(t, srv)

	user := signup(t, alice, "alice@example.com", "Alice")

	me, err := alice.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	require.NoError(t, alice.Logout(ctx))
	_, err = alice.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, "No authentication token provided")

	_, err = alice.Login(ctx, "alice@example.com", "wrong-password")
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid email or password")

	resp, err := alice.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "Login successful", resp.Message)

	profile, err := alice.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice", profile.FirstName)
}

func TestClient_WorkspaceOwnership(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	alice := newClient(t, srv)
	bob := newClient(t, srv)

	signup(t, alice, "alice@example.com", "Alice")
	bobUser := signup(t, bob, "bob@example.com", "Bob")

	workspace, err := alice.CreateWorkspace(ctx, dto.CreateWorkspaceRequest{
		Name:    "Roadmap",
		Members: []uint64{bobUser.ID},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{bobUser.ID}, workspace.Members)

	name := "Hijacked"
	_, err = bob.UpdateWorkspace(ctx, workspace.ID, dto.UpdateWorkspaceRequest{Name: &name})
	requireAPIError(t, err, http.StatusBadRequest, "Only workspace owner can update it")

	err = bob.DeleteWorkspace(ctx, workspace.ID)
	requireAPIError(t, err, http.StatusBadRequest, "Only workspace owner can delete it")

	updated, err := alice.RemoveMember(ctx, workspace.ID, bobUser.ID)
	require.NoError(t, err)
	require.Empty(t, updated.Members)

	list, err := bob.ListWorkspaces(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), list.Total)

	require.NoError(t, alice.DeleteWorkspace(ctx, workspace.ID))
	_, err = bob.GetWorkspace(ctx, workspace.ID)
	requireAPIError(t, err, http.StatusNotFound, "")
}

func TestClient_TaskAssignment(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	alice := newClient(t, srv)
	bob := newClient(t, srv)

	signup(t, alice, "alice@example.com", "Alice")
	bobUser := signup(t, bob, "bob@example.com", "Bob")

	workspace, err := alice.CreateWorkspace(ctx, dto.CreateWorkspaceRequest{Name: "Sprint", Members: []uint64{bobUser.ID}})
	require.NoError(t, err)

	task, err := alice.CreateTask(ctx, dto.CreateTaskRequest{
		Title:        "Fix login bug",
		Description:  "Users cannot log in on Safari",
		Priority:     models.TaskPriorityHigh,
		DueDate:      testutil.DueDate(),
		WorkspaceID:  workspace.ID,
		AssignedToID: &bobUser.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedTo)
	require.Equal(t, bobUser.ID, task.AssignedTo.ID)

	task, err = bob.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{AssignedToID: dto.Null[uint64]()})
	require.NoError(t, err)
	require.Nil(t, task.AssignedTo)

	done := models.TaskStatusDone
	task, err = bob.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDone, task.Status)
	require.Equal(t, "Fix login bug", task.Title)

	result, err := alice.SearchTasks(ctx, dto.TaskSearchQuery{Status: models.TaskStatusDone, WorkspaceID: &workspace.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Meta.TotalItems)

	page, err := alice.ListWorkspaceTasks(ctx, workspace.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	count, err := alice.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = alice.GetTask(ctx, task.ID)
	requireAPIError(t, err, http.StatusNotFound, "")

	_, err = alice.GenerateTasks(ctx, "Plan the release")
	requireAPIError(t, err, http.StatusServiceUnavailable, "AI service is not configured")
}

func TestClient_DeleteAccount(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	alice := newClient(t, srv)

	user := signup(t, alice, "alice@example.com", "Alice")
	require.NoError(t, alice.DeleteUser(ctx, user.ID))

	_, err := alice.GetUser(ctx, user.ID)
	requireAPIError(t, err, http.StatusNotFound, "")

	users, err := alice.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestClient_BearerToken(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	user := signup(t, newClient(t, srv), "alice@example.com", "Alice")

	tokens := security.NewTokenManager("client-test-secret", time.Hour)
	token, err := tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	c, err := New(srv.URL, WithToken(token))
	require.NoError(t, err)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
}
