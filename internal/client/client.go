// Package client is a typed HTTP client for the workspace task API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/workspace-task-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
)

// Client keeps the access token cookie between calls, so a successful Login
// authenticates every later request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Cookies are only kept
// when hc has a Jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends token as a bearer header on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Signup registers a user. The client is signed in afterwards.
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the signed in user.
func (c *Client) Me(ctx context.Context) (*dto.UserDTO, error) {
	var out dto.CurrentUserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	var out []dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	var out dto.UserDTO
	if err := c.do(ctx, http.MethodGet, idPath("/user", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*dto.UserDTO, error) {
	var out dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint64, req dto.UpdateUserRequest) (*dto.UserDTO, error) {
	var out dto.UserDTO
	if err := c.do(ctx, http.MethodPatch, idPath("/user", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/user", id), nil, nil)
}

func (c *Client) CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest) (*dto.WorkspaceDTO, error) {
	var out dto.WorkspaceDTO
	if err := c.do(ctx, http.MethodPost, "/workspaces", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWorkspaces(ctx context.Context, page, limit int) (*dto.WorkspaceListResponse, error) {
	var out dto.WorkspaceListResponse
	if err := c.do(ctx, http.MethodGet, "/workspaces"+pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWorkspace(ctx context.Context, id uint64) (*dto.WorkspaceDTO, error) {
	var out dto.WorkspaceDTO
	if err := c.do(ctx, http.MethodGet, idPath("/workspaces", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWorkspaceTasks(ctx context.Context, id uint64, page, limit int) (*dto.TaskListResponse, error) {
	var out dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, idPath("/workspaces", id)+"/tasks"+pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkspace(ctx context.Context, id uint64, req dto.UpdateWorkspaceRequest) (*dto.WorkspaceDTO, error) {
	var out dto.WorkspaceDTO
	if err := c.do(ctx, http.MethodPatch, idPath("/workspaces", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/workspaces", id), nil, nil)
}

func (c *Client) AddMember(ctx context.Context, workspaceID, userID uint64) (*dto.WorkspaceDTO, error) {
	var out dto.WorkspaceDTO
	if err := c.do(ctx, http.MethodPost, idPath("/workspaces", workspaceID)+"/members", dto.AddMemberRequest{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMember(ctx context.Context, workspaceID, userID uint64) (*dto.WorkspaceDTO, error) {
	var out dto.WorkspaceDTO
	if err := c.do(ctx, http.MethodDelete, idPath(idPath("/workspaces", workspaceID)+"/members", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error) {
	var out dto.TaskDTO
	if err := c.do(ctx, http.MethodPost, "/task", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var out []dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, "/task", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchTasks sends the non-zero fields of query as query parameters.
func (c *Client) SearchTasks(ctx context.Context, query dto.TaskSearchQuery) (*dto.TaskSearchResponse, error) {
	values := url.Values{}
	if query.Status != "" {
		values.Set("status", string(query.Status))
	}
	if query.Priority != "" {
		values.Set("priority", string(query.Priority))
	}
	setID(values, "assignedToId", query.AssignedToID)
	setID(values, "createdById", query.CreatedByID)
	setID(values, "workspaceId", query.WorkspaceID)
	if query.Search != "" {
		values.Set("search", query.Search)
	}
	if query.Page > 0 {
		values.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	path := "/task/search"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var out dto.TaskSearchResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var out dto.TaskDTO
	if err := c.do(ctx, http.MethodGet, idPath("/task", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask sends only the fields set on req. Use dto.Null to unassign.
func (c *Client) UpdateTask(ctx context.Context, id uint64, req dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	var out dto.TaskDTO
	if err := c.do(ctx, http.MethodPatch, idPath("/task", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask returns the number of deleted tasks.
func (c *Client) DeleteTask(ctx context.Context, id uint64) (int64, error) {
	var out dto.DeleteTaskResponse
	if err := c.do(ctx, http.MethodDelete, idPath("/task", id), nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) GenerateTasks(ctx context.Context, text string) ([]dto.TaskDraftDTO, error) {
	var out dto.GenerateTasksResponse
	if err := c.do(ctx, http.MethodPost, "/task/generate", dto.GenerateTasksRequest{Text: text}, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apierrors.APIError
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.StatusCode == 0 {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func idPath(prefix string, id uint64) string {
	return prefix + "/" + strconv.FormatUint(id, 10)
}

func pageQuery(page, limit int) string {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func setID(values url.Values, key string, id *uint64) {
	if id != nil {
		values.Set(key, strconv.FormatUint(*id, 10))
	}
}
