package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/workspace-task-api/internal/errors"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/services"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
	"gorm.io/gorm"
)

const testCookieName = "access_token"

type handlerTestEnv struct {
	db     *gorm.DB
	tokens *security.TokenManager
	router *gin.Engine
}

type envOption func(*RouterConfig)

func withLimiter(limiter middleware.Limiter) envOption {
	return func(cfg *RouterConfig) { cfg.Limiter = limiter }
}

func setupHandlerTestEnv(t *testing.T, drafter services.TaskDrafter, opts ...envOption) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := security.NewTokenManager("handler-test-secret", time.Hour)

	cfg := RouterConfig{
		AuthService:      services.NewAuthService(userRepo, tokens),
		UserService:      services.NewUserService(userRepo),
		WorkspaceService: services.NewWorkspaceService(workspaceRepo, userRepo),
		TaskService:      services.NewTaskService(taskRepo, workspaceRepo, userRepo, drafter),
		Cookie:           CookieConfig{Name: testCookieName, MaxAge: time.Hour},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return handlerTestEnv{
		db:     db,
		tokens: tokens,
		router: NewRouter(cfg),
	}
}

// tokenFor issues an access token for user.
func (e handlerTestEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)
	return token
}

// do sends a request through the router. A non-empty token goes into the
// Authorization header.
func (e handlerTestEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		default:
			var err error
			raw, err = json.Marshal(b)
			require.NoError(t, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireAPIError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())

	body := decode[apierrors.APIError](t, w)
	require.Equal(t, status, body.StatusCode)
	if message != "" {
		require.Contains(t, body.Message, message)
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
