package services

import (
	"testing"
	"time"

	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	tokens     *security.TokenManager
	auth       *AuthService
	users      *UserService
	workspaces *WorkspaceService
	tasks      *TaskService
}

func setupServices(t *testing.T, drafter TaskDrafter) testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := security.NewTokenManager("test-secret", time.Hour)

	return testEnv{
		db:         db,
		tokens:     tokens,
		auth:       NewAuthService(userRepo, tokens),
		users:      NewUserService(userRepo),
		workspaces: NewWorkspaceService(workspaceRepo, userRepo),
		tasks:      NewTaskService(taskRepo, workspaceRepo, userRepo, drafter),
	}
}
