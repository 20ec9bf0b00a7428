// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/database"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that is closed when t ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := security.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateWorkspace inserts a workspace owned by ownerID with the given members.
func CreateWorkspace(t testing.TB, db *gorm.DB, name string, ownerID uint64, members ...*models.User) *models.Workspace {
	t.Helper()

	workspace := &models.Workspace{Name: name, OwnerID: ownerID}
	require.NoError(t, db.Omit("Owner", "Members", "Tasks").Create(workspace).Error)
	if len(members) > 0 {
		require.NoError(t, db.Model(workspace).Association("Members").Append(members))
	}
	return workspace
}

// CreateTask inserts a TODO task with MEDIUM priority due in a week.
func CreateTask(t testing.TB, db *gorm.DB, title string, workspaceID, creatorID uint64, assigneeID *uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		Description:  title + " description",
		Status:       models.TaskStatusTodo,
		Priority:     models.TaskPriorityMedium,
		DueDate:      DueDate(),
		WorkspaceID:  workspaceID,
		CreatedByID:  creatorID,
		AssignedToID: assigneeID,
	}
	require.NoError(t, db.Omit("Workspace", "AssignedTo", "CreatedBy").Create(task).Error)
	return task
}

// DueDate returns a due date one week from now, truncated to seconds.
func DueDate() time.Time {
	return time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second)
}
