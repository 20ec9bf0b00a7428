package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/constants"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
	"github.com/yukikurage/workspace-task-api/internal/utils"
)

type stubDrafter struct {
	tasks []GeneratedTask
	err   error
}

func (s stubDrafter) GenerateTasksFromText(context.Context, string) ([]GeneratedTask, error) {
	return s.tasks, s.err
}

func taskInput(workspaceID, creatorID uint64) CreateTaskInput {
	return CreateTaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    models.TaskPriorityHigh,
		DueDate:     testutil.DueDate(),
		WorkspaceID: workspaceID,
		CreatorID:   creatorID,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID, bob)

	input := taskInput(workspace.ID, alice.ID)
	input.AssignedToID = &bob.ID

	task, err := env.tasks.CreateTask(input)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, alice.ID, task.CreatedBy.ID)
	assert.Equal(t, workspace.ID, task.Workspace.ID)
	require.NotNil(t, task.AssignedTo)
	assert.Equal(t, bob.ID, task.AssignedTo.ID)
}

func TestTaskService_CreateTask_MissingReferences(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID)

	_, err := env.tasks.CreateTask(taskInput(404, alice.ID))
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Workspace with ID 404 not found", notFound.Error())

	input := taskInput(workspace.ID, alice.ID)
	missing := uint64(405)
	input.AssignedToID = &missing
	_, err = env.tasks.CreateTask(input)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "User with ID 405 not found", notFound.Error())

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTaskService_UpdateTask(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID, bob)
	task := testutil.CreateTask(t, env.db, "Draft", workspace.ID, alice.ID, &bob.ID)

	done := models.TaskStatusDone
	updated, err := env.tasks.UpdateTask(task.ID, UpdateTaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, updated.Status)
	assert.Equal(t, "Draft", updated.Title)
	require.NotNil(t, updated.AssignedTo)

	// Any status may follow any other.
	todo := models.TaskStatusTodo
	updated, err = env.tasks.UpdateTask(task.ID, UpdateTaskInput{Status: &todo})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, updated.Status)

	updated, err = env.tasks.UpdateTask(task.ID, UpdateTaskInput{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedToID)
	assert.Nil(t, updated.AssignedTo)

	missing := uint64(404)
	_, err = env.tasks.UpdateTask(task.ID, UpdateTaskInput{AssignedToID: &missing})
	require.ErrorIs(t, err, ErrNotFound)

	updated, err = env.tasks.UpdateTask(task.ID, UpdateTaskInput{AssignedToID: &alice.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, alice.ID, updated.AssignedTo.ID)

	_, err = env.tasks.UpdateTask(999, UpdateTaskInput{Status: &done})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_DeleteTaskTwice(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID)
	task := testutil.CreateTask(t, env.db, "Once", workspace.ID, alice.ID, nil)

	count, err := env.tasks.DeleteTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = env.tasks.DeleteTask(task.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, count)

	tasks, err := env.tasks.ListTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_SearchTasks(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID)
	testutil.CreateTask(t, env.db, "Alpha", workspace.ID, alice.ID, nil)
	testutil.CreateTask(t, env.db, "Beta", workspace.ID, alice.ID, &alice.ID)

	tasks, total, err := env.tasks.SearchTasks(SearchTasksInput{Search: "ALPHA", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Alpha", tasks[0].Title)

	tasks, total, err = env.tasks.SearchTasks(SearchTasksInput{AssignedToID: &alice.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Beta", tasks[0].Title)

	for _, bad := range []SearchTasksInput{{Page: 0, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: 101}, {Page: constants.MaxPage + 1, Limit: 10}} {
		_, _, err := env.tasks.SearchTasks(bad)
		require.ErrorIs(t, err, ErrInvalidPagination)
	}
}

func TestTaskService_ListWorkspaceTasks(t *testing.T) {
	env := setupServices(t, nil)
	alice := testutil.CreateUser(t, env.db, "alice@example.com")
	workspace := testutil.CreateWorkspace(t, env.db, "Team", alice.ID)
	other := testutil.CreateWorkspace(t, env.db, "Other", alice.ID)
	testutil.CreateTask(t, env.db, "mine", workspace.ID, alice.ID, nil)
	testutil.CreateTask(t, env.db, "theirs", other.ID, alice.ID, nil)

	tasks, total, err := env.tasks.ListWorkspaceTasks(workspace.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "mine", tasks[0].Title)

	_, _, err = env.tasks.ListWorkspaceTasks(404, utils.NewPaginationParams(1, 10))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_GenerateTasks(t *testing.T) {
	past := time.Now().Add(-72 * time.Hour)
	future := time.Now().Add(72 * time.Hour)

	env := setupServices(t, stubDrafter{tasks: []GeneratedTask{
		{Title: "  Book venue  ", Priority: "high", DueDate: &future},
		{Title: "", Description: "dropped"},
		{Title: strings.Repeat("x", 80), Description: "long", Priority: "URGENT", DueDate: &past},
	}})

	drafts, err := env.tasks.GenerateTasks(context.Background(), "plan the offsite")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Book venue", drafts[0].Title)
	assert.Equal(t, "Book venue", drafts[0].Description)
	assert.Equal(t, models.TaskPriorityHigh, drafts[0].Priority)
	assert.NotNil(t, drafts[0].DueDate)

	assert.Len(t, drafts[1].Title, 50)
	assert.Equal(t, models.TaskPriorityMedium, drafts[1].Priority)
	assert.Nil(t, drafts[1].DueDate)
}

func TestTaskService_GenerateTasks_Errors(t *testing.T) {
	_, err := setupServices(t, nil).tasks.GenerateTasks(context.Background(), "text")
	require.ErrorIs(t, err, ErrAIServiceNotConfigured)

	_, err = setupServices(t, stubDrafter{}).tasks.GenerateTasks(context.Background(), "text")
	require.ErrorIs(t, err, ErrAINoTasksGenerated)

	_, err = setupServices(t, stubDrafter{tasks: []GeneratedTask{{Title: " "}}}).tasks.GenerateTasks(context.Background(), "text")
	require.ErrorIs(t, err, ErrAINoValidTasks)

	upstream := errors.New("rate limited")
	_, err = setupServices(t, stubDrafter{err: upstream}).tasks.GenerateTasks(context.Background(), "text")
	require.ErrorIs(t, err, upstream)
}
