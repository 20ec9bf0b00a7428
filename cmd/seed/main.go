package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/workspace-task-api/internal/config"
	"github.com/yukikurage/workspace-task-api/internal/database"
	"github.com/yukikurage/workspace-task-api/internal/logging"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/services"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var seedUsers = []services.SignupInput{
	{Email: "john.doe@example.com", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", FirstName: "Jane", LastName: "Smith"},
	{Email: "bob.wilson@example.com", FirstName: "Bob", LastName: "Wilson"},
	{Email: "alice.brown@example.com", FirstName: "Alice", LastName: "Brown"},
}

type seedTask struct {
	title       string
	description string
	status      models.TaskStatus
	priority    models.TaskPriority
	dueInDays   int
	assignee    int
}

var seedTasks = []seedTask{
	{"Set up CI pipeline", "Build, lint and test on every push", models.TaskStatusDone, models.TaskPriorityHigh, 3, 0},
	{"Design database schema", "Users, workspaces and tasks", models.TaskStatusDone, models.TaskPriorityHigh, 5, 1},
	{"Implement authentication", "Signup, login and logout with JWT cookies", models.TaskStatusInProgress, models.TaskPriorityHigh, 7, 0},
	{"Workspace member management", "Add and remove members", models.TaskStatusInProgress, models.TaskPriorityMedium, 10, 2},
	{"Task search endpoint", "Filter by status, priority and assignee", models.TaskStatusTodo, models.TaskPriorityMedium, 14, 3},
	{"Write API documentation", "Document every endpoint", models.TaskStatusTodo, models.TaskPriorityLow, 21, 1},
	{"Frontend task board", "Kanban view of tasks", models.TaskStatusTodo, models.TaskPriorityMedium, 28, -1},
	{"Load testing", "Check the API under load", models.TaskStatusTodo, models.TaskPriorityLow, 35, -1},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	defer logging.Setup(cfg.Logging).Close()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := seed(db, security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
}

func seed(db *gorm.DB, tokens *security.TokenManager) error {
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	existing, err := userRepo.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Int("users", len(existing)).Msg("Database already seeded, skipping")
		return nil
	}

	authService := services.NewAuthService(userRepo, tokens)
	workspaceService := services.NewWorkspaceService(workspaceRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, workspaceRepo, userRepo, nil)

	users := make([]*models.User, 0, len(seedUsers))
	for _, input := range seedUsers {
		input.Password = seedPassword
		result, err := authService.Signup(input)
		if err != nil {
			return err
		}
		users = append(users, result.User)
	}

	memberIDs := make([]uint64, 0, len(users))
	for _, u := range users {
		memberIDs = append(memberIDs, u.ID)
	}

	description := "Everything needed to ship the first release"
	workspace, err := workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:        "Product Launch",
		Description: &description,
		OwnerID:     users[0].ID,
		MemberIDs:   memberIDs,
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, st := range seedTasks {
		input := services.CreateTaskInput{
			Title:       st.title,
			Description: st.description,
			Status:      st.status,
			Priority:    st.priority,
			DueDate:     now.AddDate(0, 0, st.dueInDays),
			WorkspaceID: workspace.ID,
			CreatorID:   users[i%len(users)].ID,
		}
		if st.assignee >= 0 {
			input.AssignedToID = &users[st.assignee].ID
		}
		if _, err := taskService.CreateTask(input); err != nil {
			return err
		}
	}

	log.Info().
		Int("users", len(users)).
		Int("tasks", len(seedTasks)).
		Uint64("workspace_id", workspace.ID).
		Msgf("Seed data created; every user's password is %q", seedPassword)
	return nil
}
