package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/workspace-task-api/internal/config"
	"github.com/yukikurage/workspace-task-api/internal/database"
	"github.com/yukikurage/workspace-task-api/internal/handlers"
	"github.com/yukikurage/workspace-task-api/internal/logging"
	"github.com/yukikurage/workspace-task-api/internal/middleware"
	"github.com/yukikurage/workspace-task-api/internal/ratelimit"
	"github.com/yukikurage/workspace-task-api/internal/repository"
	"github.com/yukikurage/workspace-task-api/internal/security"
	"github.com/yukikurage/workspace-task-api/internal/services"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser := logging.Setup(cfg.Logging)
	defer logCloser.Close()

	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rate limiting is optional; without redis the auth endpoints are not throttled.
	var limiter middleware.Limiter
	if cfg.Redis.Enabled {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, rate limiting disabled")
		} else {
			defer rdb.Close()
			limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.RequestsPerMinute)
		}
	}

	var drafter services.TaskDrafter
	if cfg.OpenAI.APIKey != "" {
		drafter = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Info().Msg("OPENAI_API_KEY not set, task generation disabled")
	}

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService:      services.NewAuthService(userRepo, tokens),
		UserService:      services.NewUserService(userRepo),
		WorkspaceService: services.NewWorkspaceService(workspaceRepo, userRepo),
		TaskService:      services.NewTaskService(taskRepo, workspaceRepo, userRepo, drafter),
		Cookie: handlers.CookieConfig{
			Name:   cfg.Auth.CookieName,
			MaxAge: cfg.Auth.TokenTTL,
			Secure: cfg.IsProduction(),
		},
		Limiter: limiter,
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
