package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/admin"
	"github.com/placementprep/portal/internal/auth"
	"github.com/placementprep/portal/internal/auth/jwt"
	"github.com/placementprep/portal/internal/config"
	"github.com/placementprep/portal/internal/dashboard"
	"github.com/placementprep/portal/internal/db/repository"
	"github.com/placementprep/portal/internal/logging"
	"github.com/placementprep/portal/internal/quiz"
	"github.com/placementprep/portal/internal/resource"
	"github.com/placementprep/portal/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	tokenCfg := jwt.TokenConfig{
		AccessSecret:  []byte(cfg.Security.JWTSecret),
		RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
		Issuer:        cfg.Name,
	}

	authSvc := auth.NewService(userRepo, activityRepo, auth.ServiceOptions{
		TokenConfig: tokenCfg,
	}, logger)

	attemptStore := quiz.NewStateManager(redisClient, cfg.Quiz.AttemptTTL, logger)
	quizSvc := quiz.NewService(questionRepo, categoryRepo, resultRepo, activityRepo, attemptStore,
		quiz.ServiceOptions{MaxQuestionsPerAttempt: cfg.Quiz.MaxQuestionsPerAttempt}, logger)

	adminSvc := admin.NewService(userRepo, categoryRepo, questionRepo, resourceRepo, resultRepo, logger)
	resourceSvc := resource.NewService(resourceRepo)
	dashboardSvc := dashboard.NewService(resultRepo, activityRepo, categoryRepo, questionRepo, resourceRepo)

	handlers := server.Handlers{
		Auth:      auth.NewHTTPHandlers(authSvc, logger),
		Quiz:      quiz.NewHTTPHandlers(quizSvc, logger),
		Admin:     admin.NewHTTPHandlers(adminSvc, logger),
		Resource:  resource.NewHTTPHandlers(resourceSvc, logger),
		Dashboard: dashboard.NewHTTPHandlers(dashboardSvc, logger),
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, handlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
