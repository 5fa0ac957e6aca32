package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"clinops/docs" // swagger docs
	"clinops/internal/auth"
	"clinops/internal/cache"
	"clinops/internal/config"
	"clinops/internal/db"
	"clinops/internal/handler"
	"clinops/internal/logger"
	"clinops/internal/metrics"
	"clinops/internal/repository"
	"clinops/internal/router"
	"clinops/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title ClinOps API
// @version 1.0
// @description Projects, diagrams, feedback, dashboard reviews and AI response caching behind cookie sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth
func main() {
	rootCmd := &cobra.Command{
		Use:           "clinops-server",
		Short:         "ClinOps HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	rootCmd.Flags().String("port", "", "port to listen on (overrides SERVER_PORT)")
	rootCmd.Flags().Bool("reset-db", false, "drop all tables before migrating (overrides RESET_DB)")
	_ = viper.BindPFlag("SERVER_PORT", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("RESET_DB", rootCmd.Flags().Lookup("reset-db"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; register and login will fail")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn("redis unavailable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	diagramRepo := repository.NewDiagramRepository(gormDB)
	feedbackRepo := repository.NewFeedbackRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	aiCacheRepo := repository.NewAiCacheRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := auth.NewGuard(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	projectService := service.NewProjectService(projectRepo, cacheClient)
	diagramService := service.NewDiagramService(diagramRepo, projectRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo)
	reviewService := service.NewReviewService(reviewRepo, projectRepo)
	aiCacheService := service.NewAiCacheService(aiCacheRepo, cacheClient)

	m := metrics.New()

	// Initialize handlers
	e := echo.New()
	router.Register(
		e,
		cfg,
		guard,
		m,
		handler.NewHealthHandler(),
		handler.NewAuthHandler(authService, guard, m, jwtService.TTL(), cfg.IsProduction()),
		handler.NewProjectHandler(projectService, m),
		handler.NewDiagramHandler(diagramService, m),
		handler.NewFeedbackHandler(feedbackService, m),
		handler.NewReviewHandler(reviewService, m),
		handler.NewAiCacheHandler(aiCacheService, m),
	)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
