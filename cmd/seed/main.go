package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinops/internal/auth"
	"clinops/internal/config"
	"clinops/internal/db"
	"clinops/internal/logger"
	"clinops/internal/model"
	"clinops/internal/repository"
	"clinops/internal/service"
)

// demoProjects are created for the demo user. IDs are fixed so reruns update
// instead of duplicating.
var demoProjects = []model.Project{
	{ID: "demo-ward-rounds", Name: "Ward rounds", Description: strPtr("Morning handover and round planning")},
	{ID: "demo-discharge", Name: "Discharge pathway", Description: strPtr("Steps from medically fit to discharged")},
	{ID: "demo-theatre", Name: "Theatre scheduling"},
}

func main() {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:          "clinops-seed",
		Short:        "Create a demo user with a few projects",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), email, password, name)
		},
	}
	cmd.Flags().StringVar(&email, "email", "demo@clinops.local", "demo user email")
	cmd.Flags().StringVar(&password, "password", "demo-password", "demo user password")
	cmd.Flags().StringVar(&name, "name", "Demo User", "demo user display name")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, email, password, name string) error {
	cfg := config.Load()

	log, err := logger.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting seed")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("database migrations completed")

	user, err := seedUser(ctx, repository.NewUserRepository(gormDB), email, password, name)
	if err != nil {
		return err
	}
	log.Info("demo user ready", zap.String("email", user.Email), zap.String("id", user.ID))

	seeded, updated, err := seedProjects(ctx, repository.NewProjectRepository(gormDB), user.ID, demoProjects)
	if err != nil {
		return err
	}

	log.Info("seed completed",
		zap.Int("projects_created", seeded),
		zap.Int("projects_updated", updated),
		zap.Int("projects_total", seeded+updated),
	)
	return nil
}

// seedUser returns the user with email, creating it when missing.
func seedUser(ctx context.Context, repo repository.UserRepository, email, password, name string) (*model.User, error) {
	email = service.NormalizeEmail(email)

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking user %s: %w", email, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Email: email, PasswordHash: hash, Name: &name}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user %s: %w", email, err)
	}
	return user, nil
}

// seedProjects creates new projects or updates existing ones owned by userID.
func seedProjects(ctx context.Context, repo repository.ProjectRepository, userID string, projects []model.Project) (seeded int, updated int, err error) {
	for _, p := range projects {
		project := p
		project.UserID = userID

		existing, err := repo.FindByID(ctx, project.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return seeded, updated, fmt.Errorf("error checking project %s: %w", project.ID, err)
		}

		if existing != nil {
			if !existing.OwnedBy(userID) {
				return seeded, updated, fmt.Errorf("project %s belongs to another user", project.ID)
			}
			existing.Name = project.Name
			existing.Description = project.Description
			if err := repo.Update(ctx, existing); err != nil {
				return seeded, updated, fmt.Errorf("error updating project %s: %w", project.ID, err)
			}
			updated++
			continue
		}

		if err := repo.Create(ctx, &project); err != nil {
			return seeded, updated, fmt.Errorf("error creating project %s: %w", project.ID, err)
		}
		seeded++
	}

	return seeded, updated, nil
}

func strPtr(s string) *string { return &s }
