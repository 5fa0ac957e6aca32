package db

import (
	"fmt"

	"gorm.io/gorm"

	"clinops/internal/model"
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Project{},
		&model.SavedDiagram{},
		&model.Feedback{},
		&model.DashboardReview{},
		&model.AiResponseCache{},
	}
}

// Migrate runs AutoMigrate for all models.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table in reverse migration order. Missing tables are
// skipped.
func Reset(gormDB *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if !gormDB.Migrator().HasTable(models[i]) {
			continue
		}
		if err := gormDB.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
