package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// trackedModels lists every table owned by the tracker, parents before children
var trackedModels = []interface{}{
	&domain.User{},
	&domain.Project{},
	&domain.Task{},
	&domain.TaskAssignment{},
	&domain.Bug{},
	&domain.Comment{},
	&domain.Attachment{},
	&domain.ActivityLog{},
	&domain.Notification{},
}

// AutoMigrate creates or updates every tracked table in one call
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(trackedModels...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// SafeAutoMigrate migrates the tracked models one at a time so a failure names
// its table. Existing tables only gain missing columns and indexes.
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	created := 0

	for _, model := range trackedModels {
		table, err := tableName(db, model)
		if err != nil {
			return err
		}

		existed := migrator.HasTable(model)
		if err := migrator.AutoMigrate(model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", table),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", table, err)
		}

		if !existed {
			created++
		}
		logger.Debug("Table migrated", zap.String("table", table), zap.Bool("created", !existed))
	}

	logger.Info("Database migrations completed",
		zap.Int("tables", len(trackedModels)),
		zap.Int("created", created),
	)
	return nil
}

func tableName(db *gorm.DB, model interface{}) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("failed to parse model %T: %w", model, err)
	}
	return stmt.Schema.Table, nil
}
