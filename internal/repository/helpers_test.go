package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"project-tracker-api/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Project{}, &domain.Task{}, &domain.TaskAssignment{},
		&domain.Bug{}, &domain.Comment{}, &domain.Attachment{},
		&domain.ActivityLog{}, &domain.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@example.com", Password: "x", Role: role, Status: domain.UserStatusActive}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProject(t *testing.T, db *gorm.DB, name string, createdBy uint) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: name, Status: domain.ProjectStatusActive, DurationDays: 30, CreatedBy: createdBy}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedTask(t *testing.T, db *gorm.DB, projectID, createdBy uint, mutate func(*domain.Task)) *domain.Task {
	t.Helper()
	task := &domain.Task{
		Name:      "task",
		ProjectID: projectID,
		Priority:  domain.PriorityMedium,
		Status:    domain.TaskStatusTodo,
		CreatedBy: createdBy,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
