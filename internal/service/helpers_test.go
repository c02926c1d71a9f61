package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/metrics"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/storage"
)

// testEnv wires every service against one in-memory sqlite database and a temp directory store
type testEnv struct {
	db         *gorm.DB
	root       string
	dispatcher *MockDispatcher
	wf         *Workflow

	tasks       TaskService
	bugs        BugService
	comments    CommentService
	attachments AttachmentService
	projects    ProjectService

	manager   *domain.User
	developer *domain.User
	qa        *domain.User
	project   *domain.Project
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
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

	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	require.NoError(t, err)

	dispatcher := &MockDispatcher{}
	wf := NewWorkflow(
		repository.NewTransactor(db),
		repository.NewAttachmentRepository(db),
		store,
		NewActivityLogger(repository.NewActivityLogRepository(db)),
		dispatcher,
		metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		zap.NewNop(),
	)

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	env := &testEnv{
		db:          db,
		root:        root,
		dispatcher:  dispatcher,
		wf:          wf,
		tasks:       NewTaskService(wf, taskRepo, projectRepo, repository.NewUserRepository(db)),
		bugs:        NewBugService(wf, repository.NewBugRepository(db), taskRepo, projectRepo),
		comments:    NewCommentService(wf, repository.NewCommentRepository(db), taskRepo),
		attachments: NewAttachmentService(wf),
		projects:    NewProjectService(wf, projectRepo),
	}
	env.manager = env.seedUser(t, "manager", domain.RoleManager)
	env.developer = env.seedUser(t, "dev", domain.RoleDeveloper)
	env.qa = env.seedUser(t, "qa", domain.RoleQA)
	env.project = env.seedProject(t, "Apollo")
	return env
}

func (e *testEnv) seedUser(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: name + "@example.com", Password: "x", Role: role, Status: domain.UserStatusActive}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) seedProject(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: name, Status: domain.ProjectStatusActive, DurationDays: 14, CreatedBy: e.manager.ID}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func actorOf(u *domain.User) domain.Actor {
	return domain.Actor{UserID: u.ID, Role: u.Role, IPAddress: "10.0.0.1"}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// activity returns all audit rows with the given action, oldest first
func (e *testEnv) activity(t *testing.T, action string) []domain.ActivityLog {
	t.Helper()
	var rows []domain.ActivityLog
	require.NoError(t, e.db.Where("action = ?", action).Order("id").Find(&rows).Error)
	return rows
}

func decodeDetails(t *testing.T, row domain.ActivityLog) map[string]interface{} {
	t.Helper()
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Details, &details))
	return details
}

// storedFiles lists every regular file under the store root
func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.Walk(e.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

// failInserts makes every insert into table fail until the test ends
func failInserts(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	name := "test:fail_" + table
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	}))
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove(name)
	})
}

func textUpload(name, body string) *storage.Upload {
	return storage.FromBytes(name, "text/plain", []byte(body))
}

func mustField(t *testing.T, raw json.RawMessage, field string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	value, ok := fields[field]
	require.True(t, ok, "missing field %s", field)
	return value
}
