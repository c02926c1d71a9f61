package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
)

// TaskRepository defines the interface for task and assignment data access
type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uint) (*domain.Task, error)
	FindByProjectID(ctx context.Context, projectID uint) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id uint, status domain.TaskStatus, at time.Time) error
	ReplaceAssignments(ctx context.Context, taskID uint, userIDs []uint) error
	FindAssigneeIDs(ctx context.Context, taskID uint) ([]uint, error)
	FindAssignees(ctx context.Context, taskIDs []uint) (map[uint][]UserSummary, error)
}

type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func (r *taskRepositoryImpl) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: tx}
}

func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepositoryImpl) FindByProjectID(ctx context.Context, projectID uint) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// taskEditableColumns are the columns an edit may write. Status and closed_at
// belong to UpdateStatus only.
var taskEditableColumns = []string{
	"name", "description", "project_id", "priority", "start_datetime", "end_datetime", "updated_at",
}

// Update writes the editable columns of task and leaves status untouched
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Select(taskEditableColumns).
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatus writes the status and touches updated_at. closed_at records when
// the task entered closed and is cleared when it leaves it.
func (r *taskRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status domain.TaskStatus, at time.Time) error {
	values := map[string]interface{}{"status": status, "updated_at": at, "closed_at": nil}
	if status == domain.TaskStatusClosed {
		values["closed_at"] = at
	}
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAssignments makes the assignment set of taskID equal userIDs.
// Rows for removed users are deleted and only missing pairs are inserted.
func (r *taskRepositoryImpl) ReplaceAssignments(ctx context.Context, taskID uint, userIDs []uint) error {
	db := r.db.WithContext(ctx)

	current, err := r.FindAssigneeIDs(ctx, taskID)
	if err != nil {
		return err
	}

	wanted := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	existing := make(map[uint]bool, len(current))
	var removed []uint
	for _, id := range current {
		existing[id] = true
		if !wanted[id] {
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		if err := db.Where("task_id = ? AND user_id IN ?", taskID, removed).
			Delete(&domain.TaskAssignment{}).Error; err != nil {
			return err
		}
	}

	var added []domain.TaskAssignment
	for _, id := range userIDs {
		if !existing[id] {
			existing[id] = true
			added = append(added, domain.TaskAssignment{TaskID: taskID, UserID: id})
		}
	}
	if len(added) == 0 {
		return nil
	}
	return db.Create(&added).Error
}

func (r *taskRepositoryImpl) FindAssigneeIDs(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&domain.TaskAssignment{}).
		Where("task_id = ?", taskID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

type assigneeRow struct {
	TaskID uint
	ID     uint
	Name   string
	Image  *string
}

// FindAssignees loads assignees of many tasks with one join
func (r *taskRepositoryImpl) FindAssignees(ctx context.Context, taskIDs []uint) (map[uint][]UserSummary, error) {
	result := make(map[uint][]UserSummary, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	var rows []assigneeRow
	if err := r.db.WithContext(ctx).
		Table("task_assignments AS ta").
		Select("ta.task_id, u.id, u.name, u.image").
		Joins("JOIN users AS u ON u.id = ta.user_id").
		Where("ta.task_id IN ?", taskIDs).
		Order("ta.task_id ASC, u.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], UserSummary{ID: row.ID, Name: row.Name, Image: row.Image})
	}
	return result, nil
}
