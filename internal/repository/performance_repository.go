package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/performance"
)

// PerformanceRepository aggregates the per-user counters consumed by the scoring engine.
// since limits rows by creation time; nil means all time.
type PerformanceRepository interface {
	DeveloperCounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error)
	QACounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error)
}

type performanceRepositoryImpl struct {
	db *gorm.DB
}

// NewPerformanceRepository creates a new instance of PerformanceRepository
func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepositoryImpl{db: db}
}

type assignedTaskCounts struct {
	Total          int64
	Completed      int64
	CompletedLate  int64
	PendingOverdue int64
	Due            int64
	InReview       int64
}

// assignedTasks measures lateness against closed_at. Rows closed before that
// column existed fall back to updated_at.
func (r *performanceRepositoryImpl) assignedTasks(ctx context.Context, userID uint, since *time.Time, now time.Time) (assignedTaskCounts, error) {
	var counts assignedTaskCounts
	q := r.db.WithContext(ctx).
		Table("tasks").
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN tasks.status = ? AND tasks.end_datetime IS NOT NULL AND COALESCE(tasks.closed_at, tasks.updated_at) > tasks.end_datetime THEN 1 ELSE 0 END), 0) AS completed_late,
			COALESCE(SUM(CASE WHEN tasks.status <> ? AND tasks.end_datetime IS NOT NULL AND tasks.end_datetime < ? THEN 1 ELSE 0 END), 0) AS pending_overdue,
			COALESCE(SUM(CASE WHEN tasks.end_datetime IS NOT NULL AND tasks.end_datetime <= ? THEN 1 ELSE 0 END), 0) AS due,
			COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS in_review`,
			domain.TaskStatusClosed,
			domain.TaskStatusClosed,
			domain.TaskStatusClosed, now,
			now,
			domain.TaskStatusInReview).
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)
	if since != nil {
		q = q.Where("tasks.created_at >= ?", *since)
	}
	if err := q.Scan(&counts).Error; err != nil {
		return assignedTaskCounts{}, err
	}
	return counts, nil
}

// DeveloperCounters counts the user's assigned tasks and the bugs raised against them
func (r *performanceRepositoryImpl) DeveloperCounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error) {
	counts, err := r.assignedTasks(ctx, userID, since, now)
	if err != nil {
		return performance.Counters{}, err
	}

	var bugs int64
	q := r.db.WithContext(ctx).
		Table("bugs").
		Joins("JOIN task_assignments ON task_assignments.task_id = bugs.task_id").
		Where("task_assignments.user_id = ?", userID)
	if since != nil {
		q = q.Where("bugs.created_at >= ?", *since)
	}
	if err := q.Distinct("bugs.id").Count(&bugs).Error; err != nil {
		return performance.Counters{}, err
	}

	completed := int(counts.Completed)
	late := int(counts.CompletedLate)
	return performance.Counters{
		Role:                 performance.RoleDeveloper,
		TotalTasks:           int(counts.Total),
		CompletedTasks:       completed,
		CompletedLate:        late,
		PendingOverdue:       int(counts.PendingOverdue),
		OnTimeCompletionRate: performance.OnTimeRate(completed, late),
		CompletionRate:       performance.CompletionRate(completed, int(counts.Due), int(counts.Total)),
		BugsReported:         int(bugs),
	}, nil
}

// QACounters counts review progress on the user's assigned tasks and the bugs they reported
func (r *performanceRepositoryImpl) QACounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error) {
	counts, err := r.assignedTasks(ctx, userID, since, now)
	if err != nil {
		return performance.Counters{}, err
	}

	var bugs int64
	q := r.db.WithContext(ctx).Model(&domain.Bug{}).Where("created_by = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if err := q.Count(&bugs).Error; err != nil {
		return performance.Counters{}, err
	}

	return performance.Counters{
		Role:                performance.RoleQA,
		TotalTasks:          int(counts.Total),
		CompletedTasks:      int(counts.Completed),
		CompletedLate:       int(counts.CompletedLate),
		PendingOverdue:      int(counts.PendingOverdue),
		TasksReviewedClosed: int(counts.Completed),
		TasksInReview:       int(counts.InReview),
		BugsReported:        int(bugs),
	}, nil
}
