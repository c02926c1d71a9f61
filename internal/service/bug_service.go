package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

const msgTaskNotInProject = "Selected task does not exist in the chosen project"

// BugService defines the interface for bug lifecycle operations
type BugService interface {
	CreateBug(ctx context.Context, actor domain.Actor, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error)
	UpdateBug(ctx context.Context, actor domain.Actor, bugID uint, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error)
	UpdateBugStatus(ctx context.Context, actor domain.Actor, bugID uint, status string) (*dto.StatusChangeResponse, error)
	GetBug(ctx context.Context, bugID uint) (*dto.BugResponse, error)
	ListBugs(ctx context.Context, taskID uint) ([]*dto.BugResponse, error)
}

type bugServiceImpl struct {
	wf          *Workflow
	bugRepo     repository.BugRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	status      *statusWorkflow
}

// NewBugService creates a new instance of BugService
func NewBugService(
	wf *Workflow,
	bugRepo repository.BugRepository,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) BugService {
	s := &bugServiceImpl{
		wf:          wf,
		bugRepo:     bugRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
	s.status = &statusWorkflow{
		wf:            wf,
		entity:        domain.EntityTypeBug,
		label:         "bug",
		nameKey:       "bug_name",
		successAction: domain.ActionBugStatusUpdated,
		failureAction: domain.ActionBugStatusFailed,
		kind:          domain.NotificationBugStatusUpdate,
		valid:         func(status string) bool { return domain.BugStatus(status).IsValid() },
		load:          s.loadStatusSubject,
		write: func(ctx context.Context, tx *gorm.DB, id uint, status string, at time.Time) error {
			return bugRepo.WithTx(tx).UpdateStatus(ctx, id, domain.BugStatus(status), at)
		},
	}
	return s
}

type bugFields struct {
	name        string
	description string
	task        *domain.Task
	priority    domain.Priority
	status      domain.BugStatus
	statusGiven bool
	start       *time.Time
	end         *time.Time
}

// validateInput checks the bug fields and the two-hop reference: the task must exist
// and belong to the submitted project. An empty status falls back to defaultStatus.
func (s *bugServiceImpl) validateInput(ctx context.Context, v *validator, input *dto.BugInput, defaultStatus domain.BugStatus) (*bugFields, error) {
	f := &bugFields{
		name:        v.checkName("Bug", input.Name),
		description: input.Description,
		priority:    v.checkPriority(input.Priority),
		status:      defaultStatus,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		f.status = domain.BugStatus(strings.ToLower(raw))
		f.statusGiven = true
		v.check(f.status.IsValid(), "Invalid status")
	}
	f.start, f.end = v.checkSchedule(input.StartDatetime, input.EndDatetime)

	v.check(input.ProjectID != 0, "Project is required")
	v.check(input.TaskID != 0, "Task is required")
	if input.ProjectID == 0 || input.TaskID == 0 {
		return f, nil
	}

	if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify project", err.Error())
		}
		v.add("Selected project does not exist")
		return f, nil
	}

	task, err := s.taskRepo.FindByID(ctx, input.TaskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		v.add(msgTaskNotInProject)
	case err != nil:
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify task", err.Error())
	case task.ProjectID != input.ProjectID:
		v.add(msgTaskNotInProject)
	default:
		f.task = task
	}
	return f, nil
}

// CreateBug inserts the bug and its attachments in one transaction
func (s *bugServiceImpl) CreateBug(ctx context.Context, actor domain.Actor, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error) {
	v := &validator{}
	f, err := s.validateInput(ctx, v, input, domain.BugStatusOpen)
	if err != nil {
		return nil, err
	}
	s.wf.validateUploads(v, uploads)
	if err := v.err(); err != nil {
		return nil, err
	}

	bug := &domain.Bug{
		Name:          f.name,
		Description:   f.description,
		TaskID:        f.task.ID,
		Priority:      f.priority,
		Status:        f.status,
		StartDatetime: f.start,
		EndDatetime:   f.end,
		CreatedBy:     actor.UserID,
	}

	var (
		attachments []*domain.Attachment
		stored      []string
	)
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.bugRepo.WithTx(tx).Create(ctx, bug); err != nil {
			return err
		}
		var err error
		attachments, stored, err = s.wf.storeUploads(ctx, tx, domain.EntityRef{Type: domain.EntityTypeBug, ID: bug.ID}, actor, uploads)
		return err
	})
	if err != nil {
		s.wf.discardFiles(ctx, stored)
		s.wf.recordFailure(ctx, actor, domain.ActionBugCreationFailed, domain.EntityRef{Type: domain.EntityTypeBug}, err, map[string]interface{}{
			"bug_name":   f.name,
			"task_id":    f.task.ID,
			"project_id": f.task.ProjectID,
		})
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create bug", err.Error())
	}

	ref := domain.EntityRef{Type: domain.EntityTypeBug, ID: bug.ID}
	s.wf.recordActivity(ctx, actor, domain.ActionBugCreated, ref, map[string]interface{}{
		"bug_name":         bug.Name,
		"task_id":          bug.TaskID,
		"project_id":       f.task.ProjectID,
		"priority":         bug.Priority,
		"status":           bug.Status,
		"attachment_count": len(attachments),
		"created_by":       actor.UserID,
		"ip_address":       actor.IPAddress,
	})
	if s.wf.Metrics != nil {
		s.wf.Metrics.IncrementBugCreated()
	}
	s.notifyTaskTeam(ctx, actor, domain.NotificationBugReport, ref, f.task, map[string]interface{}{
		"bug_name":    bug.Name,
		"task_id":     bug.TaskID,
		"task_name":   f.task.Name,
		"priority":    bug.Priority,
		"reported_by": actor.UserID,
	})

	s.wf.Logger.Info("Bug created",
		zap.Uint("bug_id", bug.ID),
		zap.Uint("task_id", bug.TaskID),
	)
	return toBugResponse(bug, f.task.ProjectID, attachments), nil
}

// UpdateBug applies the input and appends new attachments
func (s *bugServiceImpl) UpdateBug(ctx context.Context, actor domain.Actor, bugID uint, input *dto.BugInput, uploads []*storage.Upload) (*dto.BugResponse, error) {
	bug, err := s.bugRepo.FindByID(ctx, bugID)
	if err != nil {
		return nil, lookupError(err, "Bug not found", "Failed to load bug")
	}

	v := &validator{}
	f, err := s.validateInput(ctx, v, input, bug.Status)
	if err != nil {
		return nil, err
	}
	s.wf.validateUploads(v, uploads)
	if err := v.err(); err != nil {
		return nil, err
	}

	before := *bug
	bug.Name = f.name
	bug.Description = f.description
	bug.TaskID = f.task.ID
	bug.Priority = f.priority
	if f.statusGiven {
		bug.Status = f.status
	}
	bug.StartDatetime = f.start
	bug.EndDatetime = f.end

	ref := domain.EntityRef{Type: domain.EntityTypeBug, ID: bug.ID}
	var (
		attachments []*domain.Attachment
		stored      []string
	)
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.bugRepo.WithTx(tx)
		if err := repo.Update(ctx, bug, f.statusGiven); err != nil {
			return err
		}
		current, err := repo.FindByID(ctx, bug.ID)
		if err != nil {
			return err
		}
		bug.Status = current.Status
		bug.UpdatedAt = current.UpdatedAt
		attachments, stored, err = s.wf.storeUploads(ctx, tx, ref, actor, uploads)
		return err
	})
	if err != nil {
		s.wf.discardFiles(ctx, stored)
		s.wf.recordFailure(ctx, actor, domain.ActionBugUpdateFailed, ref, err, map[string]interface{}{
			"bug_id":   bug.ID,
			"bug_name": before.Name,
		})
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update bug", err.Error())
	}

	changes := newChangeSet()
	changes.compare("name", before.Name, bug.Name)
	changes.markText("description", before.Description, bug.Description)
	changes.compare("task_id", before.TaskID, bug.TaskID)
	changes.compare("priority", string(before.Priority), string(bug.Priority))
	if f.statusGiven {
		changes.compare("status", string(before.Status), string(bug.Status))
	}
	changes.compare("start_datetime", formatTime(before.StartDatetime), formatTime(bug.StartDatetime))
	changes.compare("end_datetime", formatTime(before.EndDatetime), formatTime(bug.EndDatetime))

	details := map[string]interface{}{
		"bug_name":   bug.Name,
		"old_data":   changes.old,
		"new_data":   changes.new,
		"updated_by": actor.UserID,
	}
	if len(attachments) > 0 {
		details["attachment_count"] = len(attachments)
	}
	s.wf.recordActivity(ctx, actor, domain.ActionBugUpdated, ref, details)

	s.notifyTaskTeam(ctx, actor, domain.NotificationBugUpdate, ref, f.task, map[string]interface{}{
		"bug_name":   bug.Name,
		"task_id":    bug.TaskID,
		"updated_by": actor.UserID,
	})

	all, err := s.wf.Attachments.FindByEntity(ctx, ref)
	if err != nil {
		s.wf.Logger.Warn("Failed to load bug attachments for response", zap.Uint("bug_id", bug.ID), zap.Error(err))
		all = attachments
	}
	return toBugResponse(bug, f.task.ProjectID, all), nil
}

// notifyTaskTeam notifies the parent task creator and assignees, excluding the actor
func (s *bugServiceImpl) notifyTaskTeam(ctx context.Context, actor domain.Actor, kind domain.NotificationKind, ref domain.EntityRef, task *domain.Task, payload map[string]interface{}) {
	recipients, err := taskRecipients(ctx, s.taskRepo, task)
	if err != nil {
		s.wf.Logger.Warn("Failed to resolve bug notification recipients", zap.Uint("task_id", task.ID), zap.Error(err))
		return
	}
	s.wf.notify(ctx, kind, ref, notification.UniqueRecipients(recipients, actor.UserID), payload)
}

func (s *bugServiceImpl) UpdateBugStatus(ctx context.Context, actor domain.Actor, bugID uint, status string) (*dto.StatusChangeResponse, error) {
	return s.status.run(ctx, actor, bugID, status)
}

// loadStatusSubject reads the bug and resolves recipients through its parent task
func (s *bugServiceImpl) loadStatusSubject(ctx context.Context, id uint) (*statusSubject, error) {
	bug, err := s.bugRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindByID(ctx, bug.TaskID)
	if err != nil {
		return nil, err
	}
	recipients, err := taskRecipients(ctx, s.taskRepo, task)
	if err != nil {
		return nil, err
	}
	return &statusSubject{name: bug.Name, status: string(bug.Status), recipients: recipients}, nil
}

func (s *bugServiceImpl) GetBug(ctx context.Context, bugID uint) (*dto.BugResponse, error) {
	bug, err := s.bugRepo.FindByID(ctx, bugID)
	if err != nil {
		return nil, lookupError(err, "Bug not found", "Failed to load bug")
	}
	task, err := s.taskRepo.FindByID(ctx, bug.TaskID)
	if err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}
	attachments, err := s.wf.Attachments.FindByEntity(ctx, domain.EntityRef{Type: domain.EntityTypeBug, ID: bug.ID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load attachments", err.Error())
	}
	return toBugResponse(bug, task.ProjectID, attachments), nil
}

func (s *bugServiceImpl) ListBugs(ctx context.Context, taskID uint) ([]*dto.BugResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}
	bugs, err := s.bugRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load bugs", err.Error())
	}

	ids := make([]uint, 0, len(bugs))
	for _, b := range bugs {
		ids = append(ids, b.ID)
	}
	attachments, err := s.wf.Attachments.FindByEntities(ctx, domain.EntityTypeBug, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load attachments", err.Error())
	}

	out := make([]*dto.BugResponse, 0, len(bugs))
	for _, b := range bugs {
		out = append(out, toBugResponse(b, task.ProjectID, attachments[b.ID]))
	}
	return out, nil
}
