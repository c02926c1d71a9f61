package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

// TaskService defines the interface for task lifecycle operations
type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID uint, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error)
	GetTask(ctx context.Context, taskID uint) (*dto.TaskResponse, error)
	ListTasks(ctx context.Context, projectID uint) ([]*dto.TaskResponse, error)
}

type taskServiceImpl struct {
	wf          *Workflow
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	status      *statusWorkflow
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	wf *Workflow,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
) TaskService {
	s := &taskServiceImpl{
		wf:          wf,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
	s.status = &statusWorkflow{
		wf:            wf,
		entity:        domain.EntityTypeTask,
		label:         "task",
		nameKey:       "task_name",
		successAction: domain.ActionUpdateStatus,
		failureAction: domain.ActionTaskStatusFailed,
		kind:          domain.NotificationTaskStatusUpdate,
		valid:         func(status string) bool { return domain.TaskStatus(status).IsValid() },
		load:          s.loadStatusSubject,
		write: func(ctx context.Context, tx *gorm.DB, id uint, status string, at time.Time) error {
			return taskRepo.WithTx(tx).UpdateStatus(ctx, id, domain.TaskStatus(status), at)
		},
	}
	return s
}

// taskFields is a validated TaskInput
type taskFields struct {
	name        string
	description string
	projectID   uint
	priority    domain.Priority
	start       *time.Time
	end         *time.Time
	assignees   []*domain.User
}

func (f *taskFields) assigneeIDs() []uint {
	ids := make([]uint, 0, len(f.assignees))
	for _, u := range f.assignees {
		ids = append(ids, u.ID)
	}
	return ids
}

// validateInput checks every field and referential rule. Only infrastructure failures
// are returned as err; rule violations are collected in v.
func (s *taskServiceImpl) validateInput(ctx context.Context, v *validator, input *dto.TaskInput) (*taskFields, error) {
	f := &taskFields{
		name:        v.checkName("Task", input.Name),
		description: input.Description,
		projectID:   input.ProjectID,
		priority:    v.checkPriority(input.Priority),
	}
	f.start, f.end = v.checkSchedule(input.StartDatetime, input.EndDatetime)

	if input.ProjectID == 0 {
		v.add("Project is required")
	} else if _, err := s.projectRepo.FindByID(ctx, input.ProjectID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify project", err.Error())
		}
		v.add("Selected project does not exist")
	}

	assignees, err := checkAssignees(ctx, v, s.userRepo, input.AssigneeIDs)
	if err != nil {
		return nil, err
	}
	f.assignees = assignees
	return f, nil
}

// checkAssignees resolves assignee ids, which must name active developers or QA users
func checkAssignees(ctx context.Context, v *validator, users repository.UserRepository, ids []uint) ([]*domain.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify assignees", err.Error())
	}
	byID := make(map[uint]*domain.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	assignees := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		switch {
		case !ok || u.Status != domain.UserStatusActive:
			v.add("Assignee %d does not exist or is inactive", id)
		case u.Role == domain.RoleManager:
			v.add("Assignee %d cannot be assigned tasks", id)
		default:
			assignees = append(assignees, u)
		}
	}
	return assignees, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CreateTask inserts the task, its assignments and attachments in one transaction
func (s *taskServiceImpl) CreateTask(ctx context.Context, actor domain.Actor, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
	v := &validator{}
	f, err := s.validateInput(ctx, v, input)
	if err != nil {
		return nil, err
	}
	s.wf.validateUploads(v, uploads)
	if err := v.err(); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Name:          f.name,
		Description:   f.description,
		ProjectID:     f.projectID,
		Priority:      f.priority,
		Status:        domain.TaskStatusTodo,
		StartDatetime: f.start,
		EndDatetime:   f.end,
		CreatedBy:     actor.UserID,
	}
	assigneeIDs := f.assigneeIDs()

	var (
		attachments []*domain.Attachment
		stored      []string
	)
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)
		if err := repo.Create(ctx, task); err != nil {
			return err
		}
		if err := repo.ReplaceAssignments(ctx, task.ID, assigneeIDs); err != nil {
			return err
		}
		var err error
		attachments, stored, err = s.wf.storeUploads(ctx, tx, domain.EntityRef{Type: domain.EntityTypeTask, ID: task.ID}, actor, uploads)
		return err
	})
	if err != nil {
		s.wf.discardFiles(ctx, stored)
		s.wf.recordFailure(ctx, actor, domain.ActionTaskCreationFailed, domain.EntityRef{Type: domain.EntityTypeTask}, err, map[string]interface{}{
			"task_name":  f.name,
			"project_id": f.projectID,
		})
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	ref := domain.EntityRef{Type: domain.EntityTypeTask, ID: task.ID}
	s.wf.recordActivity(ctx, actor, domain.ActionCreate, ref, map[string]interface{}{
		"task_name":        task.Name,
		"project_id":       task.ProjectID,
		"priority":         task.Priority,
		"assignee_count":   len(assigneeIDs),
		"attachment_count": len(attachments),
		"created_by":       actor.UserID,
		"ip_address":       actor.IPAddress,
	})
	if s.wf.Metrics != nil {
		s.wf.Metrics.IncrementTaskCreated()
	}
	s.wf.notify(ctx, domain.NotificationTaskAssignment, ref, assigneeIDs, map[string]interface{}{
		"task_name":   task.Name,
		"project_id":  task.ProjectID,
		"assigned_by": actor.UserID,
	})

	s.wf.Logger.Info("Task created",
		zap.Uint("task_id", task.ID),
		zap.Uint("project_id", task.ProjectID),
		zap.Int("assignees", len(assigneeIDs)),
	)
	return toTaskResponse(task, usersToAssignees(f.assignees), attachments), nil
}

// UpdateTask applies the input, replaces the assignment set and appends new attachments
func (s *taskServiceImpl) UpdateTask(ctx context.Context, actor domain.Actor, taskID uint, input *dto.TaskInput, uploads []*storage.Upload) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}
	oldAssignees, err := s.taskRepo.FindAssigneeIDs(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load task assignees", err.Error())
	}

	v := &validator{}
	f, err := s.validateInput(ctx, v, input)
	if err != nil {
		return nil, err
	}
	s.wf.validateUploads(v, uploads)
	if err := v.err(); err != nil {
		return nil, err
	}

	before := *task
	task.Name = f.name
	task.Description = f.description
	task.ProjectID = f.projectID
	task.Priority = f.priority
	task.StartDatetime = f.start
	task.EndDatetime = f.end
	assigneeIDs := f.assigneeIDs()

	ref := domain.EntityRef{Type: domain.EntityTypeTask, ID: task.ID}
	var (
		attachments []*domain.Attachment
		stored      []string
	)
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)
		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		// status is owned by UpdateTaskStatus and may have moved since the first read
		current, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			return err
		}
		task.Status = current.Status
		task.ClosedAt = current.ClosedAt
		task.UpdatedAt = current.UpdatedAt
		if err := repo.ReplaceAssignments(ctx, task.ID, assigneeIDs); err != nil {
			return err
		}
		attachments, stored, err = s.wf.storeUploads(ctx, tx, ref, actor, uploads)
		return err
	})
	if err != nil {
		s.wf.discardFiles(ctx, stored)
		s.wf.recordFailure(ctx, actor, domain.ActionTaskUpdateFailed, ref, err, map[string]interface{}{
			"task_id":   task.ID,
			"task_name": before.Name,
		})
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	changes := newChangeSet()
	changes.compare("name", before.Name, task.Name)
	changes.markText("description", before.Description, task.Description)
	changes.compare("project_id", before.ProjectID, task.ProjectID)
	changes.compare("priority", string(before.Priority), string(task.Priority))
	changes.compare("start_datetime", formatTime(before.StartDatetime), formatTime(task.StartDatetime))
	changes.compare("end_datetime", formatTime(before.EndDatetime), formatTime(task.EndDatetime))
	changes.compare("assignees", sortedIDs(oldAssignees), sortedIDs(assigneeIDs))

	details := map[string]interface{}{
		"task_name":  task.Name,
		"old_data":   changes.old,
		"new_data":   changes.new,
		"updated_by": actor.UserID,
	}
	if len(attachments) > 0 {
		details["attachment_count"] = len(attachments)
	}
	s.wf.recordActivity(ctx, actor, domain.ActionUpdate, ref, details)

	s.wf.notify(ctx, domain.NotificationTaskUpdate, ref, assigneeIDs, map[string]interface{}{
		"task_name":  task.Name,
		"project_id": task.ProjectID,
		"updated_by": actor.UserID,
	})

	all, err := s.wf.Attachments.FindByEntity(ctx, ref)
	if err != nil {
		s.wf.Logger.Warn("Failed to load task attachments for response", zap.Uint("task_id", task.ID), zap.Error(err))
		all = attachments
	}
	return toTaskResponse(task, usersToAssignees(f.assignees), all), nil
}

// UpdateTaskStatus moves a task to any status
func (s *taskServiceImpl) UpdateTaskStatus(ctx context.Context, actor domain.Actor, taskID uint, status string) (*dto.StatusChangeResponse, error) {
	return s.status.run(ctx, actor, taskID, status)
}

// loadStatusSubject reads the task and its notification recipients: creator plus assignees
func (s *taskServiceImpl) loadStatusSubject(ctx context.Context, id uint) (*statusSubject, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	recipients, err := taskRecipients(ctx, s.taskRepo, task)
	if err != nil {
		return nil, err
	}
	return &statusSubject{name: task.Name, status: string(task.Status), recipients: recipients}, nil
}

// taskRecipients lists the task creator followed by its assignees
func taskRecipients(ctx context.Context, tasks repository.TaskRepository, task *domain.Task) ([]uint, error) {
	assignees, err := tasks.FindAssigneeIDs(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return append([]uint{task.CreatedBy}, assignees...), nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uint) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, lookupError(err, "Task not found", "Failed to load task")
	}
	responses, err := s.buildResponses(ctx, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, projectID uint) ([]*dto.TaskResponse, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, lookupError(err, "Project not found", "Failed to load project")
	}
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load tasks", err.Error())
	}
	return s.buildResponses(ctx, tasks)
}

// buildResponses loads assignees and attachments of all tasks with one query each
func (s *taskServiceImpl) buildResponses(ctx context.Context, tasks []*domain.Task) ([]*dto.TaskResponse, error) {
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	assignees, err := s.taskRepo.FindAssignees(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load assignees", err.Error())
	}
	attachments, err := s.wf.Attachments.FindByEntities(ctx, domain.EntityTypeTask, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load attachments", err.Error())
	}

	out := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t, summariesToAssignees(assignees[t.ID]), attachments[t.ID]))
	}
	return out, nil
}
