package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
)

const msgDuplicateProject = "A project with this name already exists"

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, actor domain.Actor, projectID uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID uint) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, status string) ([]*dto.ProjectResponse, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	wf          *Workflow
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(wf *Workflow, projectRepo repository.ProjectRepository) ProjectService {
	return &projectServiceImpl{wf: wf, projectRepo: projectRepo}
}

func (s *projectServiceImpl) checkDuration(v *validator, durationType string, value int) int {
	days, err := domain.DurationType(strings.ToLower(strings.TrimSpace(durationType))).ToDays(value)
	if err != nil {
		v.add("Invalid project duration")
	}
	return days
}

func (s *projectServiceImpl) checkUniqueName(ctx context.Context, v *validator, name string, excludeID uint) error {
	if name == "" {
		return nil
	}
	exists, err := s.projectRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify project name", err.Error())
	}
	v.check(!exists, msgDuplicateProject)
	return nil
}

// CreateProject creates a new active project
func (s *projectServiceImpl) CreateProject(ctx context.Context, actor domain.Actor, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	v := &validator{}
	name := v.checkName("Project", req.Name)
	days := s.checkDuration(v, req.DurationType, req.DurationValue)
	if err := s.checkUniqueName(ctx, v, name, 0); err != nil {
		return nil, err
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:         name,
		Description:  req.Description,
		Status:       domain.ProjectStatusActive,
		DurationDays: days,
		CreatedBy:    actor.UserID,
	}
	err := s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.projectRepo.WithTx(tx).Create(ctx, project)
	})
	if err != nil {
		s.wf.recordFailure(ctx, actor, domain.ActionProjectCreationFailed, domain.EntityRef{Type: domain.EntityTypeProject}, err, map[string]interface{}{
			"project_name": name,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewValidationError(msgDuplicateProject, "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	s.wf.recordActivity(ctx, actor, domain.ActionCreate, domain.EntityRef{Type: domain.EntityTypeProject, ID: project.ID}, map[string]interface{}{
		"project_name":  project.Name,
		"duration_days": project.DurationDays,
		"created_by":    actor.UserID,
		"ip_address":    actor.IPAddress,
	})
	s.wf.Logger.Info("Project created", zap.Uint("project_id", project.ID), zap.String("name", project.Name))
	return toProjectResponse(project), nil
}

// UpdateProject applies the fields present in req
func (s *projectServiceImpl) UpdateProject(ctx context.Context, actor domain.Actor, projectID uint, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project not found", "Failed to load project")
	}
	before := *project

	v := &validator{}
	if req.Name != nil {
		project.Name = v.checkName("Project", *req.Name)
		if project.Name != before.Name {
			if err := s.checkUniqueName(ctx, v, project.Name, project.ID); err != nil {
				return nil, err
			}
		}
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		v.check(project.Status.IsValid(), "Invalid project status")
	}
	switch {
	case req.DurationType != nil && req.DurationValue != nil:
		project.DurationDays = s.checkDuration(v, *req.DurationType, *req.DurationValue)
	case req.DurationType != nil || req.DurationValue != nil:
		v.add("Duration type and value must be provided together")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	ref := domain.EntityRef{Type: domain.EntityTypeProject, ID: project.ID}
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.projectRepo.WithTx(tx).Update(ctx, project)
	})
	if err != nil {
		s.wf.recordFailure(ctx, actor, domain.ActionProjectUpdateFailed, ref, err, map[string]interface{}{
			"project_id":   project.ID,
			"project_name": before.Name,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewValidationError(msgDuplicateProject, "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}

	changes := newChangeSet()
	changes.compare("name", before.Name, project.Name)
	changes.markText("description", before.Description, project.Description)
	changes.compare("status", string(before.Status), string(project.Status))
	changes.compare("duration_days", before.DurationDays, project.DurationDays)
	s.wf.recordActivity(ctx, actor, domain.ActionUpdate, ref, map[string]interface{}{
		"project_name": project.Name,
		"old_data":     changes.old,
		"new_data":     changes.new,
		"updated_by":   actor.UserID,
	})
	return toProjectResponse(project), nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uint) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project not found", "Failed to load project")
	}
	return toProjectResponse(project), nil
}

// ListProjects returns all projects, optionally filtered by status
func (s *projectServiceImpl) ListProjects(ctx context.Context, status string) ([]*dto.ProjectResponse, error) {
	var filter *domain.ProjectStatus
	if status != "" {
		st := domain.ProjectStatus(status)
		if !st.IsValid() {
			return nil, response.NewValidationError("Invalid project status", status)
		}
		filter = &st
	}
	projects, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load projects", err.Error())
	}
	out := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out, nil
}
