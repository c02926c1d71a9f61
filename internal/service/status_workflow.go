package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/response"
)

// statusSubject is the current state of the row a status change applies to
type statusSubject struct {
	name       string
	status     string
	recipients []uint
}

// statusWorkflow is the single status-change implementation shared by tasks and bugs:
// fetch current, resolve recipients, write status, commit, log, notify.
// Any status may follow any other.
type statusWorkflow struct {
	wf            *Workflow
	entity        domain.EntityType
	label         string // lower case, e.g. "task"
	nameKey       string
	successAction string
	failureAction string
	kind          domain.NotificationKind
	valid         func(status string) bool
	load          func(ctx context.Context, id uint) (*statusSubject, error)
	write         func(ctx context.Context, tx *gorm.DB, id uint, status string, at time.Time) error
}

func (s *statusWorkflow) run(ctx context.Context, actor domain.Actor, id uint, status string) (*dto.StatusChangeResponse, error) {
	if !s.valid(status) {
		return nil, response.NewValidationError("Invalid status", status)
	}

	notFound := strings.ToUpper(s.label[:1]) + s.label[1:] + " not found"
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, lookupError(err, notFound, "Failed to load "+s.label)
	}

	ref := domain.EntityRef{Type: s.entity, ID: id}
	at := time.Now().UTC()
	err = s.wf.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.write(ctx, tx, id, status, at)
	})
	if err != nil {
		s.wf.recordFailure(ctx, actor, s.failureAction, ref, err, map[string]interface{}{
			s.nameKey: current.name,
			"status":  status,
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError(notFound, "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update "+s.label+" status", err.Error())
	}

	s.wf.recordActivity(ctx, actor, s.successAction, ref, map[string]interface{}{
		s.nameKey: current.name,
		"status_change": map[string]string{
			"from": current.status,
			"to":   status,
		},
		"updated_by": actor.UserID,
	})
	if s.wf.Metrics != nil {
		s.wf.Metrics.RecordStatusTransition(string(s.entity), status)
	}

	s.wf.notify(ctx, s.kind, ref, notification.UniqueRecipients(current.recipients, actor.UserID), map[string]interface{}{
		s.nameKey:    current.name,
		"old_status": current.status,
		"new_status": status,
		"updated_by": actor.UserID,
	})

	return &dto.StatusChangeResponse{
		ID:        id,
		OldStatus: current.status,
		NewStatus: status,
		UpdatedAt: at,
	}, nil
}
