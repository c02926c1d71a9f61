package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/metrics"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/storage"
)

const maxNameLength = 255

// Workflow bundles the collaborators shared by every lifecycle operation:
// the transaction boundary, attachment storage, the audit sink and the notifier.
type Workflow struct {
	Transactor  repository.Transactor
	Attachments repository.AttachmentRepository
	Store       storage.Store
	Activity    ActivityLogger
	Dispatcher  notification.Dispatcher
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// NewWorkflow creates a Workflow. dispatcher may be nil, in which case events are dropped.
func NewWorkflow(
	tx repository.Transactor,
	attachments repository.AttachmentRepository,
	store storage.Store,
	activity ActivityLogger,
	dispatcher notification.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Workflow {
	if dispatcher == nil {
		dispatcher = notification.NewNoopDispatcher()
	}
	return &Workflow{
		Transactor:  tx,
		Attachments: attachments,
		Store:       store,
		Activity:    activity,
		Dispatcher:  dispatcher,
		Metrics:     m,
		Logger:      logger,
	}
}

// validator collects every violated rule instead of stopping at the first one
type validator struct {
	errs []string
}

func (v *validator) add(format string, args ...interface{}) {
	v.errs = append(v.errs, fmt.Sprintf(format, args...))
}

func (v *validator) check(ok bool, msg string) {
	if !ok {
		v.errs = append(v.errs, msg)
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return response.NewValidationErrors(v.errs)
}

// checkName validates a required display name and returns it trimmed
func (v *validator) checkName(label, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		v.add("%s name is required", label)
	case utf8.RuneCountInString(name) > maxNameLength:
		v.add("%s name must not exceed %d characters", label, maxNameLength)
	}
	return name
}

func (v *validator) checkPriority(p string) domain.Priority {
	priority := domain.Priority(strings.ToLower(strings.TrimSpace(p)))
	v.check(priority.IsValid(), "Invalid priority")
	return priority
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDatetime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised datetime %q", value)
}

// checkSchedule parses optional start and end datetimes. When both are set, end must not precede start.
func (v *validator) checkSchedule(startValue, endValue string) (*time.Time, *time.Time) {
	start, err := parseDatetime(startValue)
	if err != nil {
		v.add("Invalid start date")
	}
	end, err := parseDatetime(endValue)
	if err != nil {
		v.add("Invalid end date")
	}
	if start != nil && end != nil && end.Before(*start) {
		v.add("End date must be after start date")
	}
	return start, end
}

func (w *Workflow) validateUploads(v *validator, uploads []*storage.Upload) {
	for _, u := range uploads {
		if err := w.Store.Validate(u); err != nil {
			v.errs = append(v.errs, storage.ValidationMessage(u, err))
		}
	}
}

// storeUploads writes each file and inserts its attachment row inside tx.
// The returned paths include files stored before a failure so the caller can discard them.
func (w *Workflow) storeUploads(ctx context.Context, tx *gorm.DB, ref domain.EntityRef, actor domain.Actor, uploads []*storage.Upload) ([]*domain.Attachment, []string, error) {
	if len(uploads) > 0 && !ref.Type.IsAttachable() {
		return nil, nil, fmt.Errorf("attachments are not supported on %s", ref.Type)
	}

	repo := w.Attachments.WithTx(tx)
	attachments := make([]*domain.Attachment, 0, len(uploads))
	paths := make([]string, 0, len(uploads))

	for _, u := range uploads {
		key := storage.NewKey(ref, u.FileName)
		stored, err := w.Store.Store(ctx, u, key)
		if err != nil {
			return attachments, paths, fmt.Errorf("failed to store %s: %w", u.FileName, err)
		}
		paths = append(paths, stored)

		attachment := &domain.Attachment{
			EntityType:   ref.Type,
			EntityID:     ref.ID,
			FileName:     path.Base(key),
			OriginalName: u.FileName,
			FilePath:     stored,
			FileSize:     u.Size,
			FileType:     u.ContentType,
			UploadedBy:   actor.UserID,
			UploadedAt:   time.Now().UTC(),
		}
		if err := repo.Create(ctx, attachment); err != nil {
			return attachments, paths, fmt.Errorf("failed to save attachment %s: %w", u.FileName, err)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, paths, nil
}

// discardFiles removes files stored by a rolled back operation. Leftovers are only logged.
func (w *Workflow) discardFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := w.Store.Delete(ctx, p); err != nil {
			w.Logger.Warn("Failed to remove file after rollback",
				zap.String("file_path", p),
				zap.Error(err),
			)
		}
	}
}

// recordActivity appends an audit entry after commit. Failures never reach the caller.
func (w *Workflow) recordActivity(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, details map[string]interface{}) {
	if err := w.Activity.Log(ctx, actor, action, ref, details); err != nil {
		w.Logger.Error("Failed to write activity log",
			zap.String("action", action),
			zap.String("entity_type", string(ref.Type)),
			zap.Uint("entity_id", ref.ID),
			zap.Error(err),
		)
	}
}

// recordFailure writes the failure audit entry for a rolled back operation
func (w *Workflow) recordFailure(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, cause error, fields map[string]interface{}) {
	details := map[string]interface{}{"error": cause.Error()}
	for k, v := range fields {
		details[k] = v
	}

	w.Logger.Error("Workflow operation failed",
		zap.String("action", action),
		zap.Uint("user_id", actor.UserID),
		zap.Uint("entity_id", ref.ID),
		zap.Error(cause),
	)
	if w.Metrics != nil {
		w.Metrics.RecordWorkflowFailure(action)
	}
	w.recordActivity(ctx, actor, action, ref, details)
}

// notify hands an event to the dispatcher after commit. Failures are logged only.
func (w *Workflow) notify(ctx context.Context, kind domain.NotificationKind, ref domain.EntityRef, recipients []uint, payload map[string]interface{}) {
	if len(recipients) == 0 {
		return
	}
	if err := w.Dispatcher.Notify(ctx, kind, ref, recipients, payload); err != nil {
		w.Logger.Warn("Failed to dispatch notification",
			zap.String("kind", string(kind)),
			zap.Uint("entity_id", ref.ID),
			zap.Error(err),
		)
	}
}

// lookupError maps a repository read error to NotFound or a coarse internal error
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(notFound, "")
	}
	return response.NewAppError(response.ErrCodeInternal, failure, err.Error())
}
