// Package notification stores lifecycle notifications and fans them out to live subscribers.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/metrics"
	"project-tracker-api/internal/repository"
)

// Dispatcher delivers one lifecycle event to a set of users
type Dispatcher interface {
	Notify(ctx context.Context, kind domain.NotificationKind, ref domain.EntityRef, recipients []uint, payload map[string]interface{}) error
}

// Publisher pushes an encoded notification to a user's live channel
type Publisher interface {
	Publish(ctx context.Context, userID uint, message []byte) error
}

type storeDispatcher struct {
	repo      repository.NotificationRepository
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewDispatcher persists notifications through repo and, when publisher is not nil,
// publishes each stored row. Publish failures are logged only.
func NewDispatcher(repo repository.NotificationRepository, publisher Publisher, m *metrics.Metrics, logger *zap.Logger) Dispatcher {
	return &storeDispatcher{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (d *storeDispatcher) Notify(ctx context.Context, kind domain.NotificationKind, ref domain.EntityRef, recipients []uint, payload map[string]interface{}) error {
	recipients = UniqueRecipients(recipients, 0)
	if len(recipients) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	now := time.Now().UTC()
	rows := make([]*domain.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, &domain.Notification{
			UserID:     userID,
			Kind:       kind,
			EntityType: ref.Type,
			EntityID:   ref.ID,
			Payload:    datatypes.JSON(body),
			CreatedAt:  now,
		})
	}

	if err := d.repo.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	if d.metrics != nil {
		d.metrics.AddNotificationsSent(string(kind), len(rows))
	}

	d.publish(ctx, rows)

	d.logger.Debug("Notifications dispatched",
		zap.String("kind", string(kind)),
		zap.String("entity_type", string(ref.Type)),
		zap.Uint("entity_id", ref.ID),
		zap.Int("recipients", len(rows)),
	)
	return nil
}

func (d *storeDispatcher) publish(ctx context.Context, rows []*domain.Notification) {
	if d.publisher == nil {
		return
	}
	for _, n := range rows {
		data, err := json.Marshal(n)
		if err != nil {
			d.logger.Error("Failed to marshal notification for publish", zap.Error(err))
			continue
		}
		if err := d.publisher.Publish(ctx, n.UserID, data); err != nil {
			d.logger.Warn("Failed to publish notification",
				zap.Uint("user_id", n.UserID),
				zap.Error(err),
			)
		}
	}
}

// UniqueRecipients drops zero ids, duplicates and the excluded user, keeping first-seen order
func UniqueRecipients(ids []uint, exclude uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type noopDispatcher struct{}

// NewNoopDispatcher returns a Dispatcher that drops every event
func NewNoopDispatcher() Dispatcher {
	return noopDispatcher{}
}

func (noopDispatcher) Notify(context.Context, domain.NotificationKind, domain.EntityRef, []uint, map[string]interface{}) error {
	return nil
}
