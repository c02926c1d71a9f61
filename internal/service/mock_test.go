package service

import (
	"context"
	"sync"
	"time"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/performance"
)

// notifyCall is one recorded Dispatcher.Notify invocation
type notifyCall struct {
	Kind       domain.NotificationKind
	Ref        domain.EntityRef
	Recipients []uint
	Payload    map[string]interface{}
}

// MockDispatcher is a mock implementation of notification.Dispatcher that records every call
type MockDispatcher struct {
	mu         sync.Mutex
	Calls      []notifyCall
	NotifyFunc func(ctx context.Context, kind domain.NotificationKind, ref domain.EntityRef, recipients []uint, payload map[string]interface{}) error
}

func (m *MockDispatcher) Notify(ctx context.Context, kind domain.NotificationKind, ref domain.EntityRef, recipients []uint, payload map[string]interface{}) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, notifyCall{Kind: kind, Ref: ref, Recipients: recipients, Payload: payload})
	m.mu.Unlock()
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, kind, ref, recipients, payload)
	}
	return nil
}

func (m *MockDispatcher) calls() []notifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifyCall(nil), m.Calls...)
}

// MockActivityLogger is a mock implementation of ActivityLogger
type MockActivityLogger struct {
	LogFunc func(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, details map[string]interface{}) error
}

func (m *MockActivityLogger) Log(ctx context.Context, actor domain.Actor, action string, ref domain.EntityRef, details map[string]interface{}) error {
	if m.LogFunc != nil {
		return m.LogFunc(ctx, actor, action, ref, details)
	}
	return nil
}

// MockPerformanceRepository is a mock implementation of repository.PerformanceRepository
type MockPerformanceRepository struct {
	DeveloperCountersFunc func(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error)
	QACountersFunc        func(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error)
}

func (m *MockPerformanceRepository) DeveloperCounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error) {
	if m.DeveloperCountersFunc != nil {
		return m.DeveloperCountersFunc(ctx, userID, since, now)
	}
	return performance.Counters{Role: performance.RoleDeveloper}, nil
}

func (m *MockPerformanceRepository) QACounters(ctx context.Context, userID uint, since *time.Time, now time.Time) (performance.Counters, error) {
	if m.QACountersFunc != nil {
		return m.QACountersFunc(ctx, userID, since, now)
	}
	return performance.Counters{Role: performance.RoleQA}, nil
}
