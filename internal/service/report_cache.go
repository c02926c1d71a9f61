package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"project-tracker-api/internal/client"
	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/performance"
)

// ReportCache keeps the latest team report per window. Get returns (nil, nil) on a miss.
type ReportCache interface {
	Get(ctx context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error)
	Set(ctx context.Context, report *dto.TeamPerformanceResponse) error
}

func reportKey(window performance.Window) string {
	return fmt.Sprintf("performance:team:%s", window)
}

type redisReportCache struct {
	client   *redis.Client
	ttl      time.Duration
	recorder client.CallRecorder
}

// NewRedisReportCache stores reports as JSON under performance:team:<window>. recorder may be nil.
func NewRedisReportCache(rdb *redis.Client, ttl time.Duration, recorder client.CallRecorder) ReportCache {
	return &redisReportCache{client: rdb, ttl: ttl, recorder: recorder}
}

func (c *redisReportCache) Get(ctx context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error) {
	start := time.Now()
	raw, err := c.client.Get(ctx, reportKey(window)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record("GET", start, nil)
		return nil, nil
	}
	c.record("GET", start, err)
	if err != nil {
		return nil, err
	}

	var report dto.TeamPerformanceResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

func (c *redisReportCache) Set(ctx context.Context, report *dto.TeamPerformanceResponse) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	start := time.Now()
	err = c.client.Set(ctx, reportKey(performance.Window(report.Window)), raw, c.ttl).Err()
	c.record("SET", start, err)
	return err
}

func (c *redisReportCache) record(method string, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	status := 200
	if err != nil {
		status = 500
	}
	c.recorder.RecordExternalAPICall("redis:performance", method, status, time.Since(start), err)
}

// memoryReportCache is used when redis is not configured
type memoryReportCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	reports map[performance.Window]cachedReport
}

type cachedReport struct {
	report  *dto.TeamPerformanceResponse
	expires time.Time
}

// NewMemoryReportCache creates a process-local ReportCache
func NewMemoryReportCache(ttl time.Duration) ReportCache {
	return &memoryReportCache{ttl: ttl, reports: make(map[performance.Window]cachedReport)}
}

func (c *memoryReportCache) Get(_ context.Context, window performance.Window) (*dto.TeamPerformanceResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.reports[window]
	if !ok || (c.ttl > 0 && time.Now().After(entry.expires)) {
		return nil, nil
	}
	return entry.report, nil
}

func (c *memoryReportCache) Set(_ context.Context, report *dto.TeamPerformanceResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[performance.Window(report.Window)] = cachedReport{report: report, expires: time.Now().Add(c.ttl)}
	return nil
}
