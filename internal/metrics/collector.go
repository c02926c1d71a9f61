package metrics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector refreshes project, task and bug gauges periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewBusinessMetricsCollector creates a new collector. A non-positive interval defaults to one minute.
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector. It is safe to call more than once.
func (c *BusinessMetricsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

type statusCount struct {
	Status string
	Count  int64
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var projectCount int64
	if err := c.db.WithContext(ctx).Table("projects").Where("status = ?", "active").Count(&projectCount).Error; err != nil {
		c.logger.Error("Failed to count projects", zap.Error(err))
	} else {
		c.metrics.SetProjectsTotal(projectCount)
	}

	if counts, err := c.countByStatus(ctx, "tasks"); err != nil {
		c.logger.Error("Failed to count tasks", zap.Error(err))
	} else {
		c.metrics.SetTasksByStatus(counts)
	}

	if counts, err := c.countByStatus(ctx, "bugs"); err != nil {
		c.logger.Error("Failed to count bugs", zap.Error(err))
	} else {
		c.metrics.SetBugsByStatus(counts)
	}
}

func (c *BusinessMetricsCollector) countByStatus(ctx context.Context, table string) (map[string]int64, error) {
	var rows []statusCount
	if err := c.db.WithContext(ctx).Table(table).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
