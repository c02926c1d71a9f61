// Package job runs background work on a cron schedule.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"project-tracker-api/internal/performance"
	"project-tracker-api/internal/service"
)

// defaultRunTimeout bounds one refresh of all windows
const defaultRunTimeout = 2 * time.Minute

// PerformanceSnapshotJob recomputes the team performance report of every window
// so that report reads are served from the cache
type PerformanceSnapshotJob struct {
	performanceService service.PerformanceService
	logger             *zap.Logger
	timeout            time.Duration
}

// NewPerformanceSnapshotJob creates a new PerformanceSnapshotJob instance
func NewPerformanceSnapshotJob(performanceService service.PerformanceService, logger *zap.Logger) *PerformanceSnapshotJob {
	return &PerformanceSnapshotJob{
		performanceService: performanceService,
		logger:             logger,
		timeout:            defaultRunTimeout,
	}
}

// Run executes the job. It satisfies cron.Job.
func (j *PerformanceSnapshotJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RunContext(ctx)
}

// RunContext refreshes each window in turn. A failing window is logged and
// does not stop the others.
func (j *PerformanceSnapshotJob) RunContext(ctx context.Context) {
	start := time.Now()
	j.logger.Info("Starting performance snapshot job")

	successCount := 0
	failCount := 0
	for _, window := range performance.Windows {
		report, err := j.performanceService.RefreshTeamReport(ctx, window)
		if err != nil {
			j.logger.Error("Failed to refresh performance report",
				zap.String("window", string(window)),
				zap.Error(err),
			)
			failCount++
			continue
		}
		successCount++
		j.logger.Debug("Performance report refreshed",
			zap.String("window", string(window)),
			zap.Int("developers", len(report.Developers)),
			zap.Int("qa", len(report.QA)),
		)
	}

	j.logger.Info("Performance snapshot job completed",
		zap.Int("windows", len(performance.Windows)),
		zap.Int("success", successCount),
		zap.Int("failed", failCount),
		zap.Duration("duration", time.Since(start)),
	)
}

// NewScheduler creates a cron scheduler whose jobs recover from panics and
// never overlap with a still running previous invocation
func NewScheduler(logger *zap.Logger) *cron.Cron {
	cl := cronLogger{logger: logger.Sugar()}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// Schedule registers job under spec, e.g. "@every 15m" or "*/15 * * * *"
func Schedule(c *cron.Cron, spec string, job cron.Job) (cron.EntryID, error) {
	id, err := c.AddJob(spec, job)
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
