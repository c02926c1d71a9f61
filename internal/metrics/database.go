package metrics

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// waitTracker remembers the last cumulative wait figures reported by
// database/sql so the counters only grow by the difference
type waitTracker struct {
	mu       sync.Mutex
	count    int64
	duration time.Duration
}

func (w *waitTracker) delta(stats sql.DBStats) (int64, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// a reopened pool restarts its counters
	if stats.WaitCount < w.count || stats.WaitDuration < w.duration {
		w.count, w.duration = 0, 0
	}
	dc, dd := stats.WaitCount-w.count, stats.WaitDuration-w.duration
	w.count, w.duration = stats.WaitCount, stats.WaitDuration
	return dc, dd
}

// UpdateDBStats mirrors the connection pool state into the db gauges
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	m.safeExecute("UpdateDBStats", func() {
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		waits, waited := m.dbWait.delta(stats)
		m.DBConnectionWaitTotal.Add(float64(waits))
		m.DBConnectionWaitDuration.Add(waited.Seconds())
	})
}

// RecordDBQuery records one gorm statement. table is the statement's table,
// "raw" for hand written SQL.
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if table == "" {
			table = "unknown"
		}
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())

		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
