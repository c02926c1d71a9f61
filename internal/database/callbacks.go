package database

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// MetricsRecorder receives per-statement timings and connection pool snapshots
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats sql.DBStats)
}

// RegisterMetricsCallbacks times every gorm statement. Create, query, update and
// delete are labelled with their table; Raw and Row (used by the performance
// aggregation) fall back to "raw" when no model is attached.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	start := func(tx *gorm.DB) {
		tx.InstanceSet(startTimeKey, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			recordStatement(tx, recorder, operation)
		}
	}

	cb := db.Callback()
	cb.Create().Before("gorm:create").Register("metrics:create_before", start)
	cb.Create().After("gorm:create").Register("metrics:create_after", finish("insert"))
	cb.Query().Before("gorm:query").Register("metrics:query_before", start)
	cb.Query().After("gorm:query").Register("metrics:query_after", finish("select"))
	cb.Update().Before("gorm:update").Register("metrics:update_before", start)
	cb.Update().After("gorm:update").Register("metrics:update_after", finish("update"))
	cb.Delete().Before("gorm:delete").Register("metrics:delete_before", start)
	cb.Delete().After("gorm:delete").Register("metrics:delete_after", finish("delete"))
	cb.Raw().Before("gorm:raw").Register("metrics:raw_before", start)
	cb.Raw().After("gorm:raw").Register("metrics:raw_after", finish("exec"))
	cb.Row().Before("gorm:row").Register("metrics:row_before", start)
	cb.Row().After("gorm:row").Register("metrics:row_after", finish("select"))
}

func recordStatement(tx *gorm.DB, recorder MetricsRecorder, operation string) {
	v, ok := tx.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}

	table := tx.Statement.Table
	if table == "" && tx.Statement.Schema != nil {
		table = tx.Statement.Schema.Table
	}
	if table == "" && tx.Statement.SQL.Len() > 0 {
		table = "raw"
	}
	recorder.RecordDBQuery(operation, table, time.Since(start), tx.Error)
}

// StartDBStatsCollector publishes sql.DBStats every interval until done is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = 15 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
