package metrics

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementBugCreated increments bug creation counter
func (m *Metrics) IncrementBugCreated() {
	m.safeExecute("IncrementBugCreated", func() {
		m.BugCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments comment counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// RecordStatusTransition counts a committed status change
func (m *Metrics) RecordStatusTransition(entity, to string) {
	m.safeExecute("RecordStatusTransition", func() {
		m.StatusTransitionsTotal.WithLabelValues(entity, to).Inc()
	})
}

// RecordWorkflowFailure counts a rolled back workflow operation
func (m *Metrics) RecordWorkflowFailure(operation string) {
	m.safeExecute("RecordWorkflowFailure", func() {
		m.WorkflowFailuresTotal.WithLabelValues(operation).Inc()
	})
}

// AddNotificationsSent counts stored notifications of one kind
func (m *Metrics) AddNotificationsSent(kind string, count int) {
	m.safeExecute("AddNotificationsSent", func() {
		m.NotificationsSentTotal.WithLabelValues(kind).Add(float64(count))
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetTasksByStatus replaces the per-status task gauges
func (m *Metrics) SetTasksByStatus(counts map[string]int64) {
	m.safeExecute("SetTasksByStatus", func() {
		m.TasksTotal.Reset()
		for status, n := range counts {
			m.TasksTotal.WithLabelValues(status).Set(float64(n))
		}
	})
}

// SetBugsByStatus replaces the per-status bug gauges
func (m *Metrics) SetBugsByStatus(counts map[string]int64) {
	m.safeExecute("SetBugsByStatus", func() {
		m.BugsTotal.Reset()
		for status, n := range counts {
			m.BugsTotal.WithLabelValues(status).Set(float64(n))
		}
	})
}
