package performance

// OnTimeRate is the share of completed tasks finished by their deadline, in percent.
// It is 0 when nothing has been completed.
func OnTimeRate(completed, completedLate int) float64 {
	if completed <= 0 {
		return 0
	}
	onTime := completed - completedLate
	if onTime < 0 {
		onTime = 0
	}
	return float64(onTime) / float64(completed) * 100
}

// CompletionRate is completed over due tasks in percent. When no task is due yet it
// falls back to completed over all tasks, so early finishers can exceed 100.
func CompletionRate(completed, due, total int) float64 {
	switch {
	case due > 0:
		return float64(completed) / float64(due) * 100
	case total > 0:
		return float64(completed) / float64(total) * 100
	}
	return 0
}
