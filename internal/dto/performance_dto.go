package dto

import "time"

// UserPerformanceResponse is the evaluation of one developer or QA user in one window
type UserPerformanceResponse struct {
	UserID               uint    `json:"userId"`
	Name                 string  `json:"name"`
	Role                 string  `json:"role"`
	Window               string  `json:"window"`
	TotalTasks           int     `json:"totalTasks"`
	CompletedTasks       int     `json:"completedTasks"`
	CompletedLate        int     `json:"completedLate"`
	PendingOverdue       int     `json:"pendingOverdue"`
	OnTimeCompletionRate float64 `json:"onTimeCompletionRate"`
	CompletionRate       float64 `json:"completionRate"`
	BugsReported         int     `json:"bugsReported"`
	TasksReviewedClosed  int     `json:"tasksReviewedClosed,omitempty"`
	TasksInReview        int     `json:"tasksInReview,omitempty"`
	TotalOverdue         int     `json:"totalOverdue"`
	QAEfficiency         float64 `json:"qaEfficiency,omitempty"`
	Score                int     `json:"score"`
	Rating               string  `json:"rating"`
}

// TeamPerformanceResponse groups every developer and QA evaluation of one window
type TeamPerformanceResponse struct {
	Window      string                    `json:"window"`
	GeneratedAt time.Time                 `json:"generatedAt"`
	Developers  []UserPerformanceResponse `json:"developers"`
	QA          []UserPerformanceResponse `json:"qa"`
}
