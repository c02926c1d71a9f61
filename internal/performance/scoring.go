// Package performance folds per-user task and bug counters into a rating and score.
// It has no storage dependencies; callers aggregate counters for whatever window they need.
package performance

import (
	"errors"
	"fmt"
)

// Role selects the rule set used to evaluate a user
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleQA        Role = "qa"
)

// Rating is the categorical outcome of an evaluation
type Rating string

const (
	RatingExcellent        Rating = "EXCELLENT"
	RatingVeryGood         Rating = "VERY GOOD"
	RatingGood             Rating = "GOOD"
	RatingAverage          Rating = "AVERAGE"
	RatingNeedsImprovement Rating = "NEEDS IMPROVEMENT"
	RatingBad              Rating = "BAD"
	RatingVeryBad          Rating = "VERY BAD"
	RatingFired            Rating = "FIRED"
	RatingNoTasks          Rating = "NO TASKS"
)

var (
	// ErrUnsupportedRole is returned for roles that have no rule set (managers)
	ErrUnsupportedRole = errors.New("performance: unsupported role")
	// ErrNegativeCounter is returned when any counter is below zero
	ErrNegativeCounter = errors.New("performance: counters must not be negative")
)

// Counters are the pre-aggregated inputs for one user in one window.
// Rates are percentages. QA fields are ignored for developers and vice versa.
type Counters struct {
	Role                 Role
	TotalTasks           int
	CompletedTasks       int
	CompletedLate        int
	PendingOverdue       int
	OnTimeCompletionRate float64
	CompletionRate       float64
	BugsReported         int
	TasksReviewedClosed  int
	TasksInReview        int
}

// Result is the rating and score derived from one Counters value
type Result struct {
	Score        int     `json:"score"`
	Rating       Rating  `json:"rating"`
	TotalOverdue int     `json:"total_overdue"`
	QAEfficiency float64 `json:"qa_efficiency"`
}

const (
	maxBugPenalty = 30
	bugPenalty    = 2
	maxBugBonus   = 25
	bugBonus      = 5
	maxScore      = 100
)

// Evaluate dispatches to the rule set for c.Role
func Evaluate(c Counters) (Result, error) {
	if err := validate(c); err != nil {
		return Result{}, err
	}
	switch c.Role {
	case RoleDeveloper:
		return EvaluateDeveloper(c), nil
	case RoleQA:
		return EvaluateQA(c), nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedRole, c.Role)
}

func validate(c Counters) error {
	for _, v := range []int{c.TotalTasks, c.CompletedTasks, c.CompletedLate, c.PendingOverdue,
		c.BugsReported, c.TasksReviewedClosed, c.TasksInReview} {
		if v < 0 {
			return ErrNegativeCounter
		}
	}
	if c.OnTimeCompletionRate < 0 || c.CompletionRate < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// EvaluateDeveloper applies the developer rule list; the first matching rule wins.
// Every rating except FIRED is reduced by the bug penalty.
func EvaluateDeveloper(c Counters) Result {
	overdue := c.CompletedLate + c.PendingOverdue

	var (
		rating Rating
		score  int
	)
	switch {
	case overdue >= 5:
		return Result{Score: 0, Rating: RatingFired, TotalOverdue: overdue}
	case overdue >= 3:
		rating, score = RatingVeryBad, 20
	case overdue >= 1:
		rating, score = RatingBad, 40
	case c.OnTimeCompletionRate >= 90 && c.BugsReported == 0:
		if c.CompletionRate > 100 {
			rating, score = RatingExcellent, 100
		} else {
			rating, score = RatingVeryGood, 90
		}
	case c.OnTimeCompletionRate >= 80:
		rating, score = RatingGood, 80
	case c.OnTimeCompletionRate >= 60:
		rating, score = RatingAverage, 60
	default:
		rating, score = RatingNeedsImprovement, 50
	}

	penalty := min(c.BugsReported*bugPenalty, maxBugPenalty)
	return Result{
		Score:        max(0, score-penalty),
		Rating:       rating,
		TotalOverdue: overdue,
	}
}

// EvaluateQA rates review throughput and adds a bonus for reported bugs.
// Overdue work is reported but does not affect the QA rating.
func EvaluateQA(c Counters) Result {
	overdue := c.CompletedLate + c.PendingOverdue
	total := c.TasksReviewedClosed + c.TasksInReview
	if total == 0 {
		return Result{Score: 0, Rating: RatingNoTasks, TotalOverdue: overdue}
	}

	efficiency := float64(c.TasksReviewedClosed) / float64(total) * 100

	var (
		rating Rating
		base   int
	)
	switch {
	case efficiency >= 90 && c.BugsReported > 0:
		rating, base = RatingExcellent, 95
	case efficiency >= 80:
		rating, base = RatingVeryGood, 85
	case efficiency >= 70:
		rating, base = RatingGood, 75
	case efficiency >= 50:
		rating, base = RatingAverage, 60
	default:
		rating, base = RatingNeedsImprovement, 40
	}

	bonus := min(c.BugsReported*bugBonus, maxBugBonus)
	return Result{
		Score:        min(maxScore, base+bonus),
		Rating:       rating,
		TotalOverdue: overdue,
		QAEfficiency: efficiency,
	}
}
