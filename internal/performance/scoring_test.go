package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDeveloper(t *testing.T) {
	tests := []struct {
		name        string
		counters    Counters
		wantRating  Rating
		wantScore   int
		wantOverdue int
	}{
		{
			name:        "five overdue is fired and skips bug penalty",
			counters:    Counters{CompletedLate: 3, PendingOverdue: 2, BugsReported: 40},
			wantRating:  RatingFired,
			wantScore:   0,
			wantOverdue: 5,
		},
		{
			name:        "four overdue with perfect rates is very bad",
			counters:    Counters{CompletedLate: 2, PendingOverdue: 2, OnTimeCompletionRate: 95, CompletionRate: 105},
			wantRating:  RatingVeryBad,
			wantScore:   20,
			wantOverdue: 4,
		},
		{
			name:        "very bad still takes bug penalty",
			counters:    Counters{PendingOverdue: 3, BugsReported: 4},
			wantRating:  RatingVeryBad,
			wantScore:   12,
			wantOverdue: 3,
		},
		{
			name:        "one overdue is bad",
			counters:    Counters{CompletedLate: 1, OnTimeCompletionRate: 100},
			wantRating:  RatingBad,
			wantScore:   40,
			wantOverdue: 1,
		},
		{
			name:       "early finisher without bugs is excellent",
			counters:   Counters{OnTimeCompletionRate: 92, CompletionRate: 110},
			wantRating: RatingExcellent,
			wantScore:  100,
		},
		{
			name:       "exactly 100 percent completion is very good",
			counters:   Counters{OnTimeCompletionRate: 90, CompletionRate: 100},
			wantRating: RatingVeryGood,
			wantScore:  90,
		},
		{
			name:       "high on-time rate with bugs falls through to good",
			counters:   Counters{OnTimeCompletionRate: 95, CompletionRate: 120, BugsReported: 1},
			wantRating: RatingGood,
			wantScore:  78,
		},
		{
			name:       "average",
			counters:   Counters{OnTimeCompletionRate: 60},
			wantRating: RatingAverage,
			wantScore:  60,
		},
		{
			name:       "needs improvement",
			counters:   Counters{OnTimeCompletionRate: 59.9},
			wantRating: RatingNeedsImprovement,
			wantScore:  50,
		},
		{
			name:       "bug penalty is capped at 30",
			counters:   Counters{OnTimeCompletionRate: 85, BugsReported: 100},
			wantRating: RatingGood,
			wantScore:  50,
		},
		{
			name:        "penalty never drives score below zero",
			counters:    Counters{PendingOverdue: 4, BugsReported: 15},
			wantRating:  RatingVeryBad,
			wantScore:   0,
			wantOverdue: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.counters.Role = RoleDeveloper
			got, err := Evaluate(tt.counters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRating, got.Rating)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantOverdue, got.TotalOverdue)
		})
	}
}

func TestEvaluateQA(t *testing.T) {
	tests := []struct {
		name       string
		counters   Counters
		wantRating Rating
		wantScore  int
		wantEff    float64
	}{
		{
			name:       "no qa tasks",
			counters:   Counters{BugsReported: 5},
			wantRating: RatingNoTasks,
			wantScore:  0,
		},
		{
			name:       "excellent requires reported bugs",
			counters:   Counters{TasksReviewedClosed: 9, TasksInReview: 1, BugsReported: 1},
			wantRating: RatingExcellent,
			wantScore:  100,
			wantEff:    90,
		},
		{
			name:       "ninety percent without bugs is very good",
			counters:   Counters{TasksReviewedClosed: 10},
			wantRating: RatingVeryGood,
			wantScore:  85,
			wantEff:    100,
		},
		{
			name:       "good",
			counters:   Counters{TasksReviewedClosed: 7, TasksInReview: 3, BugsReported: 2},
			wantRating: RatingGood,
			wantScore:  85,
			wantEff:    70,
		},
		{
			name:       "average",
			counters:   Counters{TasksReviewedClosed: 1, TasksInReview: 1},
			wantRating: RatingAverage,
			wantScore:  60,
			wantEff:    50,
		},
		{
			name:       "needs improvement with capped bonus",
			counters:   Counters{TasksReviewedClosed: 1, TasksInReview: 3, BugsReported: 50},
			wantRating: RatingNeedsImprovement,
			wantScore:  65,
			wantEff:    25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.counters.Role = RoleQA
			got, err := Evaluate(tt.counters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRating, got.Rating)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.InDelta(t, tt.wantEff, got.QAEfficiency, 0.0001)
		})
	}
}

func TestEvaluateQA_ReportsOverdue(t *testing.T) {
	got := EvaluateQA(Counters{Role: RoleQA, CompletedLate: 2, PendingOverdue: 1, TasksReviewedClosed: 4, TasksInReview: 1})
	assert.Equal(t, 3, got.TotalOverdue)
	assert.Equal(t, RatingVeryGood, got.Rating, "overdue work does not change the qa rating")
	assert.Equal(t, 85, got.Score)

	none := EvaluateQA(Counters{Role: RoleQA, PendingOverdue: 2})
	assert.Equal(t, RatingNoTasks, none.Rating)
	assert.Equal(t, 2, none.TotalOverdue)
}

func TestEvaluate_UnsupportedRole(t *testing.T) {
	_, err := Evaluate(Counters{Role: "manager"})
	assert.True(t, errors.Is(err, ErrUnsupportedRole))
}

func TestEvaluate_NegativeCounter(t *testing.T) {
	_, err := Evaluate(Counters{Role: RoleDeveloper, CompletedLate: -1})
	assert.True(t, errors.Is(err, ErrNegativeCounter))
}

func TestRates(t *testing.T) {
	assert.Equal(t, 0.0, OnTimeRate(0, 0))
	assert.Equal(t, 75.0, OnTimeRate(4, 1))
	assert.Equal(t, 0.0, OnTimeRate(2, 5))

	assert.Equal(t, 150.0, CompletionRate(3, 2, 5))
	assert.Equal(t, 60.0, CompletionRate(3, 0, 5))
	assert.Equal(t, 0.0, CompletionRate(0, 0, 0))
}

func TestParseWindow(t *testing.T) {
	for _, in := range []string{"", "all", "30d", "7d"} {
		_, err := ParseWindow(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseWindow("1y")
	assert.Error(t, err)

	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, WindowAll.Since(now))
	assert.Equal(t, time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC), *Window7Days.Since(now))
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), *Window30Days.Since(now))
}
