package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-05-01T09:30", time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-05-01 09:30:15", time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)},
		{"2024-05-01T09:30:00+09:00", time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDatetime(tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	empty, err := parseDatetime("  ")
	assert.NoError(t, err)
	assert.Nil(t, empty)

	_, err = parseDatetime("01/05/2024")
	assert.Error(t, err)
}

func TestValidator_CheckSchedule(t *testing.T) {
	v := &validator{}
	start, end := v.checkSchedule("2024-05-01", "2024-05-01")
	assert.NotNil(t, start)
	assert.NotNil(t, end)
	assert.NoError(t, v.err(), "equal start and end are allowed")

	v = &validator{}
	v.checkSchedule("soon", "")
	assert.Equal(t, []string{"Invalid start date"}, v.errs)
}

func TestChangeSet(t *testing.T) {
	c := newChangeSet()
	c.compare("name", "a", "a")
	c.compare("priority", "low", "high")
	c.markText("description", "<p>x</p>", "<p>y</p>")
	c.compare("assignees", sortedIDs([]uint{3, 1}), sortedIDs([]uint{1, 3}))

	assert.Equal(t, map[string]interface{}{"priority": "low"}, c.old)
	assert.Equal(t, map[string]interface{}{
		"priority":    "high",
		"description": map[string]string{"type": "updated"},
	}, c.new)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{4, 2}, uniqueIDs([]uint{0, 4, 2, 4}))
}
