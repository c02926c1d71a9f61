package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationType_ToDays(t *testing.T) {
	tests := []struct {
		name    string
		unit    DurationType
		value   int
		want    int
		wantErr bool
	}{
		{"days", DurationTypeDays, 10, 10, false},
		{"weeks", DurationTypeWeeks, 2, 14, false},
		{"months", DurationTypeMonths, 3, 90, false},
		{"zero value", DurationTypeDays, 0, 0, true},
		{"unknown unit", DurationType("years"), 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.unit.ToDays(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusVocabularies(t *testing.T) {
	assert.True(t, TaskStatusAwaitRelease.IsValid())
	assert.False(t, TaskStatus("open").IsValid())
	assert.True(t, BugStatusResolved.IsValid())
	assert.False(t, BugStatus("todo").IsValid())
	assert.True(t, PriorityCritical.IsValid())
	assert.False(t, Priority("urgent").IsValid())
}

func TestEntityType_IsAttachable(t *testing.T) {
	assert.True(t, EntityTypeTask.IsAttachable())
	assert.True(t, EntityTypeBug.IsAttachable())
	assert.True(t, EntityTypeComment.IsAttachable())
	assert.False(t, EntityTypeProject.IsAttachable())
	assert.False(t, EntityType("user").IsAttachable())
}
