package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker-api/internal/dto"
	"project-tracker-api/internal/performance"
)

func TestMemoryReportCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryReportCache(time.Minute)

	miss, err := cache.Get(ctx, performance.Window7Days)
	require.NoError(t, err)
	assert.Nil(t, miss)

	report := &dto.TeamPerformanceResponse{Window: "7d"}
	require.NoError(t, cache.Set(ctx, report))

	hit, err := cache.Get(ctx, performance.Window7Days)
	require.NoError(t, err)
	assert.Same(t, report, hit)

	other, err := cache.Get(ctx, performance.WindowAll)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemoryReportCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryReportCache(time.Nanosecond)
	require.NoError(t, cache.Set(ctx, &dto.TeamPerformanceResponse{Window: "all"}))
	time.Sleep(time.Millisecond)

	got, err := cache.Get(ctx, performance.WindowAll)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportKey(t *testing.T) {
	assert.Equal(t, "performance:team:30d", reportKey(performance.Window30Days))
}
