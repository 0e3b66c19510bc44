package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGrowthPercentage(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{"no tenants", nil, 0},
		{"zero baseline", []time.Time{thisMonth, thisMonth, thisMonth}, 0},
		{"fifty percent growth", []time.Time{lastMonth, lastMonth, thisMonth, thisMonth, thisMonth}, 50},
		{"flat", []time.Time{lastMonth, thisMonth}, 0},
		{"decline", []time.Time{lastMonth, lastMonth}, -100},
		{"older ignored", []time.Time{older, older, lastMonth, thisMonth, thisMonth}, 100},
		{"rounds to nearest", []time.Time{lastMonth, lastMonth, lastMonth, thisMonth, thisMonth, thisMonth, thisMonth}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, growthPercentage(tt.times, now))
		})
	}
}

func TestGrowthPercentageMonthBoundaries(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Midnight on the 1st belongs to the new month; one tick before does not.
	startOfMonth := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	endOfLast := startOfMonth.Add(-time.Second)

	got := growthPercentage([]time.Time{endOfLast, startOfMonth, startOfMonth}, now)
	require.Equal(t, 100, got)
}
