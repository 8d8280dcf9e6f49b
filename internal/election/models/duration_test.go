package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeTime(t *testing.T) {
	tests := []struct {
		name    string
		period  float64
		days    int
		hours   int
		minutes int
	}{
		{name: "whole days", period: 48, days: 2},
		{name: "days and hours", period: 50, days: 2, hours: 2},
		{name: "fractional hour", period: 1.5, hours: 1, minutes: 30},
		{name: "rounds minutes", period: 0.999, minutes: 60},
		{name: "zero", period: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, hours, minutes := ComputeTime(tt.period)
			require.Equal(t, tt.days, days)
			require.Equal(t, tt.hours, hours)
			require.Equal(t, tt.minutes, minutes)
		})
	}
}

func TestEndDate(t *testing.T) {
	e := Election{
		ElectionStartDate: time.Date(2023, 4, 1, 9, 0, 0, 0, time.UTC),
		ElectionPeriod:    49.5,
	}
	require.Equal(t, time.Date(2023, 4, 3, 10, 30, 0, 0, time.UTC), e.EndDate())
}

func TestRemainingTime(t *testing.T) {
	start := time.Date(2023, 4, 1, 9, 0, 0, 0, time.UTC)
	e := Election{ElectionStartDate: start, ElectionPeriod: 24}

	t.Run("mid election", func(t *testing.T) {
		require.Equal(t, "12h0m0s", e.RemainingTime(start.Add(12*time.Hour)))
	})

	t.Run("rounds to the minute", func(t *testing.T) {
		require.Equal(t, "11h30m0s", e.RemainingTime(start.Add(12*time.Hour+30*time.Minute+10*time.Second)))
	})

	t.Run("past end reports zero", func(t *testing.T) {
		require.Equal(t, "0s", e.RemainingTime(start.Add(48*time.Hour)))
	})
}
