package access

import (
	"testing"
	"time"

	"github.com/gatewise/vms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationCap(t *testing.T) {
	tests := []struct {
		purpose  string
		expected time.Duration
		capped   bool
	}{
		{models.PurposeEHailingDriver, 45 * time.Minute, true},
		{models.PurposeFoodServices, 45 * time.Minute, true},
		{models.PurposeCourier, 45 * time.Minute, true},
		{models.PurposeGarbageTruck, 120 * time.Minute, true},
		{models.PurposeSafeguard, 120 * time.Minute, true},
		{models.PurposeMeeting, 0, false},
		{models.PurposePublic, 0, false},
		{"Unknown Purpose", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			d, ok := DurationCap(tt.purpose)
			assert.Equal(t, tt.capped, ok)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestAdhocWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	t.Run("uncapped purpose gets the full day", func(t *testing.T) {
		start, end := AdhocWindow(models.PurposeMeeting, now)
		assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC), end)
	})

	t.Run("capped purpose gets now plus cap", func(t *testing.T) {
		start, end := AdhocWindow(models.PurposeCourier, now)
		assert.Equal(t, now, start)
		assert.Equal(t, now.Add(45*time.Minute), end)
	})
}

func TestPreregisteredWindow(t *testing.T) {
	start := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	t.Run("uncapped window untouched", func(t *testing.T) {
		end := start.Add(6 * time.Hour)
		gotStart, gotEnd, err := PreregisteredWindow(models.PurposeMeeting, start, end)
		require.NoError(t, err)
		assert.Equal(t, start, gotStart)
		assert.Equal(t, end, gotEnd)
	})

	t.Run("three hour request clamped to 45 minutes", func(t *testing.T) {
		end := start.Add(3 * time.Hour)
		gotStart, gotEnd, err := PreregisteredWindow(models.PurposeEHailingDriver, start, end)
		require.NoError(t, err)
		assert.Equal(t, start, gotStart)
		assert.Equal(t, start.Add(45*time.Minute), gotEnd)
	})

	t.Run("request inside cap untouched", func(t *testing.T) {
		end := start.Add(30 * time.Minute)
		_, gotEnd, err := PreregisteredWindow(models.PurposeCourier, start, end)
		require.NoError(t, err)
		assert.Equal(t, end, gotEnd)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		_, _, err := PreregisteredWindow(models.PurposeMeeting, start, start.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrWindowInverted)
	})

	t.Run("equal start and end rejected", func(t *testing.T) {
		_, _, err := PreregisteredWindow(models.PurposeMeeting, start, start)
		assert.ErrorIs(t, err, ErrWindowInverted)
	})

	t.Run("zero dates rejected", func(t *testing.T) {
		_, _, err := PreregisteredWindow(models.PurposeMeeting, time.Time{}, start)
		assert.ErrorIs(t, err, ErrWindowMissing)
	})
}

func TestIsLongStay(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsLongStay(start, start.AddDate(0, 0, 7)))
	assert.True(t, IsLongStay(start, start.AddDate(0, 0, 7).Add(time.Minute)))
	assert.True(t, IsLongStay(start, start.AddDate(0, 0, 30)))
}

func TestFormatDuration(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	entry := now.Add(-2*time.Hour - 15*time.Minute)
	exit := now.Add(-time.Hour)

	tests := []struct {
		name     string
		entryAt  *time.Time
		exitAt   *time.Time
		expected string
	}{
		{"entry and exit", &entry, &exit, "1h 15m"},
		{"still inside uses now", &entry, nil, "2h 15m"},
		{"no entry", nil, &exit, "Not available"},
		{"inverted", &exit, &entry, "Not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.entryAt, tt.exitAt, now))
		})
	}

	t.Run("exact hour", func(t *testing.T) {
		e := now.Add(-time.Hour)
		assert.Equal(t, "1h", FormatDuration(&e, &now, now))
	})

	t.Run("under an hour", func(t *testing.T) {
		e := now.Add(-25 * time.Minute)
		assert.Equal(t, "25m", FormatDuration(&e, &now, now))
	})
}
