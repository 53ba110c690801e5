package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNotFutureDate(t *testing.T) {
	todayDay := startOfDay(time.Now())

	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{"yesterday should be allowed", todayDay.AddDate(0, 0, -1), false},
		{"today should be allowed", todayDay, false},
		{"late today should be allowed", todayDay.Add(23 * time.Hour), false},
		{"tomorrow should be rejected", todayDay.AddDate(0, 0, 1), true},
		{"far future should be rejected", todayDay.AddDate(1, 0, 0), true},
		{"far past should be allowed", todayDay.AddDate(-1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotFutureDate(tt.date)
			if tt.wantErr {
				assert.EqualError(t, err, "date cannot be in the future")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDateLocal(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
		wantErr bool
	}{
		{"valid date string", "2026-01-23", false},
		{"invalid date string", "invalid", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateLocal(tt.dateStr)
			assert.Equal(t, tt.wantErr, err != nil, "error = %v", err)
		})
	}

	parsed, err := ParseDateLocal("2026-01-23")
	require.NoError(t, err)
	assert.Equal(t, time.Local, parsed.Location())
	assert.Equal(t, 23, parsed.Day())
	assert.Equal(t, 0, parsed.Hour()+parsed.Minute()+parsed.Second(), "start of day")
}

func TestParseSince(t *testing.T) {
	since, err := ParseSince("")
	require.NoError(t, err)
	assert.True(t, since.IsZero())

	since, err = ParseSince(" 2025-12-01 ")
	require.NoError(t, err)
	assert.Equal(t, time.December, since.Month())

	_, err = ParseSince("01/12/2025")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")

	tomorrow := time.Now().AddDate(0, 0, 1).Format(DateLayout)
	_, err = ParseSince(tomorrow)
	assert.EqualError(t, err, "date cannot be in the future")
}

func TestStartOfDay(t *testing.T) {
	now := time.Now()
	midnight := startOfDay(now)

	assert.Equal(t, 0, midnight.Hour()+midnight.Minute()+midnight.Second())
	assert.Equal(t, now.Local().YearDay(), midnight.YearDay())
	assert.Equal(t, time.Local, midnight.Location())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	ts := time.Date(2026, 3, 1, 14, 5, 0, 0, time.Local)
	assert.Equal(t, "2026-03-01 14:05", FormatDate(ts))
}
