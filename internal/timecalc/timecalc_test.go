package timecalc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tracker-agent/internal/timecalc"
)

func TestParseTimeOfDay_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "00:00"},
		{"0:00", "00:00"},
		{"9:05", "09:05"},
		{"09:30", "09:30"},
		{"19:59", "19:59"},
		{"23:59", "23:59"},
		{" 10:15 ", "10:15"},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseTimeOfDay(tt.in)
		require.NoError(t, err, "ParseTimeOfDay(%q)", tt.in)
		assert.Equal(t, tt.want, got.String(), "ParseTimeOfDay(%q)", tt.in)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "9:60", "9-30", "930", "9:5", "12:345", "-1:00", "ab:cd", "12:00:00", "25:10"} {
		_, err := timecalc.ParseTimeOfDay(in)
		if !errors.Is(err, timecalc.ErrInvalidFormat) {
			t.Errorf("ParseTimeOfDay(%q) error = %v, want ErrInvalidFormat", in, err)
		}
	}
}

func mustTime(t *testing.T, s string) timecalc.TimeOfDay {
	t.Helper()
	tod, err := timecalc.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestElapsed(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		start, end  string
		hours, mins int
	}{
		{"09:00", "10:30", 1, 30},
		{"23:00", "23:00", 0, 0},
		{"09:00", "10:00", 1, 0},
		{"08:15", "08:59", 0, 44},
		{"00:00", "23:59", 23, 59},
		// crosses midnight
		{"23:00", "01:00", 2, 0},
		{"22:30", "06:45", 8, 15},
	}
	for _, tt := range tests {
		h, m := timecalc.Elapsed(date, mustTime(t, tt.start), mustTime(t, tt.end))
		assert.Equal(t, tt.hours, h, "%s -> %s hours", tt.start, tt.end)
		assert.Equal(t, tt.mins, m, "%s -> %s minutes", tt.start, tt.end)
	}
}

func TestElapsed_IgnoresDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-03-31 is the spring-forward day in Berlin.
	date := time.Date(2024, 3, 31, 0, 0, 0, 0, loc)
	h, m := timecalc.Elapsed(date, mustTime(t, "01:00"), mustTime(t, "04:00"))
	assert.Equal(t, 3, h)
	assert.Equal(t, 0, m)
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = timecalc.ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestRecentDays(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 4, 0, 0, time.UTC)
	days := timecalc.RecentDays(now, 7)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-03-02", days[0].Format(timecalc.DateFormat))
	assert.Equal(t, "2024-03-01", days[1].Format(timecalc.DateFormat))
	assert.Equal(t, "2024-02-25", days[6].Format(timecalc.DateFormat))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h 30m", timecalc.FormatDuration(1, 30))
	assert.Equal(t, "45m", timecalc.FormatDuration(0, 45))
	assert.Equal(t, "0m", timecalc.FormatDuration(0, 0))
}
