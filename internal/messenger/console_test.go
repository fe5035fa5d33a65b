package messenger

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tracker-agent/internal/dialog"
	"github.com/rcliao/tracker-agent/internal/menu"
	"github.com/rcliao/tracker-agent/internal/store"
)

var consoleUser = dialog.User{ID: "console", Name: "Ana"}

func TestConsoleRendersNumberedButtons(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader(""), &out, consoleUser)

	require.NoError(t, c.SendChoices(context.Background(), 0, "How did you sleep?", menu.QualityPicker()))

	got := out.String()
	assert.Contains(t, got, "How did you sleep?")
	assert.Contains(t, got, "[1] Very Bad")
	assert.Contains(t, got, "[2] Bad")
	assert.Contains(t, got, "[5] Very Good")
	assert.Contains(t, got, "[6] Cancel")
}

func TestConsoleMapsNumbersToTokens(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{}, consoleUser)
	require.NoError(t, c.SendChoices(context.Background(), 0, "pick", menu.QualityPicker()))

	tests := []struct {
		line string
		data string
		text string
	}{
		{"2", "quality:bad", "2"},
		{"6", "cancel", "6"},
		{"7", "", "7"},
		{"0", "", "0"},
		{"09:00", "", "09:00"},
	}
	for _, tt := range tests {
		u := c.update(tt.line)
		assert.Equal(t, tt.data, u.Data, tt.line)
		assert.Equal(t, tt.text, u.Text, tt.line)
		assert.Equal(t, consoleUser, u.User)
	}
}

func TestConsoleEditWithoutGridClearsButtons(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{}, consoleUser)
	ctx := context.Background()
	require.NoError(t, c.SendChoices(ctx, 0, "pick", menu.PerformancePicker()))
	require.NoError(t, c.Edit(ctx, 0, "done", nil))

	u := c.update("1")
	assert.Empty(t, u.Data)
	assert.Equal(t, "1", u.Text)
}

func TestConsoleRunRecordsStudySession(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	input := strings.Join([]string{
		"/add_study",
		"Biology",
		"09:00",
		"10:30",
		"1",  // today
		"12", // 80%
		"/quit",
		"never read",
	}, "\n")

	var out bytes.Buffer
	c := NewConsole(strings.NewReader(input), &out, consoleUser)
	now := func() time.Time { return time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC) }
	agent := dialog.NewAgent(s, c, dialog.Options{Now: now})

	require.NoError(t, c.Run(context.Background(), agent))

	records, err := s.ListStudy(context.Background(), store.ListParams{UserID: consoleUser.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-03", records[0].Date)
	assert.Equal(t, "Biology", records[0].Discipline)
	assert.Equal(t, 80, records[0].Performance)
	assert.Equal(t, 1, records[0].DurationHours)
	assert.Equal(t, 30, records[0].DurationMinutes)

	assert.Contains(t, out.String(), "Performance: 80%")
	assert.NotContains(t, out.String(), "never read")
}

func TestConsoleNumberAfterPickerWentAway(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	input := strings.Join([]string{
		"/add_sleep",
		"22:00",
		"06:00", // date picker shown, its buttons stay numbered
		"/cancel",
		"/add_study",
		"1", // a discipline named "1", not the old date button
		"09:00",
		"10:00",
		"1",  // today
		"12", // 80%
		"/quit",
	}, "\n")

	var out bytes.Buffer
	c := NewConsole(strings.NewReader(input), &out, consoleUser)
	now := func() time.Time { return time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC) }
	require.NoError(t, c.Run(context.Background(), dialog.NewAgent(s, c, dialog.Options{Now: now})))

	records, err := s.ListStudy(context.Background(), store.ListParams{UserID: consoleUser.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Discipline)
	assert.Equal(t, 80, records[0].Performance)

	sleeps, err := s.ListSleep(context.Background(), store.ListParams{UserID: consoleUser.ID})
	require.NoError(t, err)
	assert.Empty(t, sleeps)
	assert.NotContains(t, out.String(), "no longer active")
}

func TestConsoleRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsole(strings.NewReader("/help\n"), &bytes.Buffer{}, consoleUser)
	err := c.Run(ctx, dialog.NewAgent(nil, c, dialog.Options{}))
	assert.ErrorIs(t, err, context.Canceled)
}
