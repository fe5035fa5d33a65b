package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tracker-agent/internal/model"
)

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	math := study("u1", "2024-01-01", "Math")
	math.Performance = 60
	require.NoError(t, s.AddStudy(ctx, math))
	require.NoError(t, s.AddStudy(ctx, study("u1", "2024-01-02", "Math")))
	require.NoError(t, s.AddStudy(ctx, study("u1", "2024-01-02", "Art")))
	require.NoError(t, s.AddStudy(ctx, study("u2", "2024-01-02", "Physics")))

	short := sleep("u1", "2024-01-02", model.QualityBad)
	short.DurationHours, short.DurationMinutes = 6, 30
	require.NoError(t, s.AddSleep(ctx, short))
	require.NoError(t, s.AddSleep(ctx, sleep("u1", "2024-01-03", model.QualityGood)))

	st, err := Summarize(ctx, s, "u1")
	require.NoError(t, err)

	assert.Equal(t, 3, st.StudySessions)
	assert.Equal(t, 270, st.StudyMinutes)
	require.Len(t, st.Disciplines, 2)
	assert.Equal(t, DisciplineStats{Discipline: "Math", Sessions: 2, Minutes: 180, AvgPerformance: 70}, st.Disciplines[0])
	assert.Equal(t, "Art", st.Disciplines[1].Discipline)

	assert.Equal(t, 2, st.SleepPeriods)
	assert.Equal(t, 435, st.AvgSleepMinutes)
	assert.Equal(t, 1, st.Quality["bad"])
	assert.Equal(t, 1, st.Quality["good"])
	assert.Equal(t, 0, st.Quality["very_good"])
}

func TestSummarize_Empty(t *testing.T) {
	st, err := Summarize(context.Background(), newTestStore(t), "nobody")
	require.NoError(t, err)
	assert.Zero(t, st.StudySessions)
	assert.Empty(t, st.Disciplines)
	assert.Zero(t, st.AvgSleepMinutes)
	assert.Len(t, st.Quality, len(model.Qualities))
}
