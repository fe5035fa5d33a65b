package store

import (
	"context"
	"sort"

	"github.com/rcliao/tracker-agent/internal/model"
)

// Stats summarizes a user's records.
type Stats struct {
	UserID          string            `json:"user_id,omitempty"`
	StudySessions   int               `json:"study_sessions"`
	StudyMinutes    int               `json:"study_minutes"`
	Disciplines     []DisciplineStats `json:"disciplines"`
	SleepPeriods    int               `json:"sleep_periods"`
	AvgSleepMinutes int               `json:"avg_sleep_minutes"`
	Quality         map[string]int    `json:"quality"`
}

// DisciplineStats holds per-discipline totals.
type DisciplineStats struct {
	Discipline     string `json:"discipline"`
	Sessions       int    `json:"sessions"`
	Minutes        int    `json:"minutes"`
	AvgPerformance int    `json:"avg_performance"`
}

// Summarize computes Stats over the records of userID, or of everyone when
// userID is empty. Disciplines are ordered by minutes studied, descending.
func Summarize(ctx context.Context, s Store, userID string) (*Stats, error) {
	study, err := s.ListStudy(ctx, ListParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	sleep, err := s.ListSleep(ctx, ListParams{UserID: userID})
	if err != nil {
		return nil, err
	}

	st := &Stats{UserID: userID, Disciplines: []DisciplineStats{}, Quality: map[string]int{}}

	byName := map[string]*DisciplineStats{}
	perfSum := map[string]int{}
	for _, r := range study {
		mins := r.DurationHours*60 + r.DurationMinutes
		st.StudySessions++
		st.StudyMinutes += mins
		d, ok := byName[r.Discipline]
		if !ok {
			d = &DisciplineStats{Discipline: r.Discipline}
			byName[r.Discipline] = d
		}
		d.Sessions++
		d.Minutes += mins
		perfSum[r.Discipline] += r.Performance
	}
	for name, d := range byName {
		d.AvgPerformance = perfSum[name] / d.Sessions
		st.Disciplines = append(st.Disciplines, *d)
	}
	sort.Slice(st.Disciplines, func(i, j int) bool {
		a, b := st.Disciplines[i], st.Disciplines[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.Discipline < b.Discipline
	})

	total := 0
	for _, r := range sleep {
		total += r.DurationHours*60 + r.DurationMinutes
		st.Quality[string(r.Quality)]++
	}
	st.SleepPeriods = len(sleep)
	if st.SleepPeriods > 0 {
		st.AvgSleepMinutes = total / st.SleepPeriods
	}
	for _, q := range model.Qualities {
		if _, ok := st.Quality[string(q)]; !ok {
			st.Quality[string(q)] = 0
		}
	}
	return st, nil
}
