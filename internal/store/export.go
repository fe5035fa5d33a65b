package store

import (
	"context"
	"errors"

	"github.com/rcliao/tracker-agent/internal/model"
)

// ExportAll returns every record, optionally filtered by user.
func ExportAll(ctx context.Context, s Store, userID string) (*model.Export, error) {
	study, err := s.ListStudy(ctx, ListParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	sleep, err := s.ListSleep(ctx, ListParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	if study == nil {
		study = []model.StudyRecord{}
	}
	if sleep == nil {
		sleep = []model.SleepRecord{}
	}
	return &model.Export{Study: study, Sleep: sleep}, nil
}

// Import appends the records of an export. Records whose ID is already stored
// are left alone and counted as skipped.
func Import(ctx context.Context, s Store, exp *model.Export) (imported, skipped int, err error) {
	count := func(err error) error {
		switch {
		case err == nil:
			imported++
		case errors.Is(err, ErrDuplicate):
			skipped++
		default:
			return err
		}
		return nil
	}
	for i := range exp.Study {
		if err := count(s.AddStudy(ctx, &exp.Study[i])); err != nil {
			return imported, skipped, err
		}
	}
	for i := range exp.Sleep {
		if err := count(s.AddSleep(ctx, &exp.Sleep[i])); err != nil {
			return imported, skipped, err
		}
	}
	return imported, skipped, nil
}
