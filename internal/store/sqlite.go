package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/tracker-agent/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS study_periods (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		user_name        TEXT NOT NULL DEFAULT '',
		date             TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		duration_hours   INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		discipline       TEXT NOT NULL,
		performance      INTEGER NOT NULL,
		created_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_study_user_date ON study_periods(user_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_study_user_discipline ON study_periods(user_id, discipline);

	CREATE TABLE IF NOT EXISTS sleep_periods (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		user_name        TEXT NOT NULL DEFAULT '',
		date             TEXT NOT NULL,
		start_time       TEXT NOT NULL,
		end_time         TEXT NOT NULL,
		duration_hours   INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		quality          TEXT NOT NULL,
		created_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_sleep_user_date ON sleep_periods(user_id, date DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) AddStudy(ctx context.Context, r *model.StudyRecord) error {
	stampRecord(&r.ID, &r.CreatedAt)
	if err := validateRecord(r); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO study_periods (id, user_id, user_name, date, start_time, end_time,
		                            duration_hours, duration_minutes, discipline, performance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		r.ID, r.UserID, r.UserName, r.Date, r.StartTime, r.EndTime,
		r.DurationHours, r.DurationMinutes, r.Discipline, r.Performance,
		r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert study record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert study record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("study record %s: %w", r.ID, ErrDuplicate)
	}
	return nil
}

func (s *SQLiteStore) AddSleep(ctx context.Context, r *model.SleepRecord) error {
	stampRecord(&r.ID, &r.CreatedAt)
	if err := validateRecord(r); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sleep_periods (id, user_id, user_name, date, start_time, end_time,
		                            duration_hours, duration_minutes, quality, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		r.ID, r.UserID, r.UserName, r.Date, r.StartTime, r.EndTime,
		r.DurationHours, r.DurationMinutes, string(r.Quality),
		r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sleep record %s: %w", r.ID, ErrDuplicate)
	}
	return nil
}

func (s *SQLiteStore) ListStudy(ctx context.Context, p ListParams) ([]model.StudyRecord, error) {
	query, args := listQuery(`SELECT id, user_id, user_name, date, start_time, end_time,
	                                 duration_hours, duration_minutes, discipline, performance, created_at
	                          FROM study_periods`, p, sqlitePlaceholder)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list study records: %w", err)
	}
	defer rows.Close()

	var records []model.StudyRecord
	for rows.Next() {
		r, err := scanStudy(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) ListSleep(ctx context.Context, p ListParams) ([]model.SleepRecord, error) {
	query, args := listQuery(`SELECT id, user_id, user_name, date, start_time, end_time,
	                                 duration_hours, duration_minutes, quality, created_at
	                          FROM sleep_periods`, p, sqlitePlaceholder)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	defer rows.Close()

	var records []model.SleepRecord
	for rows.Next() {
		r, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) RecentDisciplines(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, recentDisciplinesQuery(sqlitePlaceholder), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent disciplines: %w", err)
	}
	defer rows.Close()
	return scanDisciplines(rows)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudy(row scanner) (model.StudyRecord, error) {
	var r model.StudyRecord
	var createdAt string
	err := row.Scan(
		&r.ID, &r.UserID, &r.UserName, &r.Date, &r.StartTime, &r.EndTime,
		&r.DurationHours, &r.DurationMinutes, &r.Discipline, &r.Performance, &createdAt,
	)
	if err != nil {
		return r, fmt.Errorf("scan study record: %w", err)
	}
	r.CreatedAt = parseCreatedAt(createdAt)
	return r, nil
}

func scanSleep(row scanner) (model.SleepRecord, error) {
	var r model.SleepRecord
	var quality, createdAt string
	err := row.Scan(
		&r.ID, &r.UserID, &r.UserName, &r.Date, &r.StartTime, &r.EndTime,
		&r.DurationHours, &r.DurationMinutes, &quality, &createdAt,
	)
	if err != nil {
		return r, fmt.Errorf("scan sleep record: %w", err)
	}
	r.Quality = model.Quality(quality)
	r.CreatedAt = parseCreatedAt(createdAt)
	return r, nil
}

// parseCreatedAt accepts RFC3339 as written by this package and the
// "YYYY-MM-DD HH:MM:SS" form of the CURRENT_TIMESTAMP default.
func parseCreatedAt(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.DateTime, s)
	return t
}
