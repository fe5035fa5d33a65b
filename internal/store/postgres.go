package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcliao/tracker-agent/internal/model"
)

// PostgresStore implements Store on a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and creates the tables if needed.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &PostgresStore{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return p, nil
}

func (p *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS study_periods (
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
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_study_user_date ON study_periods(user_id, date DESC)`,
		`CREATE TABLE IF NOT EXISTS sleep_periods (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			user_name        TEXT NOT NULL DEFAULT '',
			date             TEXT NOT NULL,
			start_time       TEXT NOT NULL,
			end_time         TEXT NOT NULL,
			duration_hours   INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			quality          TEXT NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sleep_user_date ON sleep_periods(user_id, date DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresStore) AddStudy(ctx context.Context, r *model.StudyRecord) error {
	stampRecord(&r.ID, &r.CreatedAt)
	if err := validateRecord(r); err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO study_periods (id, user_id, user_name, date, start_time, end_time,
		                            duration_hours, duration_minutes, discipline, performance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.UserID, r.UserName, r.Date, r.StartTime, r.EndTime,
		r.DurationHours, r.DurationMinutes, r.Discipline, r.Performance, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert study record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("study record %s: %w", r.ID, ErrDuplicate)
	}
	return nil
}

func (p *PostgresStore) AddSleep(ctx context.Context, r *model.SleepRecord) error {
	stampRecord(&r.ID, &r.CreatedAt)
	if err := validateRecord(r); err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO sleep_periods (id, user_id, user_name, date, start_time, end_time,
		                            duration_hours, duration_minutes, quality, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.UserID, r.UserName, r.Date, r.StartTime, r.EndTime,
		r.DurationHours, r.DurationMinutes, string(r.Quality), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sleep record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sleep record %s: %w", r.ID, ErrDuplicate)
	}
	return nil
}

func (p *PostgresStore) ListStudy(ctx context.Context, lp ListParams) ([]model.StudyRecord, error) {
	query, args := listQuery(`SELECT id, user_id, user_name, date, start_time, end_time,
	                                 duration_hours, duration_minutes, discipline, performance, created_at
	                          FROM study_periods`, lp, postgresPlaceholder)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list study records: %w", err)
	}
	defer rows.Close()

	var records []model.StudyRecord
	for rows.Next() {
		var r model.StudyRecord
		err := rows.Scan(
			&r.ID, &r.UserID, &r.UserName, &r.Date, &r.StartTime, &r.EndTime,
			&r.DurationHours, &r.DurationMinutes, &r.Discipline, &r.Performance, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan study record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgresStore) ListSleep(ctx context.Context, lp ListParams) ([]model.SleepRecord, error) {
	query, args := listQuery(`SELECT id, user_id, user_name, date, start_time, end_time,
	                                 duration_hours, duration_minutes, quality, created_at
	                          FROM sleep_periods`, lp, postgresPlaceholder)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	defer rows.Close()

	var records []model.SleepRecord
	for rows.Next() {
		var r model.SleepRecord
		var quality string
		err := rows.Scan(
			&r.ID, &r.UserID, &r.UserName, &r.Date, &r.StartTime, &r.EndTime,
			&r.DurationHours, &r.DurationMinutes, &quality, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sleep record: %w", err)
		}
		r.Quality = model.Quality(quality)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgresStore) RecentDisciplines(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := p.pool.Query(ctx, recentDisciplinesQuery(postgresPlaceholder), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent disciplines: %w", err)
	}
	defer rows.Close()
	return scanDisciplines(rows)
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ rowIterator = (pgx.Rows)(nil)
