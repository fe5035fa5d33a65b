// Package store provides the event record storage interface with SQLite and
// PostgreSQL implementations.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/tracker-agent/internal/model"
)

// ErrDuplicate is returned by AddStudy and AddSleep when a record with the
// same ID is already stored. Nothing is written.
var ErrDuplicate = errors.New("record already exists")

// ListParams holds parameters for listing records.
type ListParams struct {
	UserID string // empty lists every user's records
	Limit  int    // 0 means no limit
}

// Store defines the record storage interface. Records are append-only: there
// is no update or delete.
type Store interface {
	// AddStudy validates and inserts a study record, filling in ID and
	// CreatedAt when they are unset. A record whose ID already exists is
	// left untouched and ErrDuplicate is returned.
	AddStudy(ctx context.Context, r *model.StudyRecord) error

	// AddSleep validates and inserts a sleep record, like AddStudy.
	AddSleep(ctx context.Context, r *model.SleepRecord) error

	// ListStudy returns study records ordered by date, newest first.
	ListStudy(ctx context.Context, p ListParams) ([]model.StudyRecord, error)

	// ListSleep returns sleep records ordered by date, newest first.
	ListSleep(ctx context.Context, p ListParams) ([]model.SleepRecord, error)

	// RecentDisciplines returns the user's distinct disciplines, most
	// frequently studied first, at most limit of them.
	RecentDisciplines(ctx context.Context, userID string, limit int) ([]string, error)

	// Close closes the store.
	Close() error
}

func newID() string {
	return ulid.Make().String()
}

// Backends accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open returns the store for backend. For sqlite, target is the database
// path; for postgres it is the connection string.
func Open(ctx context.Context, backend, target string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStore(target)
	case BackendPostgres:
		return NewPostgresStore(ctx, target)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
