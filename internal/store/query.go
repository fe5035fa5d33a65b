package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type placeholder func(n int) string

func sqlitePlaceholder(int) string { return "?" }

func postgresPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// stampRecord assigns an ID and creation time to records that lack them.
// Imported records keep theirs.
func stampRecord(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = newID()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

// listQuery completes a SELECT over one of the record tables with the user
// filter, newest-first ordering and limit of p.
func listQuery(base string, p ListParams, ph placeholder) (string, []interface{}) {
	var where []string
	var args []interface{}

	if p.UserID != "" {
		args = append(args, p.UserID)
		where = append(where, "user_id = "+ph(len(args)))
	}

	query := base
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC, id DESC"

	if p.Limit > 0 {
		args = append(args, p.Limit)
		query += " LIMIT " + ph(len(args))
	}
	return query, args
}

func recentDisciplinesQuery(ph placeholder) string {
	return fmt.Sprintf(`
		SELECT discipline, COUNT(*) AS cnt
		FROM study_periods WHERE user_id = %s
		GROUP BY discipline
		ORDER BY cnt DESC, discipline ASC
		LIMIT %s`, ph(1), ph(2))
}

type rowIterator interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanDisciplines(rows rowIterator) ([]string, error) {
	var out []string
	for rows.Next() {
		var d string
		var cnt int
		if err := rows.Scan(&d, &cnt); err != nil {
			return nil, fmt.Errorf("scan discipline: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
