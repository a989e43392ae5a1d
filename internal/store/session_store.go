package store

import (
	"time"

	"github.com/obeidat/hrdesk/internal/domain"
)

// SQLiteSessionStore persists conversation turns keyed by employee id.
// It implements session.Store.
type SQLiteSessionStore struct {
	db *DB
}

// NewSQLiteSessionStore creates a session store using the given database.
func NewSQLiteSessionStore(db *DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// History returns the employee's turns in insertion order.
func (s *SQLiteSessionStore) History(empID int) []domain.Turn {
	rows, err := s.db.sql.Query(
		`SELECT role, content, timestamp FROM turns WHERE emp_id = ? ORDER BY id`, empID,
	)
	if err != nil {
		s.db.log.Error().Err(err).Int("employee", empID).Msg("failed to load history")
		return nil
	}
	defer rows.Close()

	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var ts string
		if err := rows.Scan(&t.Role, &t.Content, &ts); err != nil {
			continue
		}
		t.Timestamp, _ = time.Parse(time.DateTime, ts)
		turns = append(turns, t)
	}
	return turns
}

// Append writes the given turns in one transaction. Either all turns
// land in the history or none do.
func (s *SQLiteSessionStore) Append(empID int, turns ...domain.Turn) {
	if len(turns) == 0 {
		return
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		s.db.log.Error().Err(err).Int("employee", empID).Msg("failed to begin append")
		return
	}

	for _, t := range turns {
		ts := t.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.Exec(
			`INSERT INTO turns (emp_id, role, content, timestamp) VALUES (?, ?, ?, ?)`,
			empID, t.Role, t.Content, ts.Format(time.DateTime),
		); err != nil {
			tx.Rollback()
			s.db.log.Error().Err(err).Int("employee", empID).Msg("failed to append turn")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		s.db.log.Error().Err(err).Int("employee", empID).Msg("failed to commit turns")
	}
}
