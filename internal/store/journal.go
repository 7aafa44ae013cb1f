package store

import (
	"context"
	"fmt"
	"time"
)

// JournalEntry records one pet mutation and the state it produced.
type JournalEntry struct {
	Seq       int64     `json:"seq"`
	Session   string    `json:"session"`
	Action    string    `json:"action"`
	Delta     int       `json:"delta,omitempty"`
	Happiness int       `json:"happiness"`
	Zone      string    `json:"zone"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendJournal inserts an entry and returns its assigned sequence number.
// Seq and CreatedAt on the input are ignored.
func (s *Store) AppendJournal(ctx context.Context, e JournalEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO journal (session, action, delta, happiness, zone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Session, e.Action, e.Delta, e.Happiness, e.Zone, s.now())
	if err != nil {
		return 0, fmt.Errorf("append journal: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append journal: %w", err)
	}
	return seq, nil
}

// ReadJournal returns up to limit entries, newest first.
// An empty session returns entries from every session.
// A limit <= 0 returns all matching entries.
func (s *Store) ReadJournal(ctx context.Context, session string, limit int) ([]JournalEntry, error) {
	query := `SELECT seq, session, action, delta, happiness, zone, created_at FROM journal`
	var args []any
	if session != "" {
		query += ` WHERE session = ?`
		args = append(args, session)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	entries := []JournalEntry{}
	for rows.Next() {
		var (
			e       JournalEntry
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.Session, &e.Action, &e.Delta, &e.Happiness, &e.Zone, &created); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}
