package sink

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteSink streams trial records to a sqlite database file, giving the
// run a durable record that survives the process.
type SQLiteSink struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

func (s *SQLiteSink) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite sink path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS interactions (
			source INTEGER NOT NULL,
			target INTEGER NOT NULL,
			repetition INTEGER NOT NULL,
			score REAL NOT NULL,
			PRIMARY KEY (source, target, repetition)
		);
		DELETE FROM interactions;
	`); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteSink) Append(ctx context.Context, rec Record) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO interactions (source, target, repetition, score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source, target, repetition) DO UPDATE SET
			score = excluded.score
	`, rec.Source, rec.Target, rec.Repetition, rec.Score)
	return err
}

func (s *SQLiteSink) Flush(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	// Force the WAL (if any) onto the main database file before read-back.
	_, err = db.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL);`)
	return err
}

func (s *SQLiteSink) Scores(ctx context.Context) (map[[2]int][]float64, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT source, target, score
		FROM interactions
		ORDER BY source, target, repetition
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[[2]int][]float64)
	for rows.Next() {
		var source, target int
		var score float64
		if err := rows.Scan(&source, &target, &score); err != nil {
			return nil, err
		}
		key := [2]int{source, target}
		scores[key] = append(scores[key], score)
	}
	return scores, rows.Err()
}

func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteSink) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sink is not initialized")
	}
	return s.db, nil
}
