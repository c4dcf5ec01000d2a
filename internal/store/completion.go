package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Completion sources.
const (
	SourceRecognized = "recognized"
	SourceSkipped    = "skipped"
)

// Completion is one logged lesson completion.
type Completion struct {
	ID          string
	SessionID   string
	GestureID   string
	Source      string
	FrameTS     int64
	CompletedAt time.Time
}

// CompletionRepository records and queries completions.
type CompletionRepository struct {
	db *sql.DB
}

// Completions returns the completion repository for this store.
func (s *Store) Completions() *CompletionRepository {
	return &CompletionRepository{db: s.db}
}

// Record inserts c, assigning an ID and timestamp when they are unset.
func (r *CompletionRepository) Record(c *Completion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	if c.Source == "" {
		c.Source = SourceRecognized
	}

	_, err := r.db.Exec(
		`INSERT INTO completions (id, session_id, gesture_id, source, frame_ts, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.SessionID, c.GestureID, c.Source, c.FrameTS, c.CompletedAt,
	)
	return err
}

// GetByID retrieves a completion by its ID.
func (r *CompletionRepository) GetByID(id string) (*Completion, error) {
	c := &Completion{}
	err := r.db.QueryRow(
		`SELECT id, session_id, gesture_id, source, frame_ts, completed_at
		 FROM completions WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.SessionID, &c.GestureID, &c.Source, &c.FrameTS, &c.CompletedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// List returns the most recent completions, newest first. A limit of zero
// or less returns all of them.
func (r *CompletionRepository) List(limit int) ([]*Completion, error) {
	query := `SELECT id, session_id, gesture_id, source, frame_ts, completed_at
		 FROM completions ORDER BY completed_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Completion
	for rows.Next() {
		c := &Completion{}
		if err := rows.Scan(&c.ID, &c.SessionID, &c.GestureID, &c.Source, &c.FrameTS, &c.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

// CountByGesture returns how many times each gesture has been completed.
func (r *CompletionRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT gesture_id, COUNT(*) FROM completions GROUP BY gesture_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}

	return counts, rows.Err()
}
