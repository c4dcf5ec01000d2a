package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ProgressRow is the stored state of one gesture in the lesson.
type ProgressRow struct {
	GestureID string
	Position  int
	State     string
	UpdatedAt time.Time
}

// ProgressRepository persists lesson progress.
type ProgressRepository struct {
	db *sql.DB
}

// Progress returns the progress repository for this store.
func (s *Store) Progress() *ProgressRepository {
	return &ProgressRepository{db: s.db}
}

// Load returns all stored rows ordered by lesson position.
// An empty result means no progress has been saved yet.
func (r *ProgressRepository) Load() ([]ProgressRow, error) {
	rows, err := r.db.Query(
		`SELECT gesture_id, position, state, updated_at FROM progress ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgressRow
	for rows.Next() {
		var p ProgressRow
		if err := rows.Scan(&p.GestureID, &p.Position, &p.State, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// Save replaces the stored progress with rows in a single transaction.
func (r *ProgressRepository) Save(rows []ProgressRow) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM progress`); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}

	now := time.Now()
	for _, p := range rows {
		_, err := tx.Exec(
			`INSERT INTO progress (gesture_id, position, state, updated_at) VALUES (?, ?, ?, ?)`,
			p.GestureID, p.Position, p.State, now,
		)
		if err != nil {
			return fmt.Errorf("insert progress for %s: %w", p.GestureID, err)
		}
	}

	return tx.Commit()
}

// Clear removes all stored progress.
func (r *ProgressRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM progress`)
	return err
}
