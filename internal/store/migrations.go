package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Progress table - one row per vocabulary gesture
		`CREATE TABLE IF NOT EXISTS progress (
			gesture_id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			state TEXT NOT NULL CHECK(state IN ('locked', 'active', 'done')),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Completions table - every gated completion, from any session
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			gesture_id TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('recognized', 'skipped')),
			frame_ts INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_completions_gesture_id ON completions(gesture_id)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_completed_at ON completions(completed_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
