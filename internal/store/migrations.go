package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Calibrations table - stores posture baseline summaries
		`CREATE TABLE IF NOT EXISTS calibrations (
			id TEXT PRIMARY KEY,
			shoulder_height REAL NOT NULL,
			nose_neck_distance REAL NOT NULL,
			torso_reference REAL NOT NULL,
			captured_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Calibration landmarks table - stores the averaged reference pose points
		`CREATE TABLE IF NOT EXISTS calibration_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			calibration_id TEXT NOT NULL REFERENCES calibrations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		// Alert events table - stores habit alert transitions for history
		`CREATE TABLE IF NOT EXISTS alert_events (
			id TEXT PRIMARY KEY,
			habit TEXT NOT NULL,
			event TEXT NOT NULL CHECK(event IN ('entered', 'exited')),
			score REAL NOT NULL DEFAULT 0,
			occurred_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_calibration_landmarks_calibration_id ON calibration_landmarks(calibration_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_occurred_at ON alert_events(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_habit ON alert_events(habit)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
