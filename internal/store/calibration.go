package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/habitkicker/internal/habit"
	"github.com/ayusman/habitkicker/internal/landmark"
)

// CalibrationRepository stores posture baselines. Only the latest calibration
// matters to the engine; saving a new one replaces everything before it.
type CalibrationRepository struct {
	db *sql.DB
}

// Calibrations returns the calibration repository for this store.
func (s *Store) Calibrations() *CalibrationRepository {
	return &CalibrationRepository{db: s.db}
}

// Save persists a posture baseline, replacing any previous calibration.
func (r *CalibrationRepository) Save(b *habit.Baseline) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Previous calibrations are superseded, landmarks cascade
	if _, err := tx.Exec(`DELETE FROM calibrations`); err != nil {
		return err
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO calibrations (id, shoulder_height, nose_neck_distance, torso_reference, captured_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, b.ShoulderHeight, b.NoseNeckDistance, b.TorsoReference, b.CapturedAt,
	)
	if err != nil {
		return err
	}

	for name, point := range b.Pose {
		_, err := tx.Exec(
			`INSERT INTO calibration_landmarks (calibration_id, name, x, y, z)
			 VALUES (?, ?, ?, ?, ?)`,
			id, string(name), point.X, point.Y, point.Z,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Latest retrieves the current posture baseline.
// Returns ErrNotFound if no calibration has been saved.
func (r *CalibrationRepository) Latest() (*habit.Baseline, error) {
	b := &habit.Baseline{}
	var id string
	var capturedAt time.Time

	err := r.db.QueryRow(
		`SELECT id, shoulder_height, nose_neck_distance, torso_reference, captured_at
		 FROM calibrations ORDER BY created_at DESC LIMIT 1`,
	).Scan(&id, &b.ShoulderHeight, &b.NoseNeckDistance, &b.TorsoReference, &capturedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.CapturedAt = capturedAt

	rows, err := r.db.Query(
		`SELECT name, x, y, z FROM calibration_landmarks WHERE calibration_id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b.Pose = make(map[landmark.PoseLandmark]landmark.Point3D)
	for rows.Next() {
		var name string
		var p landmark.Point3D

		if err := rows.Scan(&name, &p.X, &p.Y, &p.Z); err != nil {
			return nil, err
		}
		b.Pose[landmark.PoseLandmark(name)] = p
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(b.Pose) == 0 {
		return nil, fmt.Errorf("calibration %s has no landmarks", id)
	}

	return b, nil
}

// Clear removes the stored calibration. Clearing when none exists is not an
// error.
func (r *CalibrationRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM calibrations`)
	return err
}
