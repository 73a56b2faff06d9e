package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/habitkicker/internal/habit"
)

// AlertEvent is one recorded alert transition: a habit alert entering or
// exiting the active state.
type AlertEvent struct {
	ID         string
	Habit      habit.Habit
	Event      string // "entered" or "exited"
	Score      float64
	OccurredAt time.Time
	CreatedAt  time.Time
}

// EventRepository provides storage for alert transition history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new alert event into the database.
func (r *EventRepository) Create(e *AlertEvent) error {
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO alert_events (id, habit, event, score, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Habit), e.Event, e.Score, e.OccurredAt, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves an alert event by its ID.
func (r *EventRepository) GetByID(id string) (*AlertEvent, error) {
	e := &AlertEvent{}
	var h string

	err := r.db.QueryRow(
		`SELECT id, habit, event, score, occurred_at, created_at
		 FROM alert_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &h, &e.Event, &e.Score, &e.OccurredAt, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e.Habit = habit.Habit(h)
	return e, nil
}

// List retrieves alert events, most recent first, up to limit rows.
// A limit <= 0 returns everything.
func (r *EventRepository) List(limit int) ([]*AlertEvent, error) {
	query := `SELECT id, habit, event, score, occurred_at, created_at
		 FROM alert_events ORDER BY occurred_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*AlertEvent
	for rows.Next() {
		e := &AlertEvent{}
		var h string

		err := rows.Scan(&e.ID, &h, &e.Event, &e.Score, &e.OccurredAt, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Habit = habit.Habit(h)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// ListByHabit retrieves alert events for a single habit, most recent first.
func (r *EventRepository) ListByHabit(h habit.Habit, limit int) ([]*AlertEvent, error) {
	query := `SELECT id, habit, event, score, occurred_at, created_at
		 FROM alert_events WHERE habit = ? ORDER BY occurred_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, string(h), limit)
	} else {
		rows, err = r.db.Query(query, string(h))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*AlertEvent
	for rows.Next() {
		e := &AlertEvent{}
		var name string

		err := rows.Scan(&e.ID, &name, &e.Event, &e.Score, &e.OccurredAt, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Habit = habit.Habit(name)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// DeleteBefore removes events older than the cutoff and returns how many
// rows were deleted.
func (r *EventRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM alert_events WHERE occurred_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
