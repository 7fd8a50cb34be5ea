package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hwaller/rosterdesk/pkg/model"
)

// SQLiteStore provides SQLite-backed persistence for the activity roster.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database and runs migrations.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: enable FK: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS activities (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		name             TEXT    NOT NULL UNIQUE CHECK(length(name) > 0),
		description      TEXT    NOT NULL DEFAULT '',
		schedule         TEXT    NOT NULL DEFAULT '',
		max_participants INTEGER NOT NULL DEFAULT 0 CHECK(max_participants >= 0),
		created_at       TEXT    NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS participants (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		activity_id INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		email       TEXT    NOT NULL,
		created_at  TEXT    NOT NULL DEFAULT (datetime('now')),
		UNIQUE(activity_id, email)
	);

	CREATE INDEX IF NOT EXISTS idx_participants_activity ON participants(activity_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ListActivities returns a snapshot of all activities in creation order.
// Participants come back in enrollment order via their autoincrement ids.
func (s *SQLiteStore) ListActivities() (*model.Roster, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.name, a.description, a.schedule, a.max_participants
		FROM activities a ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("store: list activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type entry struct {
		id       int64
		name     string
		activity model.Activity
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.name, &e.activity.Description, &e.activity.Schedule, &e.activity.MaxParticipants); err != nil {
			return nil, fmt.Errorf("store: scan activity: %w", err)
		}
		e.activity.Participants = []string{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list activities: %w", err)
	}

	byID := make(map[int64]int, len(entries))
	for i, e := range entries {
		byID[e.id] = i
	}

	prows, err := s.db.Query(`SELECT activity_id, email FROM participants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list participants: %w", err)
	}
	defer func() { _ = prows.Close() }()

	for prows.Next() {
		var activityID int64
		var email string
		if err := prows.Scan(&activityID, &email); err != nil {
			return nil, fmt.Errorf("store: scan participant: %w", err)
		}
		if i, ok := byID[activityID]; ok {
			entries[i].activity.Participants = append(entries[i].activity.Participants, email)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("store: list participants: %w", err)
	}

	roster := model.NewRoster()
	for _, e := range entries {
		roster.Set(e.name, e.activity)
	}
	return roster, nil
}

// GetActivity retrieves one activity. Returns (nil, nil) if not found.
func (s *SQLiteStore) GetActivity(name string) (*model.Activity, error) {
	var id int64
	var a model.Activity
	err := s.db.QueryRow(`
		SELECT id, description, schedule, max_participants
		FROM activities WHERE name = ?`, name).
		Scan(&id, &a.Description, &a.Schedule, &a.MaxParticipants)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get activity: %w", err)
	}

	rows, err := s.db.Query(`SELECT email FROM participants WHERE activity_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("store: get participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	a.Participants = []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("store: scan participant: %w", err)
		}
		a.Participants = append(a.Participants, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: get participants: %w", err)
	}
	return &a, nil
}

// CreateActivity adds a new activity at the end of the listing order.
func (s *SQLiteStore) CreateActivity(name string, a model.Activity) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: create activity: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM activities WHERE name = ?`, name).Scan(&exists); err != nil {
		return fmt.Errorf("store: create activity: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("store: create activity %q: %w", name, model.ErrActivityExists)
	}

	res, err := tx.Exec(`
		INSERT INTO activities (name, description, schedule, max_participants)
		VALUES (?, ?, ?, ?)`, name, a.Description, a.Schedule, a.MaxParticipants)
	if err != nil {
		return fmt.Errorf("store: create activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: create activity: %w", err)
	}

	for _, email := range a.Participants {
		if _, err := tx.Exec(`INSERT INTO participants (activity_id, email) VALUES (?, ?)`, id, email); err != nil {
			return fmt.Errorf("store: seed participant: %w", err)
		}
	}

	return tx.Commit()
}

// AddParticipant enrolls email in the named activity.
func (s *SQLiteStore) AddParticipant(activity, email string) error {
	id, err := s.activityID(activity)
	if err != nil {
		return err
	}

	var enrolled int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM participants WHERE activity_id = ? AND email = ?`, id, email).Scan(&enrolled); err != nil {
		return fmt.Errorf("store: add participant: %w", err)
	}
	if enrolled > 0 {
		return model.ErrAlreadySignedUp
	}

	if _, err := s.db.Exec(`INSERT INTO participants (activity_id, email) VALUES (?, ?)`, id, email); err != nil {
		return fmt.Errorf("store: add participant: %w", err)
	}
	return nil
}

// RemoveParticipant removes email from the named activity.
func (s *SQLiteStore) RemoveParticipant(activity, email string) error {
	id, err := s.activityID(activity)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`DELETE FROM participants WHERE activity_id = ? AND email = ?`, id, email)
	if err != nil {
		return fmt.Errorf("store: remove participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: remove participant: %w", err)
	}
	if n == 0 {
		return model.ErrNotSignedUp
	}
	return nil
}

func (s *SQLiteStore) activityID(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM activities WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, model.ErrActivityNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("store: lookup activity: %w", err)
	}
	return id, nil
}
