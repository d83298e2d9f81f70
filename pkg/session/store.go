package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultFileName is the session database name inside the data directory.
const DefaultFileName = "session.db"

// Store persists the auth state in a local SQLite database so that it
// survives restarts and is shared between the TUI and CLI invocations.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the session database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS auth (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_id TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the persisted state. An empty database yields a logged-out state.
func (s *Store) Load(ctx context.Context) (AuthState, error) {
	var st AuthState
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name FROM auth WHERE id = 1
	`).Scan(&st.UserID, &st.FirstName, &st.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return AuthState{}, nil
	}
	if err != nil {
		return AuthState{}, fmt.Errorf("load session: %w", err)
	}
	st.LoggedIn = st.UserID != ""
	return st, nil
}

// Save replaces the persisted state and appends a login or logout event.
func (s *Store) Save(ctx context.Context, st AuthState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO auth (id, user_id, first_name, last_name, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			updated_at = excluded.updated_at
	`, st.UserID, st.FirstName, st.LastName, now); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	kind := "logout"
	if st.LoggedIn {
		kind = "login"
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO auth_events (kind, user_id, created_at) VALUES (?, ?, ?)
	`, kind, st.UserID, now); err != nil {
		return fmt.Errorf("record session event: %w", err)
	}
	return tx.Commit()
}

// Event is one recorded login or logout.
type Event struct {
	Kind      string
	UserID    string
	CreatedAt time.Time
}

// Events returns the most recent auth events, newest first.
func (s *Store) Events(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, user_id, created_at FROM auth_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Kind, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
