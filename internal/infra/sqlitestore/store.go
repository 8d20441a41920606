// Package sqlitestore provides a SQLite implementation of TaskRepository.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/daybook-app/daybook/internal/domain"

	_ "modernc.org/sqlite"
)

// Ensure Store implements domain.TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)

// Store keeps the task collection in a single table. The position column
// preserves insertion order across a Replace.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	id INTEGER NOT NULL UNIQUE,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	date TEXT NOT NULL,
	time TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS tasks_date ON tasks(date);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load returns every task ordered by insertion position.
func (s *Store) Load() ([]domain.Task, error) {
	rows, err := s.db.Query(`SELECT id, text, completed, date, time FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var t domain.Task
		var completed int
		var date string
		if err := rows.Scan(&t.ID, &t.Text, &completed, &date, &t.Time); err != nil {
			return nil, err
		}
		t.Completed = completed == 1
		if t.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("%w: task %d: %v", domain.ErrCorruptStore, t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Replace rewrites the table with tasks in one transaction.
func (s *Store) Replace(tasks []domain.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks(position, id, text, completed, date, time) VALUES(?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.Exec(i, t.ID, t.Text, boolToInt(t.Completed), t.Date.String(), t.Time); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
