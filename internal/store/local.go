package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"dashy/internal/logging"
)

// LocalStore persists todos and mail in SQLite so they survive restarts.
// Widgets and devices stay in memory; the dashboard layout is cheap to
// rebuild and device state is owned by the hardware anyway.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewLocalStore opens (or creates) the SQLite database at the given path.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite synchronous=NORMAL: %v", err)
	}
	logging.StoreDebug("Opened SQLite database connection")

	s := &LocalStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Database schema initialized")

	logging.Store("LocalStore ready")
	return s, nil
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		content TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS mail (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		sender TEXT NOT NULL,
		subject TEXT NOT NULL,
		snippet TEXT NOT NULL DEFAULT '',
		read INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_mail_read ON mail(read);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// --- TodoBackend --------------------------------------------------------

func (s *LocalStore) Todos() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, created_at, content, done FROM todos ORDER BY id")
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to query todos: %v", err)
		return nil
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		var t Todo
		var created string
		var done int
		if err := rows.Scan(&t.ID, &created, &t.Content, &done); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to scan todo row: %v", err)
			continue
		}
		t.CreatedAt = parseSQLiteTime(created)
		t.Done = done != 0
		out = append(out, t)
	}
	return out
}

func (s *LocalStore) AddTodo(content string) Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec("INSERT INTO todos (created_at, content, done) VALUES (?, ?, 0)",
		now.UTC().Format(sqliteTimeLayout), content)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to insert todo: %v", err)
		return Todo{Content: content, CreatedAt: now}
	}
	id, _ := res.LastInsertId()
	logging.StoreDebug("todo added id=%d content=%q", id, content)
	return Todo{ID: id, CreatedAt: now, Content: content}
}

func (s *LocalStore) SetTodoDone(id int64, done bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE todos SET done = ? WHERE id = ?", boolToInt(done), id)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to update todo %d: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *LocalStore) RemoveTodo(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to delete todo %d: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// --- MailBackend --------------------------------------------------------

func (s *LocalStore) Emails() []Email {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, created_at, sender, subject, snippet, read FROM mail ORDER BY id")
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to query mail: %v", err)
		return nil
	}
	defer rows.Close()

	var out []Email
	for rows.Next() {
		var e Email
		var created string
		var read int
		if err := rows.Scan(&e.ID, &created, &e.Sender, &e.Subject, &e.Snippet, &read); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to scan mail row: %v", err)
			continue
		}
		e.CreatedAt = parseSQLiteTime(created)
		e.Read = read != 0
		out = append(out, e)
	}
	return out
}

// AddEmail inserts a mailbox entry. Used by seeding and tests.
func (s *LocalStore) AddEmail(sender, subject, snippet string) Email {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec("INSERT INTO mail (created_at, sender, subject, snippet, read) VALUES (?, ?, ?, ?, 0)",
		now.UTC().Format(sqliteTimeLayout), sender, subject, snippet)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to insert email: %v", err)
		return Email{Sender: sender, Subject: subject, Snippet: snippet, CreatedAt: now}
	}
	id, _ := res.LastInsertId()
	return Email{ID: id, CreatedAt: now, Sender: sender, Subject: subject, Snippet: snippet}
}

func (s *LocalStore) MarkEmailRead(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE mail SET read = 1 WHERE id = ?", id)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to mark email %d read: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *LocalStore) RemoveEmail(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM mail WHERE id = ?", id)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to delete email %d: %v", id, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

const sqliteTimeLayout = "2006-01-02 15:04:05"

func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
