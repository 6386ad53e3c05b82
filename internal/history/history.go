// Package history persists captured clipboard text in a local SQLite
// database so pastes survive daemon restarts and bubble expiry. Rows can be
// sealed at rest with the user's passphrase-derived key; search then decrypts
// row by row, which is fine at the default cap of 100 entries.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kexlie/bobble/internal/secret"
)

// Defaults recovered from the app's settings surface.
const (
	DefaultMaxEntries = 100
	DefaultMaxAge     = 24 * time.Hour
)

// currentSchemaVersion is the latest schema version. Bump when adding
// migrations.
const currentSchemaVersion = 1

// Entry is one stored capture, decrypted.
type Entry struct {
	ID          int64
	Text        string
	ContentType string
	CreatedAt   time.Time
}

// Store is the clipboard history database.
type Store struct {
	db  *sql.DB
	key *[secret.KeySize]byte // nil = plaintext rows
}

// Open initializes the database at baseDir/history.db. A non-nil key seals
// row contents at rest. The baseDir parameter lets tests use t.TempDir().
func Open(baseDir string, key *[secret.KeySize]byte) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "history.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	// Clipboard contents are sensitive regardless of encryption.
	_ = os.Chmod(dbPath, 0o600)

	return &Store{db: db, key: key}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Encrypted reports whether rows are sealed at rest.
func (s *Store) Encrypted() bool { return s.key != nil }

// Add stores one capture and returns its row id.
func (s *Store) Add(text, contentType string, at time.Time) (int64, error) {
	content := []byte(text)
	sealed := 0
	if s.key != nil {
		var err error
		content, err = secret.Seal(content, s.key)
		if err != nil {
			return 0, fmt.Errorf("seal entry: %w", err)
		}
		sealed = 1
	}

	res, err := s.db.Exec(
		`INSERT INTO entries (content, content_type, sealed, created_at) VALUES (?, ?, ?, ?)`,
		content, contentType, sealed, at.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// List returns the newest entries, most recent first, up to limit.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	rows, err := s.db.Query(
		`SELECT id, content, content_type, sealed, created_at
		 FROM entries ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	return s.scanEntries(rows)
}

// Search returns the newest entries whose text contains q, case-insensitive.
// Matching happens after decryption, so it works for sealed rows too.
func (s *Store) Search(q string, limit int) ([]Entry, error) {
	all, err := s.List(DefaultMaxEntries)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	needle := strings.ToLower(q)
	var out []Entry
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Text), needle) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Delete removes one entry by id.
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Trim deletes the oldest entries beyond max, keeping the newest.
func (s *Store) Trim(max int) (int64, error) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	res, err := s.db.Exec(
		`DELETE FROM entries WHERE id NOT IN (
		   SELECT id FROM entries ORDER BY created_at DESC, id DESC LIMIT ?
		 )`, max)
	if err != nil {
		return 0, fmt.Errorf("trim entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Purge deletes entries created before cutoff.
func (s *Store) Purge(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM entries WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Store) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			content []byte
			sealed  int
			created int64
		)
		if err := rows.Scan(&e.ID, &content, &e.ContentType, &sealed, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if sealed == 1 {
			if s.key == nil {
				return nil, fmt.Errorf("entry %d is sealed but no key is configured", e.ID)
			}
			plain, err := secret.Open(content, s.key)
			if err != nil {
				return nil, fmt.Errorf("unseal entry %d: %w", e.ID, err)
			}
			content = plain
		}
		e.Text = string(content)
		e.CreatedAt = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS entries (
		  id           INTEGER PRIMARY KEY AUTOINCREMENT,
		  content      BLOB NOT NULL,
		  content_type TEXT NOT NULL DEFAULT '',
		  sealed       INTEGER NOT NULL DEFAULT 0,
		  created_at   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("apply schema v1: %w", err)
		}
	}

	if version != currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, currentSchemaVersion)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	return nil
}
