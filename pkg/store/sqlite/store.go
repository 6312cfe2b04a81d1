// Package sqlite stores site documents in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/goliatone/go-sections/pkg/section"
	"github.com/goliatone/go-sections/pkg/store"
	"github.com/goliatone/go-sections/pkg/store/sqlite/migrations"
)

// Store is a store.Store backed by SQLite. Every Put also appends to a
// revision history.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Revision is one saved version of a document.
type Revision struct {
	Revision int
	SavedAt  time.Time
	Sections int
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite: creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, siteID, variant string) (section.SiteConfig, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE site_id = ? AND variant = ?",
		siteID, variant,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return section.SiteConfig{}, store.ErrNotFound
	}
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: querying document: %w", err)
	}
	cfg, err := section.Decode([]byte(body))
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: decoding document %s/%s: %w", siteID, variant, err)
	}
	return cfg, nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, siteID, variant string, cfg section.SiteConfig) (section.SiteConfig, error) {
	normalized := section.Normalize(cfg)
	body, err := json.Marshal(normalized)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: marshalling document: %w", err)
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	var revision int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO documents (site_id, variant, body, revision, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (site_id, variant) DO UPDATE SET
			body = excluded.body,
			revision = documents.revision + 1,
			updated_at = excluded.updated_at
		RETURNING revision
	`, siteID, variant, string(body), now).Scan(&revision)
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document_history (site_id, variant, revision, body, saved_at)
		VALUES (?, ?, ?, ?, ?)
	`, siteID, variant, revision, string(body), now); err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: recording history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: commit: %w", err)
	}
	return section.Decode(body)
}

// Sites implements store.Store.
func (s *Store) Sites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT site_id FROM documents ORDER BY site_id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing sites: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning site: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// History lists saved revisions of a document, newest first.
func (s *Store) History(ctx context.Context, siteID, variant string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT revision, saved_at, body FROM document_history
		WHERE site_id = ? AND variant = ?
		ORDER BY revision DESC
	`, siteID, variant)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing history: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev     Revision
			savedAt string
			body    string
		)
		if err := rows.Scan(&rev.Revision, &savedAt, &body); err != nil {
			return nil, fmt.Errorf("sqlite: scanning history: %w", err)
		}
		rev.SavedAt = parseTime(savedAt)
		var wire struct {
			Sections []json.RawMessage `json:"sections"`
		}
		if err := json.Unmarshal([]byte(body), &wire); err == nil {
			rev.Sections = len(wire.Sections)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Revision loads one historic version of a document.
func (s *Store) Revision(ctx context.Context, siteID, variant string, revision int) (section.SiteConfig, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM document_history
		WHERE site_id = ? AND variant = ? AND revision = ?
	`, siteID, variant, revision).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return section.SiteConfig{}, store.ErrNotFound
	}
	if err != nil {
		return section.SiteConfig{}, fmt.Errorf("sqlite: querying revision: %w", err)
	}
	return section.Decode([]byte(body))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func parseTime(raw string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
