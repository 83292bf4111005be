// Package store provides the SQLite-backed document cache.
//
// The cache is a single `documents` table seeded from a directory of
// front-matter markdown files: parse once, query many times, re-seed on
// demand. Seeding is always a full wipe-then-insert inside one transaction,
// so readers see either the previous complete row set or the new one, never
// a mix.
//
// Freshness policy:
//   - Open always runs a full seed after ensuring the schema, so a cold
//     start re-parses every source file regardless of what was persisted.
//   - Every query first runs the freshness guard, which re-seeds only when
//     the table is empty. Source edits after a seed are NOT picked up until
//     the table is emptied or a reseed is requested.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/docdex/docdex/internal/content"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrDocumentNotFound indicates the requested slug is not in the cache.
var ErrDocumentNotFound = errors.New("document not found")

// Store wraps the SQLite connection together with the source directory the
// cache is seeded from. It is constructed by the composition root and must
// be closed by the caller; there is no package-level singleton.
type Store struct {
	conn    *sql.DB
	path    string
	docsDir string
}

// DefaultPath returns the cache file location for a docs directory: a
// sibling "data" directory next to the docs directory, file named for the
// domain.
func DefaultPath(docsDir string) string {
	return filepath.Join(filepath.Dir(docsDir), "data", "docdex.db")
}

// Open creates the document cache at path, seeded from docsDir.
//
// The parent directory is created if needed and the database is opened in
// WAL mode. After the schema is ensured, a full seed runs unconditionally —
// the first access in a process always re-parses the source documents.
//
// The caller MUST call Close() when done.
func Open(path, docsDir string) (*Store, error) {
	return OpenContext(context.Background(), path, docsDir)
}

// OpenContext creates the document cache with context support.
func OpenContext(ctx context.Context, path, docsDir string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{
		conn:    conn,
		path:    path,
		docsDir: docsDir,
	}

	// Enable WAL mode for concurrent reads during a seed
	if _, err := s.conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := s.conn.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := s.initSchema(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	// Cold-start policy: the very first access always re-parses the
	// source directory, regardless of previously persisted rows.
	if err := s.SeedContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

// RawDB returns the underlying sql.DB connection.
// This is useful for integrating with other libraries that expect *sql.DB.
func (s *Store) RawDB() *sql.DB {
	return s.conn
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// DocsDir returns the source directory the cache is seeded from.
func (s *Store) DocsDir() string {
	return s.docsDir
}

// Close closes the database connection.
// Performs a WAL checkpoint to ensure all changes are persisted.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.conn = nil
	return nil
}

// initSchema creates the documents table if it doesn't exist. Idempotent.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		slug           TEXT PRIMARY KEY,
		id             TEXT NOT NULL DEFAULT '',
		title          TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		date           TEXT NOT NULL DEFAULT '',
		category       TEXT NOT NULL DEFAULT '',
		category_label TEXT NOT NULL DEFAULT '',
		points         TEXT NOT NULL DEFAULT '[]',  -- JSON array
		contacts       TEXT NOT NULL DEFAULT '[]',  -- JSON array
		tables         TEXT NOT NULL DEFAULT '[]',  -- JSON, arbitrary structure
		content        TEXT NOT NULL DEFAULT '',
		sort           INTEGER NOT NULL DEFAULT 0
	);

	-- Listing order: sort key descending, slug descending as tiebreak
	CREATE INDEX IF NOT EXISTS idx_documents_sort ON documents(sort DESC, slug DESC);
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Seed wipes and repopulates the cache from the source directory.
func (s *Store) Seed() error {
	return s.SeedContext(context.Background())
}

// SeedContext wipes and repopulates the cache with context support.
//
// The whole pass is one transaction: delete every row, then insert every
// parsed document. On failure nothing changes. Insertion uses
// INSERT OR REPLACE keyed on slug, so re-running the pass is idempotent.
func (s *Store) SeedContext(ctx context.Context) error {
	docs, err := content.ReadDocuments(s.docsDir)
	if err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents (
			slug, id, title, description, date, category, category_label,
			points, contacts, tables, content, sort
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		_, err := stmt.ExecContext(ctx,
			doc.Slug,
			doc.ID,
			doc.Title,
			doc.Description,
			doc.Date,
			doc.Category,
			doc.CategoryLabel,
			encodeList(doc.Points),
			encodeList(doc.Contacts),
			encodeList(doc.Tables),
			doc.Content,
			doc.Sort,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	return nil
}

// EnsureSeeded re-seeds the cache if the documents table is empty.
//
// "Fresh" here means strictly non-empty: stored contents are never compared
// against the source directory.
func (s *Store) EnsureSeeded() error {
	return s.EnsureSeededContext(context.Background())
}

// EnsureSeededContext re-seeds an empty cache with context support.
func (s *Store) EnsureSeededContext(ctx context.Context) error {
	count, err := s.CountContext(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.SeedContext(ctx)
}

// Count returns the number of cached documents.
func (s *Store) Count() (int, error) {
	return s.CountContext(context.Background())
}

// CountContext returns the number of cached documents with context support.
func (s *Store) CountContext(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

const metaColumns = `slug, id, title, description, date, category, category_label,
	       points, contacts, tables, sort`

// Documents returns every cached document's metadata, ordered by sort key
// descending with slug descending as tiebreak. Bodies are excluded.
func (s *Store) Documents() ([]content.DocumentMeta, error) {
	return s.DocumentsContext(context.Background())
}

// DocumentsContext returns the ordered listing with context support.
func (s *Store) DocumentsContext(ctx context.Context) ([]content.DocumentMeta, error) {
	if err := s.EnsureSeededContext(ctx); err != nil {
		return nil, err
	}

	query := `
	SELECT ` + metaColumns + `
	FROM documents
	ORDER BY sort DESC, slug DESC
	`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var metas []content.DocumentMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return metas, nil
}

// DocumentBySlug retrieves a single document, body included.
// Returns ErrDocumentNotFound when no row matches.
func (s *Store) DocumentBySlug(slug string) (*content.Document, error) {
	return s.DocumentBySlugContext(context.Background(), slug)
}

// DocumentBySlugContext retrieves a single document with context support.
func (s *Store) DocumentBySlugContext(ctx context.Context, slug string) (*content.Document, error) {
	if err := s.EnsureSeededContext(ctx); err != nil {
		return nil, err
	}

	query := `
	SELECT ` + metaColumns + `, content
	FROM documents
	WHERE slug = ?
	`

	row := s.conn.QueryRowContext(ctx, query, slug)

	var doc content.Document
	var points, contacts, tables string
	err := row.Scan(
		&doc.Slug,
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.Date,
		&doc.Category,
		&doc.CategoryLabel,
		&points,
		&contacts,
		&tables,
		&doc.Sort,
		&doc.Content,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", slug, err)
	}

	doc.Points = decodeStringList(points)
	doc.Contacts = decodeStringList(contacts)
	doc.Tables = decodeValueList(tables)

	return &doc, nil
}

// Slugs returns every cached slug in store-native order.
func (s *Store) Slugs() ([]string, error) {
	return s.SlugsContext(context.Background())
}

// SlugsContext returns every cached slug with context support.
func (s *Store) SlugsContext(ctx context.Context) ([]string, error) {
	if err := s.EnsureSeededContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, "SELECT slug FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to list slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}

	return slugs, rows.Err()
}

// scanMeta scans one metadata row, decoding the serialized list columns.
func scanMeta(rows *sql.Rows) (content.DocumentMeta, error) {
	var meta content.DocumentMeta
	var points, contacts, tables string

	err := rows.Scan(
		&meta.Slug,
		&meta.ID,
		&meta.Title,
		&meta.Description,
		&meta.Date,
		&meta.Category,
		&meta.CategoryLabel,
		&points,
		&contacts,
		&tables,
		&meta.Sort,
	)
	if err != nil {
		return content.DocumentMeta{}, fmt.Errorf("failed to scan document: %w", err)
	}

	meta.Points = decodeStringList(points)
	meta.Contacts = decodeStringList(contacts)
	meta.Tables = decodeValueList(tables)

	return meta, nil
}
