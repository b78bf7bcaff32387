package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hyperengineering/folio/internal/content"
	"github.com/hyperengineering/folio/internal/types"
)

// MemoryDSN opens a private in-memory index.
const MemoryDSN = ":memory:"

// SQLiteStore is the SQLite-backed content index.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It applies pragmas and runs migrations. An in-memory database is pinned to
// a single connection so every query sees the same data.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	memory := dsn == "" || dsn == MemoryDSN
	if memory {
		dsn = MemoryDSN
	} else if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := enablePragmas(db, memory); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Replace swaps the indexed entries for those of a new load in one
// transaction. Readers see either the old or the new index, never a mix.
func (s *SQLiteStore) Replace(ctx context.Context, load Load, entries []types.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loads (id, loaded_at, entry_count, failure_count)
		VALUES (?, ?, ?, ?)
	`, load.ID, load.LoadedAt.UTC().Format(time.RFC3339Nano), len(entries), load.Failures)
	if err != nil {
		return fmt.Errorf("record load: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (collection, slug, path, data, body, tags, featured, draft, sort_order, sort_date, load_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		c, ok := content.Lookup(e.Collection)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCollection, e.Collection)
		}
		data, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", e.Collection, e.Slug, err)
		}
		tags := c.Tags(e.Data)
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("encode tags %s/%s: %w", e.Collection, e.Slug, err)
		}
		order, when := c.SortKey(e.Data)
		var sortOrder sql.NullFloat64
		if order != nil {
			sortOrder = sql.NullFloat64{Float64: *order, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			e.Collection, e.Slug, e.Path, string(data), e.Body, string(tagsJSON),
			content.Featured(e.Data), content.Draft(e.Data),
			sortOrder, when.UnixMilli(), load.ID,
		)
		if err != nil {
			return fmt.Errorf("insert %s/%s: %w", e.Collection, e.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const entryColumns = "collection, slug, path, data, body"

// List returns a collection's entries in the collection's natural order:
// explicit order ascending with unset values last, then newest first.
func (s *SQLiteStore) List(ctx context.Context, collection string, opts ListOptions) ([]types.Entry, error) {
	c, ok := content.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	var (
		where = []string{"collection = ?"}
		args  = []any{collection}
	)
	if !opts.IncludeDrafts {
		where = append(where, "draft = 0")
	}
	if opts.FeaturedOnly {
		where = append(where, "featured = 1")
	}
	if opts.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(entries.tags) WHERE json_each.value = ?)")
		args = append(args, opts.Tag)
	}

	query := "SELECT " + entryColumns + " FROM entries WHERE " + strings.Join(where, " AND ") +
		" ORDER BY sort_order IS NULL, sort_order ASC, sort_date DESC, slug ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows, c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return entries, nil
}

// Get returns one entry by collection and slug.
func (s *SQLiteStore) Get(ctx context.Context, collection, slug string) (*types.Entry, error) {
	c, ok := content.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE collection = ? AND slug = ?",
		collection, slug,
	)
	e, err := scanEntry(row, c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Count returns the number of entries in a collection, drafts included.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE collection = ?", collection).Scan(&count)
	return count, err
}

// Stats returns per-collection counts and the current load.
func (s *SQLiteStore) Stats(ctx context.Context) (*types.IndexStats, error) {
	stats := &types.IndexStats{Collections: make(map[string]int64)}
	for _, name := range content.Names() {
		stats.Collections[name] = 0
	}

	rows, err := s.db.QueryContext(ctx, "SELECT collection, COUNT(*) FROM entries GROUP BY collection")
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		stats.Collections[name] = n
		stats.TotalCount += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var id, loadedAt string
	err = s.db.QueryRowContext(ctx, "SELECT id, loaded_at FROM loads ORDER BY rowid DESC LIMIT 1").Scan(&id, &loadedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("last load: %w", err)
	default:
		stats.LastLoadID = id
		if t, err := time.Parse(time.RFC3339Nano, loadedAt); err == nil {
			stats.LastLoadAt = &t
		}
	}
	return stats, nil
}

// scanEntry scans a row and revalidates its data so values regain their
// normalised Go types (dates as time.Time).
func scanEntry(scanner interface{ Scan(...any) error }, c content.Collection) (*types.Entry, error) {
	var e types.Entry
	var data string
	if err := scanner.Scan(&e.Collection, &e.Slug, &e.Path, &data, &e.Body); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("parse data of %s/%s: %w", e.Collection, e.Slug, err)
	}
	rec, err := c.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", e.Collection, e.Slug, err)
	}
	e.Data = rec
	return &e, nil
}
