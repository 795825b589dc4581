// Package queue persists per-item pipeline state in a SQLite ledger.
//
// The ledger records outcomes only; the decoded-artifact marker on disk is
// what makes a re-run skip work. Losing the database therefore never loses
// recovered data.
package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"reclaim/internal/fileutil"
)

// ErrNotFound is returned when an item hash has no ledger row.
var ErrNotFound = errors.New("queue item not found")

// Store wraps the SQLite ledger.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the ledger at dbPath and applies the
// schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := fileutil.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the ledger file location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_info LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_info (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version > schemaVersion:
		return fmt.Errorf("ledger schema version %d is newer than supported %d", version, schemaVersion)
	}
	return nil
}

// Upsert inserts or refreshes the row for item.Hash and returns the stored
// item. An existing row keeps its status and final name; paths and session id
// are refreshed.
func (s *Store) Upsert(ctx context.Context, item Item) (*Item, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO items (hash, container_path, work_dir, blob_path, blob_size, status, session_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
    container_path = excluded.container_path,
    work_dir = excluded.work_dir,
    session_id = excluded.session_id,
    updated_at = excluded.updated_at`,
		item.Hash, item.ContainerPath, item.WorkDir, item.BlobPath, item.BlobSize,
		string(StatusPending), item.SessionID, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert item %s: %w", item.Hash, err)
	}
	return s.GetByHash(ctx, item.Hash)
}

// SetStatus moves the item to status and clears any previous error message.
func (s *Store) SetStatus(ctx context.Context, hash string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return s.update(ctx, hash,
		"UPDATE items SET status = ?, error_message = '', updated_at = ? WHERE hash = ?",
		string(status), nowStamp(), hash)
}

// SetDecoded records the decoded blob for the item and marks it decoded.
func (s *Store) SetDecoded(ctx context.Context, hash, blobPath string, blobSize int64) error {
	return s.update(ctx, hash,
		"UPDATE items SET status = ?, blob_path = ?, blob_size = ?, error_message = '', updated_at = ? WHERE hash = ?",
		string(StatusDecoded), blobPath, blobSize, nowStamp(), hash)
}

// MarkFailed records a failure message and moves the item to failed.
func (s *Store) MarkFailed(ctx context.Context, hash, message string) error {
	return s.update(ctx, hash,
		"UPDATE items SET status = ?, error_message = ?, updated_at = ? WHERE hash = ?",
		string(StatusFailed), message, nowStamp(), hash)
}

// MarkCommitted records the final recovered name and moves the item to
// committed.
func (s *Store) MarkCommitted(ctx context.Context, hash, finalName string) error {
	return s.update(ctx, hash,
		"UPDATE items SET status = ?, final_name = ?, error_message = '', updated_at = ? WHERE hash = ?",
		string(StatusCommitted), finalName, nowStamp(), hash)
}

func (s *Store) update(ctx context.Context, hash, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item %s: %w", hash, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item %s: %w", hash, err)
	}
	if affected == 0 {
		return fmt.Errorf("update item %s: %w", hash, ErrNotFound)
	}
	return nil
}

// GetByHash returns the item identified by hash.
func (s *Store) GetByHash(ctx context.Context, hash string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE hash = ?", hash)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", hash, err)
	}
	return item, nil
}

// List returns all items ordered by hash. When statuses are given, only items
// in one of those statuses are returned.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += " WHERE status IN (?" + repeatPlaceholders(len(statuses)-1) + ")"
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += " ORDER BY hash"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountsByStatus returns how many items sit in each status.
func (s *Store) CountsByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM items GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

const selectColumns = `SELECT id, hash, container_path, work_dir, blob_path, blob_size, status, final_name, error_message, session_id, created_at, updated_at FROM items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var status, createdAt, updatedAt string
	if err := row.Scan(&item.ID, &item.Hash, &item.ContainerPath, &item.WorkDir,
		&item.BlobPath, &item.BlobSize, &status, &item.FinalName,
		&item.ErrorMessage, &item.SessionID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.Status = Status(status)
	item.CreatedAt = parseStamp(createdAt)
	item.UpdatedAt = parseStamp(updatedAt)
	return &item, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseStamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func repeatPlaceholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}
