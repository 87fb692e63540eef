package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Row represents a row in the records table.
type Row struct {
	Key       int
	Category  string
	Body      string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Key      int
	Category string
	Snippet  string
}

// sourceChecksumKey is the meta key holding the checksum of the records file
// the index was last synced from.
const sourceChecksumKey = "source_checksum"

// UpsertRecord inserts or replaces a record row and its FTS entry within a
// transaction.
func (db *DB) UpsertRecord(r Row) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO records (key, category, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			category   = excluded.category,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, r.Key, r.Category, r.Body, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, r.Key, r.Category, r.Body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteRecord removes a record row and its FTS entry.
func (db *DB) DeleteRecord(key int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, key)
	_, _ = tx.Exec(`DELETE FROM records WHERE key = ?`, key)

	return tx.Commit()
}

// GetRecord returns the indexed row for key, or nil when the key is not
// indexed.
func (db *DB) GetRecord(key int) (*Row, error) {
	var r Row
	err := db.conn.QueryRow(`
		SELECT key, category, body, updated_at FROM records WHERE key = ?
	`, key).Scan(&r.Key, &r.Category, &r.Body, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get record: %w", err)
	}
	return &r, nil
}

// AllKeys returns every indexed record key.
func (db *DB) AllKeys() (map[int]struct{}, error) {
	rows, err := db.conn.Query(`SELECT key FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all keys: %w", err)
	}
	defer rows.Close()
	out := make(map[int]struct{})
	for rows.Next() {
		var k int
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out[k] = struct{}{}
	}
	return out, rows.Err()
}

// SourceChecksum returns the checksum of the records file the index was last
// synced from, or empty string when the index has never been synced.
func (db *DB) SourceChecksum() (string, error) {
	var sum string
	err := db.conn.QueryRow(`SELECT v FROM meta WHERE k = ?`, sourceChecksumKey).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: source checksum: %w", err)
	}
	return sum, nil
}

// SetSourceChecksum stores the checksum of the records file backing the index.
func (db *DB) SetSourceChecksum(sum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO meta (k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v
	`, sourceChecksumKey, sum)
	if err != nil {
		return fmt.Errorf("index: set source checksum: %w", err)
	}
	return nil
}
