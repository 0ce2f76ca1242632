// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vitrine-dev/vitrine/internal/store"
)

func init() {
	sqlite_vec.Auto()
}

// Compile-time interface check.
var _ store.VectorStore = (*VectorStore)(nil)

// searchOversample is how many extra candidates a KNN query requests per
// requested result. Type and self-exclusion filters run after the virtual
// table scan, so the raw scan must return more rows than the caller asked
// for or filtered-out neighbors would starve the result set.
const searchOversample = 4

// VectorStore implements store.VectorStore backed by SQLite with sqlite-vec.
type VectorStore struct {
	db         *sql.DB
	dimensions int
}

// NewVectorStore opens (or creates) a SQLite database at dbPath and
// initialises the vec0 virtual table and companion metadata table.
func NewVectorStore(dbPath string, dimensions int) (*VectorStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrateVector(db, dimensions); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating vector tables: %w", err)
	}

	return &VectorStore{db: db, dimensions: dimensions}, nil
}

func migrateVector(db *sql.DB, dimensions int) error {
	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS embeddings USING vec0(id TEXT PRIMARY KEY, embedding float[%d] distance_metric=cosine)`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating embeddings virtual table: %w", err)
	}

	const metaDDL = `
CREATE TABLE IF NOT EXISTS embedding_metadata (
	id         TEXT PRIMARY KEY,
	item_type  TEXT NOT NULL,
	item_id    TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_embedding_metadata_item ON embedding_metadata(item_type, item_id, created_at)`
	if _, err := db.Exec(metaDDL); err != nil {
		return fmt.Errorf("creating embedding_metadata table: %w", err)
	}

	return nil
}

// Store inserts or replaces an embedding record.
func (v *VectorStore) Store(ctx context.Context, rec *store.EmbeddingRecord) error {
	if rec.ID == "" || rec.Type == "" || rec.ItemID == "" {
		return fmt.Errorf("storing embedding: %w", store.ErrInvalidInput)
	}
	if len(rec.Vector) != v.dimensions {
		return fmt.Errorf("storing embedding %s: vector has %d dimensions, store expects %d: %w",
			rec.ID, len(rec.Vector), v.dimensions, store.ErrInvalidInput)
	}

	blob, err := sqlite_vec.SerializeFloat32(rec.Vector)
	if err != nil {
		return fmt.Errorf("serializing embedding: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// vec0 does not support ON CONFLICT; delete first for upsert.
	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings WHERE id = ?`, rec.ID); err != nil {
		return fmt.Errorf("deleting existing embedding %s: %w", rec.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO embeddings(id, embedding) VALUES (?, ?)`, rec.ID, blob); err != nil {
		return fmt.Errorf("inserting embedding %s: %w", rec.ID, err)
	}

	const metaQ = `INSERT INTO embedding_metadata(id, item_type, item_id, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET item_type = excluded.item_type, item_id = excluded.item_id, created_at = excluded.created_at`
	if _, err := tx.ExecContext(ctx, metaQ, rec.ID, rec.Type, rec.ItemID, formatTime(createdAt)); err != nil {
		return fmt.Errorf("upserting embedding metadata %s: %w", rec.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing embedding store: %w", err)
	}
	return nil
}

// Lookup returns the embedding record for (itemType, itemID). When more than
// one record exists for the pair, the most recently created one wins so
// callers see a deterministic pick instead of an error.
func (v *VectorStore) Lookup(ctx context.Context, itemType, itemID string) (*store.EmbeddingRecord, error) {
	const q = `SELECT m.id, m.created_at, e.embedding
FROM embedding_metadata m
JOIN embeddings e ON e.id = m.id
WHERE m.item_type = ? AND m.item_id = ?
ORDER BY m.created_at DESC, m.id DESC
LIMIT 1`

	var rec store.EmbeddingRecord
	var createdAt string
	var blob []byte

	err := v.db.QueryRowContext(ctx, q, itemType, itemID).Scan(&rec.ID, &createdAt, &blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("embedding for %s/%s: %w", itemType, itemID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up embedding %s/%s: %w", itemType, itemID, err)
	}

	rec.Type = itemType
	rec.ItemID = itemID
	rec.CreatedAt = parseTime(createdAt)

	rec.Vector, err = deserializeFloat32(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding embedding %s: %w", rec.ID, err)
	}

	return &rec, nil
}

// Search performs a k-nearest-neighbor search under cosine distance.
// Results are ordered by ascending distance and restricted by filter.
func (v *VectorStore) Search(ctx context.Context, query []float32, k int, filter store.SearchFilter) ([]store.VectorResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("searching embeddings: k must be positive, got %d: %w", k, store.ErrInvalidInput)
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("searching embeddings: query has %d dimensions, store expects %d: %w",
			len(query), v.dimensions, store.ErrInvalidInput)
	}

	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serializing query vector: %w", err)
	}

	// The KNN scan happens in the subquery; metadata filters apply after,
	// so the scan oversamples to keep k survivors likely. If the filters
	// still eat too many rows the scan widens until k survive or every
	// stored vector has been considered.
	fetch := k*searchOversample + 1
	for {
		results, err := v.searchScan(ctx, blob, fetch, k, filter)
		if err != nil {
			return nil, err
		}
		if len(results) >= k {
			return results, nil
		}

		total, err := v.Count(ctx)
		if err != nil {
			return nil, err
		}
		if int64(fetch) >= total {
			return results, nil
		}
		fetch *= 2
	}
}

func (v *VectorStore) searchScan(ctx context.Context, blob []byte, fetch, k int, filter store.SearchFilter) ([]store.VectorResult, error) {
	q := `SELECT e.id, e.distance, m.item_type, m.item_id
FROM (SELECT id, distance FROM embeddings WHERE embedding MATCH ? AND k = ?) e
JOIN embedding_metadata m ON m.id = e.id
WHERE 1=1`
	args := []any{blob, fetch}

	if filter.Type != "" {
		q += ` AND m.item_type = ?`
		args = append(args, filter.Type)
	}
	if filter.ExcludeItemID != "" {
		q += ` AND m.item_id != ?`
		args = append(args, filter.ExcludeItemID)
	}
	q += ` ORDER BY e.distance LIMIT ?`
	args = append(args, k)

	rows, err := v.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []store.VectorResult
	for rows.Next() {
		var r store.VectorResult
		if err := rows.Scan(&r.ID, &r.Distance, &r.Type, &r.ItemID); err != nil {
			return nil, fmt.Errorf("scanning embedding result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embedding results: %w", err)
	}

	return results, nil
}

// DeleteByItem removes all embedding records for (itemType, itemID).
func (v *VectorStore) DeleteByItem(ctx context.Context, itemType, itemID string) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const del = `DELETE FROM embeddings WHERE id IN
(SELECT id FROM embedding_metadata WHERE item_type = ? AND item_id = ?)`
	if _, err := tx.ExecContext(ctx, del, itemType, itemID); err != nil {
		return fmt.Errorf("deleting embeddings for %s/%s: %w", itemType, itemID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM embedding_metadata WHERE item_type = ? AND item_id = ?`, itemType, itemID); err != nil {
		return fmt.Errorf("deleting embedding metadata for %s/%s: %w", itemType, itemID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing embedding delete: %w", err)
	}
	return nil
}

// Count returns the number of stored embedding records.
func (v *VectorStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embedding_metadata`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (v *VectorStore) Close() error {
	return v.db.Close()
}

// deserializeFloat32 decodes the little-endian float32 blob format used by
// sqlite-vec for float columns.
func deserializeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}

	out := make([]float32, len(blob)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}
