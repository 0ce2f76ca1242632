// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vitrine-dev/vitrine/internal/store"
)

// Compile-time interface check.
var _ store.CatalogStore = (*CatalogStore)(nil)

// CatalogStore implements store.CatalogStore backed by SQLite.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore opens (or creates) a SQLite database at dbPath and
// initialises the products table.
func NewCatalogStore(dbPath string) (*CatalogStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrateCatalog(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating catalog db: %w", err)
	}

	return &CatalogStore{db: db}, nil
}

func migrateCatalog(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS products (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	price_cents INTEGER NOT NULL DEFAULT 0,
	currency    TEXT NOT NULL DEFAULT 'USD',
	image_url   TEXT NOT NULL DEFAULT '',
	video_url   TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 1,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`
	_, err := db.Exec(ddl)
	return err
}

const productColumns = `id, title, description, category, price_cents, currency, image_url, video_url, active, created_at, updated_at`

// Put inserts or replaces a product record.
func (c *CatalogStore) Put(ctx context.Context, p *store.Product) error {
	if p.ID == "" {
		return fmt.Errorf("putting product: empty id: %w", store.ErrInvalidInput)
	}

	now := time.Now().UTC()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	const q = `INSERT INTO products (` + productColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	description = excluded.description,
	category = excluded.category,
	price_cents = excluded.price_cents,
	currency = excluded.currency,
	image_url = excluded.image_url,
	video_url = excluded.video_url,
	active = excluded.active,
	updated_at = excluded.updated_at`

	_, err := c.db.ExecContext(ctx, q,
		p.ID,
		p.Title,
		p.Description,
		p.Category,
		p.PriceCents,
		p.Currency,
		p.ImageURL,
		p.VideoURL,
		boolToInt(p.Active),
		formatTime(createdAt),
		formatTime(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("putting product %s: %w", p.ID, err)
	}
	return nil
}

// Get returns a single product by id.
func (c *CatalogStore) Get(ctx context.Context, id string) (*store.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	row := c.db.QueryRowContext(ctx, q, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}
	return p, nil
}

// GetByIDs resolves products in a single query. Missing ids are omitted and
// the result order is whatever the database returns.
func (c *CatalogStore) GetByIDs(ctx context.Context, ids []string) ([]*store.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	q := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + placeholders + `)`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*store.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

// List returns products ordered by creation time, newest first.
func (c *CatalogStore) List(ctx context.Context, opts store.ListOpts) ([]*store.Product, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	const q = `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := c.db.QueryContext(ctx, q, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*store.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

// Delete removes a product by id. Deleting a missing product is not an error.
func (c *CatalogStore) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return nil
}

// Count returns the number of catalog records.
func (c *CatalogStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (c *CatalogStore) Close() error {
	return c.db.Close()
}

// scanner abstracts *sql.Row and *sql.Rows for scanProduct.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*store.Product, error) {
	var p store.Product
	var active int
	var createdAt, updatedAt string

	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Category,
		&p.PriceCents,
		&p.Currency,
		&p.ImageURL,
		&p.VideoURL,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Active = active != 0
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTime serialises a time for storage as text.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
