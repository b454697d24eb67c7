// Package storage persists crawled sections in Postgres.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/go-scripts/docgen/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS doc_sections (
	run_id      TEXT        NOT NULL,
	name        TEXT        NOT NULL,
	url         TEXT        NOT NULL,
	description TEXT        NOT NULL DEFAULT '',
	payload     JSONB       NOT NULL,
	crawled_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, name)
);

CREATE TABLE IF NOT EXISTS doc_endpoints (
	run_id      TEXT    NOT NULL,
	section     TEXT    NOT NULL,
	method      TEXT    NOT NULL,
	path        TEXT    NOT NULL,
	full_url    TEXT    NOT NULL,
	sort_order  INTEGER NOT NULL,
	FOREIGN KEY (run_id, section) REFERENCES doc_sections (run_id, name) ON DELETE CASCADE
);
`

const upsertSection = `
INSERT INTO doc_sections (run_id, name, url, description, payload, crawled_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id, name)
DO UPDATE SET url = EXCLUDED.url, description = EXCLUDED.description,
	payload = EXCLUDED.payload, crawled_at = EXCLUDED.crawled_at
`

const insertEndpoint = `
INSERT INTO doc_endpoints (run_id, section, method, path, full_url, sort_order)
VALUES ($1, $2, $3, $4, $5, $6)
`

// DB is a pgx connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to the database at connString
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the section and endpoint tables if they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveSection upserts s and replaces its endpoints in one transaction
func (db *DB) SaveSection(ctx context.Context, runID string, s types.Section) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode section %q: %w", s.Name, err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertSection, runID, s.Name, s.URL, s.Description, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to save section %q: %w", s.Name, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM doc_endpoints WHERE run_id = $1 AND section = $2`, runID, s.Name); err != nil {
		return fmt.Errorf("failed to delete old endpoints: %w", err)
	}

	batch := &pgx.Batch{}
	for i, ep := range s.Endpoints {
		batch.Queue(insertEndpoint, runID, s.Name, ep.Method, ep.Path, ep.FullURL, i)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save endpoints of %q: %w", s.Name, err)
		}
	}
	return tx.Commit(ctx)
}

// Close releases the pool
func (db *DB) Close() {
	db.Pool.Close()
}
