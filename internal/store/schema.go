package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Init creates the service's tables when they do not exist yet. Run once at
// startup, before the HTTP server accepts traffic.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id       TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			listing_id TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			location   TEXT NOT NULL DEFAULT '',
			url        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS keywords (
			listing_id TEXT NOT NULL REFERENCES listings (listing_id),
			keyword    TEXT NOT NULL,
			PRIMARY KEY (listing_id, keyword)
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			user_id    TEXT NOT NULL REFERENCES users (user_id),
			listing_id TEXT NOT NULL REFERENCES listings (listing_id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, listing_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords (keyword)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema init: %w", err)
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
