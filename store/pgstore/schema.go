package pgstore

import (
	"context"
	"fmt"
)

// The document columns hold the full JSON record; the typed columns exist
// for filtering and ordering.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         uuid PRIMARY KEY,
		seq        bigserial NOT NULL,
		title      text NOT NULL,
		gender     text NOT NULL,
		categories text[] NOT NULL DEFAULT '{}',
		created_at timestamptz NOT NULL,
		doc        jsonb NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS products_listing_idx ON products (created_at DESC, seq DESC)`,
	`CREATE INDEX IF NOT EXISTS products_gender_idx ON products (gender)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           uuid PRIMARY KEY,
		name         text NOT NULL,
		email        text NOT NULL UNIQUE,
		password     text NOT NULL,
		role         text NOT NULL,
		verified     boolean NOT NULL DEFAULT false,
		verify_token text,
		created_at   timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS users_verify_token_idx ON users (verify_token) WHERE verify_token IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           uuid PRIMARY KEY,
		order_number text NOT NULL,
		product_id   text NOT NULL,
		order_date   timestamptz NOT NULL,
		doc          jsonb NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_number_idx ON orders (order_number)`,
}

// Migrate creates the tables and indexes when missing.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
