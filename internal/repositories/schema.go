package repositories

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id       BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		name     TEXT   NOT NULL,
		UNIQUE (owner_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		owner_id    BIGINT NOT NULL,
		category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		name        TEXT   NOT NULL,
		quantity    DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit        TEXT   NOT NULL DEFAULT 'pcs',
		threshold   DOUBLE PRECISION NOT NULL DEFAULT 1 CHECK (threshold >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_owner ON products (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
}

// Migrate applies the schema. Every statement is idempotent, so running it
// on each startup is safe.
func Migrate(ctx context.Context, db Database) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
