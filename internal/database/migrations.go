package database

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		category TEXT NOT NULL DEFAULT '',
		images TEXT[] NOT NULL DEFAULT '{}',
		main_image TEXT NOT NULL DEFAULT '',
		slug TEXT NOT NULL,
		show_on_home BOOLEAN NOT NULL DEFAULT FALSE,
		personalization TEXT NOT NULL DEFAULT '',
		production_time TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_active_created ON products (is_active, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		id INT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		background_color TEXT NOT NULL DEFAULT '',
		text_color TEXT NOT NULL DEFAULT '',
		button_color TEXT NOT NULL DEFAULT '',
		product_ids INT[] NOT NULL DEFAULT '{}',
		slug TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_items_active_created ON catalog_items (is_active, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		whatsapp_number TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		social_media JSONB NOT NULL DEFAULT '{}',
		seo JSONB NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the relational schema. Every statement is idempotent so it
// runs on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
