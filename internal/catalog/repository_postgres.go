package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/wichananm65/gift-store-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

const (
	itemColumns = `id, title, description, background_color, text_color, button_color, product_ids, slug, image, is_active, created_at, updated_at`

	listItemsQuery = `SELECT ` + itemColumns + ` FROM catalog_items WHERE is_active ORDER BY created_at DESC, id DESC`
	getItemQuery   = `SELECT ` + itemColumns + ` FROM catalog_items WHERE id = $1`
	insertItemQuery = `
		INSERT INTO catalog_items (id, title, description, background_color, text_color, button_color, product_ids, slug, image, is_active, created_at, updated_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM catalog_items), $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`
	updateItemQuery = `
		UPDATE catalog_items
		SET title = $1, description = $2, background_color = $3, text_color = $4, button_color = $5,
			product_ids = $6, slug = $7, image = $8, is_active = $9, updated_at = $10
		WHERE id = $11
	`
	softDeleteItemQuery = `UPDATE catalog_items SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`
	itemSlugExistsQuery = `SELECT EXISTS (SELECT 1 FROM catalog_items WHERE slug = $1 AND id <> $2)`
)

const (
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listItemsQuery)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	it, err := scanItem(r.db.QueryRowContext(ctx, getItemQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("get catalog item %d: %w", id, err)
	}
	return it, nil
}

func (r *PostgresRepository) Create(ctx context.Context, it Item) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := r.db.QueryRowContext(ctx, insertItemQuery,
			it.Title, it.Description, it.BackgroundColor, it.TextColor, it.ButtonColor,
			pq.Array(toInt64s(it.ProductIDs)), it.Slug, it.Image, it.IsActive, it.CreatedAt, it.UpdatedAt,
		).Scan(&it.ID)
		switch {
		case err == nil:
			return it, nil
		case !database.IsUniqueViolation(err):
			return Item{}, fmt.Errorf("insert catalog item: %w", err)
		case attempt == database.CreateAttempts:
			return Item{}, fmt.Errorf("insert catalog item: %w", ErrIDConflict)
		}
	}
}

func (r *PostgresRepository) Update(ctx context.Context, it Item) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, updateItemQuery,
		it.Title, it.Description, it.BackgroundColor, it.TextColor, it.ButtonColor,
		pq.Array(toInt64s(it.ProductIDs)), it.Slug, it.Image, it.IsActive, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return Item{}, fmt.Errorf("update catalog item %d: %w", it.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, softDeleteItemQuery, id, deletedAt)
	if err != nil {
		return fmt.Errorf("delete catalog item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, itemSlugExistsQuery, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check catalog slug: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		it  Item
		ids pq.Int64Array
	)
	err := row.Scan(
		&it.ID, &it.Title, &it.Description, &it.BackgroundColor, &it.TextColor, &it.ButtonColor,
		&ids, &it.Slug, &it.Image, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	it.ProductIDs = make([]int, 0, len(ids))
	for _, id := range ids {
		it.ProductIDs = append(it.ProductIDs, int(id))
	}
	return it, err
}

// pq only maps []int64 onto INT[] columns.
func toInt64s(ids []int) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}
