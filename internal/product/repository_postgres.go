package product

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
	productColumns = `id, name, description, price, category, images, main_image, slug, show_on_home, personalization, production_time, is_active, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY created_at DESC, id DESC
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO products (id, name, description, price, category, images, main_image, slug, show_on_home, personalization, production_time, is_active, created_at, updated_at)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM products), $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			category = $4,
			images = $5,
			main_image = $6,
			slug = $7,
			show_on_home = $8,
			personalization = $9,
			production_time = $10,
			is_active = $11,
			updated_at = $12
		WHERE id = $13
	`
	softDeleteProductQuery = `UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active`
	slugExistsQuery        = `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`
)

const (
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := r.db.QueryRowContext(ctx, insertProductQuery,
			p.Name, p.Description, p.Price, p.Category, pq.Array(nonNil(p.Images)), p.MainImage, p.Slug,
			p.ShowOnHome, p.Personalization, p.ProductionTime, p.IsActive, p.CreatedAt, p.UpdatedAt,
		).Scan(&p.ID)
		switch {
		case err == nil:
			return p, nil
		case !database.IsUniqueViolation(err):
			return Product{}, fmt.Errorf("insert product: %w", err)
		case attempt == database.CreateAttempts:
			return Product{}, fmt.Errorf("insert product: %w", ErrIDConflict)
		}
	}
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, updateProductQuery,
		p.Name, p.Description, p.Price, p.Category, pq.Array(nonNil(p.Images)), p.MainImage, p.Slug,
		p.ShowOnHome, p.Personalization, p.ProductionTime, p.IsActive, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int, deletedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, softDeleteProductQuery, id, deletedAt)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
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
	if err := r.db.QueryRowContext(ctx, slugExistsQuery, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, pq.Array(&p.Images), &p.MainImage, &p.Slug,
		&p.ShowOnHome, &p.Personalization, &p.ProductionTime, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
