package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

const (
	getSettingsQuery    = `SELECT whatsapp_number, email, social_media, seo, updated_at FROM settings WHERE id = 1`
	upsertSettingsQuery = `
		INSERT INTO settings (id, whatsapp_number, email, social_media, seo, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET whatsapp_number = EXCLUDED.whatsapp_number,
			email = EXCLUDED.email,
			social_media = EXCLUDED.social_media,
			seo = EXCLUDED.seo,
			updated_at = EXCLUDED.updated_at
	`
	timeout = 5 * time.Second
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context) (Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		s           Settings
		social, seo []byte
	)
	err := r.db.QueryRowContext(ctx, getSettingsQuery).Scan(&s.WhatsappNumber, &s.Email, &social, &seo, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if len(social) > 0 {
		if err := json.Unmarshal(social, &s.SocialMedia); err != nil {
			return Settings{}, fmt.Errorf("decode social_media: %w", err)
		}
	}
	if len(seo) > 0 {
		if err := json.Unmarshal(seo, &s.SEO); err != nil {
			return Settings{}, fmt.Errorf("decode seo: %w", err)
		}
	}
	return s, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s Settings) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	social, err := json.Marshal(s.SocialMedia)
	if err != nil {
		return fmt.Errorf("encode social_media: %w", err)
	}
	seo, err := json.Marshal(s.SEO)
	if err != nil {
		return fmt.Errorf("encode seo: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertSettingsQuery, s.WhatsappNumber, s.Email, social, seo, s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
