package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// SiteConfigRepository stores the single site configuration row. The table's
// primary key only admits id = 1, so a second insert fails at the database.
type SiteConfigRepository struct {
	db *sqlx.DB
}

// NewSiteConfigRepository creates a new instance of SiteConfigRepository.
func NewSiteConfigRepository(db *sqlx.DB) *SiteConfigRepository {
	return &SiteConfigRepository{db: db}
}

// Get returns the stored configuration or sql.ErrNoRows.
func (r *SiteConfigRepository) Get(ctx context.Context) (*models.SiteConfig, error) {
	const query = `SELECT id, site_name, site_description, instagram_url, tiktok_url, whatsapp_number, email, phone, address, hero_title, hero_subtitle, main_profile_image, created_at, updated_at FROM site_config WHERE id = $1`
	var cfg models.SiteConfig
	if err := r.db.GetContext(ctx, &cfg, query, models.SiteConfigID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get site config: %w", err)
	}
	return &cfg, nil
}

// Create inserts the configuration. ErrDuplicate means one already exists.
func (r *SiteConfigRepository) Create(ctx context.Context, cfg *models.SiteConfig) error {
	now := time.Now().UTC()
	cfg.ID = models.SiteConfigID
	cfg.CreatedAt = &now
	cfg.UpdatedAt = &now
	const query = `INSERT INTO site_config (id, site_name, site_description, instagram_url, tiktok_url, whatsapp_number, email, phone, address, hero_title, hero_subtitle, main_profile_image, created_at, updated_at)
        VALUES (:id, :site_name, :site_description, :instagram_url, :tiktok_url, :whatsapp_number, :email, :phone, :address, :hero_title, :hero_subtitle, :main_profile_image, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create site config: %w", err)
	}
	return nil
}

// Update overwrites the configuration or returns sql.ErrNoRows when none exists.
func (r *SiteConfigRepository) Update(ctx context.Context, cfg *models.SiteConfig) error {
	now := time.Now().UTC()
	cfg.ID = models.SiteConfigID
	cfg.UpdatedAt = &now
	const query = `UPDATE site_config SET site_name = :site_name, site_description = :site_description, instagram_url = :instagram_url, tiktok_url = :tiktok_url, whatsapp_number = :whatsapp_number, email = :email, phone = :phone, address = :address, hero_title = :hero_title, hero_subtitle = :hero_subtitle, main_profile_image = :main_profile_image, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, cfg)
	if err != nil {
		return fmt.Errorf("update site config: %w", err)
	}
	return requireAffected(res)
}
