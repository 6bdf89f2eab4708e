package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// GalleryRepository provides access to gallery and profile images.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new instance of GalleryRepository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// List returns gallery images in display order.
func (r *GalleryRepository) List(ctx context.Context, activeOnly bool) ([]models.GalleryImage, error) {
	query := `SELECT id, title, image, alt_text, caption, sort_order, is_active, created_at, updated_at FROM gallery_images`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY sort_order, created_at DESC`
	var images []models.GalleryImage
	if err := r.db.SelectContext(ctx, &images, query); err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return images, nil
}

// Create inserts a gallery image.
func (r *GalleryRepository) Create(ctx context.Context, img *models.GalleryImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if img.CreatedAt.IsZero() {
		img.CreatedAt = now
	}
	img.UpdatedAt = now
	const query = `INSERT INTO gallery_images (id, title, image, alt_text, caption, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :title, :image, :alt_text, :caption, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, img); err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	return nil
}

// SetActive toggles visibility of the listed images and returns how many changed.
func (r *GalleryRepository) SetActive(ctx context.Context, ids []string, active bool) (int, error) {
	return r.setActive(ctx, "gallery_images", ids, active)
}

func (r *GalleryRepository) setActive(ctx context.Context, table string, ids []string, active bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf("UPDATE %s SET is_active = $2, updated_at = $3 WHERE id = ANY($1)", table)
	res, err := r.db.ExecContext(ctx, query, pq.Array(ids), active, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("set %s active: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set %s active: %w", table, err)
	}
	return int(affected), nil
}

const profileImageColumns = "id, title, image, description, is_active, created_at, updated_at"

// ListProfileImages returns profile images, newest first.
func (r *GalleryRepository) ListProfileImages(ctx context.Context, activeOnly bool) ([]models.ProfileImage, error) {
	query := "SELECT " + profileImageColumns + " FROM profile_images"
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY created_at DESC"
	var images []models.ProfileImage
	if err := r.db.SelectContext(ctx, &images, query); err != nil {
		return nil, fmt.Errorf("list profile images: %w", err)
	}
	return images, nil
}

// CreateProfileImage inserts a profile image.
func (r *GalleryRepository) CreateProfileImage(ctx context.Context, img *models.ProfileImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if img.CreatedAt.IsZero() {
		img.CreatedAt = now
	}
	img.UpdatedAt = now
	const query = `INSERT INTO profile_images (id, title, image, description, is_active, created_at, updated_at)
        VALUES (:id, :title, :image, :description, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, img); err != nil {
		return fmt.Errorf("create profile image: %w", err)
	}
	return nil
}

// SetProfileImagesActive toggles visibility of the listed profile images.
func (r *GalleryRepository) SetProfileImagesActive(ctx context.Context, ids []string, active bool) (int, error) {
	return r.setActive(ctx, "profile_images", ids, active)
}

// FirstActiveProfileImage returns the newest active profile image, if any.
func (r *GalleryRepository) FirstActiveProfileImage(ctx context.Context) (*models.ProfileImage, error) {
	const query = "SELECT " + profileImageColumns + " FROM profile_images WHERE is_active = TRUE ORDER BY created_at DESC LIMIT 1"
	var img models.ProfileImage
	if err := r.db.GetContext(ctx, &img, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile image: %w", err)
	}
	return &img, nil
}
