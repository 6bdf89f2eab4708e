package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portfolio-api/internal/models"
)

const portfolioColumns = "id, title, slug, description, category, main_image, is_featured, published, created_at, updated_at"

// PortfolioRepository provides database access for portfolio items and their images.
type PortfolioRepository struct {
	db *sqlx.DB
}

// NewPortfolioRepository creates a new instance of PortfolioRepository.
func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// List returns portfolio items matching the filter with total count.
func (r *PortfolioRepository) List(ctx context.Context, filter models.PortfolioFilter) ([]models.PortfolioItem, int, error) {
	baseQuery := `FROM portfolio_items WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	} else if filter.Published != nil {
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)+1))
		args = append(args, *filter.Published)
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)+1))
		args = append(args, *filter.Featured)
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 9)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", portfolioColumns, baseQuery, pageSize, offset)
	var items []models.PortfolioItem
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list portfolio items: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count portfolio items: %w", err)
	}
	return items, total, nil
}

// ListFeatured returns published featured items for the home page.
func (r *PortfolioRepository) ListFeatured(ctx context.Context, limit int) ([]models.PortfolioItem, error) {
	query := fmt.Sprintf("SELECT %s FROM portfolio_items WHERE published = TRUE AND is_featured = TRUE ORDER BY created_at DESC LIMIT %d", portfolioColumns, limit)
	var items []models.PortfolioItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list featured portfolio items: %w", err)
	}
	return items, nil
}

// FindBySlug returns a portfolio item by slug.
func (r *PortfolioRepository) FindBySlug(ctx context.Context, slug string) (*models.PortfolioItem, error) {
	return r.findOne(ctx, "slug", slug)
}

// FindByID returns a portfolio item by identifier.
func (r *PortfolioRepository) FindByID(ctx context.Context, id string) (*models.PortfolioItem, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PortfolioRepository) findOne(ctx context.Context, column, value string) (*models.PortfolioItem, error) {
	query := fmt.Sprintf("SELECT %s FROM portfolio_items WHERE %s = $1 LIMIT 1", portfolioColumns, column)
	var item models.PortfolioItem
	if err := r.db.GetContext(ctx, &item, query, value); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find portfolio item: %w", err)
	}
	return &item, nil
}

// ListImages returns the additional images of an item in display order.
func (r *PortfolioRepository) ListImages(ctx context.Context, itemID string) ([]models.PortfolioImage, error) {
	const query = `SELECT id, portfolio_item_id, image, caption, sort_order, created_at FROM portfolio_images WHERE portfolio_item_id = $1 ORDER BY sort_order, created_at DESC`
	var images []models.PortfolioImage
	if err := r.db.SelectContext(ctx, &images, query, itemID); err != nil {
		return nil, fmt.Errorf("list portfolio images: %w", err)
	}
	return images, nil
}

// ListRelated returns other published items of the same category.
func (r *PortfolioRepository) ListRelated(ctx context.Context, category models.PackageCategory, excludeID string, limit int) ([]models.PortfolioItem, error) {
	query := fmt.Sprintf("SELECT %s FROM portfolio_items WHERE published = TRUE AND category = $1 AND id <> $2 ORDER BY created_at DESC LIMIT %d", portfolioColumns, limit)
	var items []models.PortfolioItem
	if err := r.db.SelectContext(ctx, &items, query, category, excludeID); err != nil {
		return nil, fmt.Errorf("list related portfolio items: %w", err)
	}
	return items, nil
}

// Neighbours returns the items around ts in listing order (newest first): previous
// is the next newer published item and next the next older one.
func (r *PortfolioRepository) Neighbours(ctx context.Context, ts time.Time) (*models.PortfolioItem, *models.PortfolioItem, error) {
	prevQuery := fmt.Sprintf("SELECT %s FROM portfolio_items WHERE published = TRUE AND created_at > $1 ORDER BY created_at ASC LIMIT 1", portfolioColumns)
	nextQuery := fmt.Sprintf("SELECT %s FROM portfolio_items WHERE published = TRUE AND created_at < $1 ORDER BY created_at DESC LIMIT 1", portfolioColumns)

	prev, err := r.optional(ctx, prevQuery, ts)
	if err != nil {
		return nil, nil, fmt.Errorf("find previous portfolio item: %w", err)
	}
	next, err := r.optional(ctx, nextQuery, ts)
	if err != nil {
		return nil, nil, fmt.Errorf("find next portfolio item: %w", err)
	}
	return prev, next, nil
}

func (r *PortfolioRepository) optional(ctx context.Context, query string, args ...interface{}) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts an item together with its images.
func (r *PortfolioRepository) Create(ctx context.Context, item *models.PortfolioItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO portfolio_items (id, title, slug, description, category, main_image, is_featured, published, created_at, updated_at)
        VALUES (:id, :title, :slug, :description, :category, :main_image, :is_featured, :published, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, item); err != nil {
		tx.Rollback() //nolint:errcheck
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create portfolio item: %w", err)
	}
	if err := r.replaceImagesTx(ctx, tx, item); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit portfolio item: %w", err)
	}
	return nil
}

// Update rewrites an item and replaces its images.
func (r *PortfolioRepository) Update(ctx context.Context, item *models.PortfolioItem) error {
	item.UpdatedAt = time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `UPDATE portfolio_items SET title = :title, slug = :slug, description = :description, category = :category, main_image = :main_image, is_featured = :is_featured, published = :published, updated_at = :updated_at WHERE id = :id`
	res, err := tx.NamedExecContext(ctx, query, item)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update portfolio item: %w", err)
	}
	if err := requireAffected(res); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := r.replaceImagesTx(ctx, tx, item); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit portfolio item: %w", err)
	}
	return nil
}

func (r *PortfolioRepository) replaceImagesTx(ctx context.Context, tx *sqlx.Tx, item *models.PortfolioItem) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM portfolio_images WHERE portfolio_item_id = $1", item.ID); err != nil {
		return fmt.Errorf("clear portfolio images: %w", err)
	}
	const insert = `INSERT INTO portfolio_images (id, portfolio_item_id, image, caption, sort_order, created_at) VALUES (:id, :portfolio_item_id, :image, :caption, :sort_order, :created_at)`
	for i := range item.Images {
		img := &item.Images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		img.PortfolioItemID = item.ID
		if img.CreatedAt.IsZero() {
			img.CreatedAt = item.UpdatedAt
		}
		if _, err := tx.NamedExecContext(ctx, insert, img); err != nil {
			return fmt.Errorf("insert portfolio image: %w", err)
		}
	}
	return nil
}
