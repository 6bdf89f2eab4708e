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

const packageColumns = "id, name, slug, category, description, image, is_active, created_at, updated_at"

// PackageRepository provides database access for catalogue packages.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository creates a new instance of PackageRepository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// List returns packages ordered by category and name.
func (r *PackageRepository) List(ctx context.Context, filter models.PackageFilter) ([]models.Package, error) {
	var conditions []string
	var args []interface{}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, *filter.Category)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	query := "SELECT " + packageColumns + " FROM packages"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY category, name"

	var packages []models.Package
	if err := r.db.SelectContext(ctx, &packages, query, args...); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return packages, nil
}

// FindByID returns a package by identifier.
func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	const query = `SELECT ` + packageColumns + ` FROM packages WHERE id = $1 LIMIT 1`
	var pkg models.Package
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	return &pkg, nil
}

// Create inserts a package. A slug collision yields ErrDuplicate.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now

	const query = `INSERT INTO packages (id, name, slug, category, description, image, is_active, created_at, updated_at)
        VALUES (:id, :name, :slug, :category, :description, :image, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pkg); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// Update updates mutable fields of a package.
func (r *PackageRepository) Update(ctx context.Context, pkg *models.Package) error {
	pkg.UpdatedAt = time.Now().UTC()
	const query = `UPDATE packages SET name = :name, slug = :slug, category = :category, description = :description, image = :image, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, pkg)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update package: %w", err)
	}
	return requireAffected(res)
}

// SetActive toggles the public visibility of a package.
func (r *PackageRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE packages SET is_active = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set package active: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a package. Quote requests keep existing with a cleared reference.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	return requireAffected(res)
}
