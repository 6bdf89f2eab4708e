package models

import "time"

// PortfolioItem is a piece of published work.
type PortfolioItem struct {
	ID          string           `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	Slug        string           `db:"slug" json:"slug"`
	Description string           `db:"description" json:"description"`
	Category    PackageCategory  `db:"category" json:"category"`
	MainImage   string           `db:"main_image" json:"main_image"`
	IsFeatured  bool             `db:"is_featured" json:"is_featured"`
	Published   bool             `db:"published" json:"published"`
	Images      []PortfolioImage `db:"-" json:"images,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// PortfolioImage is an additional image attached to a portfolio item.
type PortfolioImage struct {
	ID              string    `db:"id" json:"id"`
	PortfolioItemID string    `db:"portfolio_item_id" json:"portfolio_item_id"`
	Image           string    `db:"image" json:"image"`
	Caption         string    `db:"caption" json:"caption"`
	SortOrder       int       `db:"sort_order" json:"sort_order"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// PortfolioFilter narrows portfolio listings.
type PortfolioFilter struct {
	Category      *PackageCategory
	Search        string
	PublishedOnly bool
	Published     *bool
	Featured      *bool
	Page          int
	PageSize      int
}

// GalleryImage is shown on the home page.
type GalleryImage struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Image     string    `db:"image" json:"image"`
	AltText   string    `db:"alt_text" json:"alt_text"`
	Caption   string    `db:"caption" json:"caption"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileImage is a portrait used across the site.
type ProfileImage struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Image       string    `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
