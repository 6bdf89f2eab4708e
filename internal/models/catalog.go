package models

import "time"

// PackageCategory groups packages and portfolio items.
type PackageCategory string

const (
	CategoryDigital   PackageCategory = "digital"
	CategoryModelling PackageCategory = "modelling"
)

// Valid reports whether the category is known.
func (c PackageCategory) Valid() bool {
	return c == CategoryDigital || c == CategoryModelling
}

// DisplayName returns the human readable category label.
func (c PackageCategory) DisplayName() string {
	switch c {
	case CategoryDigital:
		return "Digital Creator"
	case CategoryModelling:
		return "Modelling"
	default:
		return string(c)
	}
}

// Package is a sellable offering that quote requests may reference.
type Package struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Category    PackageCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Image       *string         `db:"image" json:"image,omitempty"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// PackageFilter narrows package listings.
type PackageFilter struct {
	Category   *PackageCategory
	ActiveOnly bool
}

// Service is an entry of the services catalogue offered on the contact form.
type Service struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
