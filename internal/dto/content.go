package dto

import "github.com/noah-isme/portfolio-api/internal/models"

// PortfolioQuery mirrors the public portfolio listing filters.
type PortfolioQuery struct {
	Category string `form:"category"`
	Search   string `form:"q"`
	Page     int    `form:"page"`
}

// AdminPortfolioQuery filters the admin portfolio listing, drafts included.
type AdminPortfolioQuery struct {
	Category  string `form:"category"`
	Search    string `form:"q"`
	Published *bool  `form:"published"`
	Featured  *bool  `form:"featured"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// PortfolioDetail is a published item with its neighbours.
type PortfolioDetail struct {
	Item     models.PortfolioItem   `json:"item"`
	Related  []models.PortfolioItem `json:"related"`
	Previous *models.PortfolioItem  `json:"previous,omitempty"`
	Next     *models.PortfolioItem  `json:"next,omitempty"`
}

// PortfolioImageRequest describes an attached image.
type PortfolioImageRequest struct {
	Image     string `json:"image" validate:"required"`
	Caption   string `json:"caption" validate:"omitempty,max=200"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// PortfolioItemRequest is the admin payload for a portfolio item.
type PortfolioItemRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Slug        string                  `json:"slug" validate:"omitempty,max=200"`
	Description string                  `json:"description"`
	Category    string                  `json:"category" validate:"required,oneof=digital modelling"`
	MainImage   string                  `json:"main_image"`
	IsFeatured  bool                    `json:"is_featured"`
	Published   *bool                   `json:"published"`
	Images      []PortfolioImageRequest `json:"images" validate:"omitempty,dive"`
}

// GalleryImageRequest is the admin payload for a gallery image.
type GalleryImageRequest struct {
	Image     string `json:"image" validate:"required"`
	Title     string `json:"title" validate:"omitempty,max=200"`
	AltText   string `json:"alt_text" validate:"omitempty,max=200"`
	Caption   string `json:"caption" validate:"omitempty,max=300"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
	IsActive  *bool  `json:"is_active"`
}

// ProfileImageRequest is the admin payload for a profile image.
type ProfileImageRequest struct {
	Image       string `json:"image" validate:"required"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
}

// BulkActiveRequest toggles visibility of several gallery or profile images.
type BulkActiveRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Active *bool    `json:"active" validate:"required"`
}
