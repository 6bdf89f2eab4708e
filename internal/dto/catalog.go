package dto

import "github.com/noah-isme/portfolio-api/internal/models"

// PackageRequest is the admin payload for creating or editing a package.
type PackageRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"omitempty,max=200"`
	Category    string  `json:"category" validate:"required,oneof=digital modelling"`
	Description string  `json:"description" validate:"required"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"is_active"`
}

// ToggleActiveRequest flips the visibility flag of a record.
type ToggleActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// PackageGroups lists active packages by category for the public site.
type PackageGroups struct {
	Digital   []models.Package `json:"digital"`
	Modelling []models.Package `json:"modelling"`
}

// ServiceRequest is the admin payload for a services catalogue entry.
type ServiceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

// ServiceChoice is one option of the contact form's service selector.
type ServiceChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
