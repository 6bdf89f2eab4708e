package dto

import (
	"time"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// ContactForm is the payload posted by the public contact form.
type ContactForm struct {
	Name            string `form:"name" json:"name" validate:"required,max=100"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Phone           string `form:"phone" json:"phone" validate:"omitempty,max=20,phone_digits"`
	ServiceInterest string `form:"service_interest" json:"service_interest"`
	Subject         string `form:"subject" json:"subject" validate:"required,max=200"`
	Message         string `form:"message" json:"message" validate:"required,max=2000"`
}

// QuoteForm is the payload posted from the packages page.
type QuoteForm struct {
	Name    string `form:"name" json:"name" validate:"required,max=100"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Phone   string `form:"phone" json:"phone" validate:"omitempty,max=20,phone_digits"`
	Message string `form:"message" json:"message" validate:"required,max=2000"`
	Package string `form:"package" json:"package"`
}

// FieldError is one human readable problem with a submitted field.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrors maps a form field to every problem found with it.
type FieldErrors map[string][]FieldError

// Add appends a problem for field.
func (f FieldErrors) Add(field, code, message string) {
	f[field] = append(f[field], FieldError{Code: code, Message: message})
}

// SubmissionReceipt is returned to the visitor once a submission is stored.
type SubmissionReceipt struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SubmissionQuery mirrors supported admin listing filters.
type SubmissionQuery struct {
	Status          string `form:"status"`
	Search          string `form:"q"`
	Category        string `form:"category"`
	ServiceInterest string `form:"service_interest"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

// SubmissionView is a submission as shown on the admin surface.
type SubmissionView struct {
	ID              string                  `json:"id"`
	Kind            models.SubmissionKind   `json:"kind"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone,omitempty"`
	Subject         string                  `json:"subject,omitempty"`
	ServiceInterest string                  `json:"service_interest,omitempty"`
	Message         string                  `json:"message,omitempty"`
	PackageID       *string                 `json:"package_id,omitempty"`
	PackageName     *string                 `json:"package_name,omitempty"`
	Status          models.SubmissionStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       *time.Time              `json:"updated_at,omitempty"`
}

// SetStatusRequest toggles the moderation state of one submission.
type SetStatusRequest struct {
	Resolved *bool `json:"resolved" validate:"required"`
}

// BulkStatusRequest toggles the moderation state of several submissions.
type BulkStatusRequest struct {
	IDs      []string `json:"ids" validate:"required,min=1,dive,required"`
	Resolved *bool    `json:"resolved" validate:"required"`
}

// BulkResult reports how many records an action changed.
type BulkResult struct {
	Updated int `json:"updated"`
}

// ExportRequest asks for a rendered submission export.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Status string `json:"status" validate:"omitempty,oneof=pending resolved"`
}

// ExportResponse carries the signed link to a rendered export.
type ExportResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Rows        int       `json:"rows"`
}
