package models

import "time"

// SubmissionKind distinguishes the two lead-capture forms.
type SubmissionKind string

const (
	SubmissionContact SubmissionKind = "contact"
	SubmissionQuote   SubmissionKind = "quote"
)

// Valid reports whether the kind is one of the known submission kinds.
func (k SubmissionKind) Valid() bool {
	return k == SubmissionContact || k == SubmissionQuote
}

// Deletable reports whether operators may delete submissions of this kind.
func (k SubmissionKind) Deletable() bool {
	return k == SubmissionContact
}

// SubmissionStatus is the moderation state of a submission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusResolved SubmissionStatus = "resolved"
)

// StatusFromResolved maps the stored flag to a moderation status.
func StatusFromResolved(resolved bool) SubmissionStatus {
	if resolved {
		return StatusResolved
	}
	return StatusPending
}

// Submission is the shared shape of contact messages and quote requests.
// Resolved maps to is_responded for contact messages and is_contacted for quote requests.
type Submission struct {
	ID              string         `db:"id" json:"id"`
	Kind            SubmissionKind `db:"-" json:"kind"`
	Name            string         `db:"name" json:"name"`
	Email           string         `db:"email" json:"email"`
	Phone           string         `db:"phone" json:"phone"`
	Subject         string         `db:"subject" json:"subject,omitempty"`
	ServiceInterest string         `db:"service_interest" json:"service_interest,omitempty"`
	Message         string         `db:"message" json:"message"`
	PackageID       *string        `db:"package_id" json:"package_id,omitempty"`
	PackageName     *string        `db:"package_name" json:"package_name,omitempty"`
	Resolved        bool           `db:"resolved" json:"resolved"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// Status returns the moderation state of the submission.
func (s *Submission) Status() SubmissionStatus {
	return StatusFromResolved(s.Resolved)
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	Status          *SubmissionStatus
	Search          string
	PackageCategory string
	ServiceInterest string
	Page            int
	PageSize        int
}
