package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

// Messages shown to visitors after a form post.
const (
	ContactReceivedMessage   = "Your message has been sent successfully! I will get back to you soon."
	QuoteReceivedMessage     = "Thank you for your request! We will get back to you soon."
	SubmissionInvalidMessage = "There was an error with your submission. Please check the form and try again."
)

type submissionWriter interface {
	Create(ctx context.Context, submission *models.Submission) error
}

type packageFinder interface {
	FindByID(ctx context.Context, id string) (*models.Package, error)
}

type activeServiceLister interface {
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
}

// Notifier is told about every stored submission. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, submission *models.Submission, tmpl NotificationTemplate)
}

// SubmissionService runs the public intake pipeline: validate, persist, notify.
type SubmissionService struct {
	store     submissionWriter
	packages  packageFinder
	services  activeServiceLister
	notifier  Notifier
	validator *SubmissionValidator
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(store submissionWriter, packages packageFinder, services activeServiceLister, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		store:     store,
		packages:  packages,
		services:  services,
		notifier:  notifier,
		validator: NewSubmissionValidator(),
		metrics:   metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitContact stores a contact message and notifies the operator.
func (s *SubmissionService) SubmitContact(ctx context.Context, form dto.ContactForm) (*dto.SubmissionReceipt, error) {
	draft, problems := s.validator.ValidateContact(form)
	if len(problems) > 0 {
		return nil, s.reject(models.SubmissionContact, problems)
	}
	s.checkServiceInterest(ctx, draft.ServiceInterest)

	submission := &models.Submission{
		Kind:            models.SubmissionContact,
		Name:            draft.Name,
		Email:           draft.Email,
		Phone:           draft.Phone,
		Subject:         draft.Subject,
		ServiceInterest: draft.ServiceInterest,
		Message:         draft.Message,
	}
	if err := s.persist(ctx, submission); err != nil {
		return nil, err
	}
	s.notify(ctx, submission, TemplateContact)
	return &dto.SubmissionReceipt{ID: submission.ID, Message: ContactReceivedMessage}, nil
}

// SubmitQuote stores a quote request. An unknown package leaves the reference unset.
func (s *SubmissionService) SubmitQuote(ctx context.Context, form dto.QuoteForm) (*dto.SubmissionReceipt, error) {
	draft, problems := s.validator.ValidateQuote(form)
	if len(problems) > 0 {
		return nil, s.reject(models.SubmissionQuote, problems)
	}

	submission := &models.Submission{
		Kind:    models.SubmissionQuote,
		Name:    draft.Name,
		Email:   draft.Email,
		Phone:   draft.Phone,
		Message: draft.Message,
	}
	if pkg := s.resolvePackage(ctx, draft.Package); pkg != nil {
		submission.PackageID = &pkg.ID
		submission.PackageName = &pkg.Name
	}
	if err := s.persist(ctx, submission); err != nil {
		return nil, err
	}
	s.notify(ctx, submission, TemplateQuote)
	return &dto.SubmissionReceipt{ID: submission.ID, Message: QuoteReceivedMessage}, nil
}

func (s *SubmissionService) reject(kind models.SubmissionKind, problems dto.FieldErrors) error {
	s.metrics.RecordSubmission(kind, OutcomeRejected)
	s.logger.Info("submission rejected", zap.String("kind", string(kind)), zap.Int("fields", len(problems)))
	return appErrors.WithDetails(appErrors.ErrValidation, SubmissionInvalidMessage, problems)
}

func (s *SubmissionService) persist(ctx context.Context, submission *models.Submission) error {
	submission.Resolved = false
	submission.CreatedAt = s.now()
	err := s.store.Create(ctx, submission)
	if errors.Is(err, repository.ErrMissingReference) && submission.PackageID != nil {
		// The package was removed after it was resolved; keep the lead without it.
		s.logger.Warn("quote package vanished before insert, storing without it", zap.String("package_id", *submission.PackageID))
		submission.PackageID = nil
		submission.PackageName = nil
		err = s.store.Create(ctx, submission)
	}
	if err != nil {
		s.metrics.RecordSubmission(submission.Kind, OutcomeFailed)
		s.logger.Error("persist submission failed", zap.String("kind", string(submission.Kind)), zap.String("email", submission.Email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	s.metrics.RecordSubmission(submission.Kind, OutcomeAccepted)
	s.logger.Info("submission stored", zap.String("kind", string(submission.Kind)), zap.String("id", submission.ID))
	return nil
}

func (s *SubmissionService) notify(ctx context.Context, submission *models.Submission, tmpl NotificationTemplate) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, submission, tmpl)
}

// resolvePackage never fails the submission: lookup problems only leave the reference unset.
func (s *SubmissionService) resolvePackage(ctx context.Context, id string) *models.Package {
	if id == "" || s.packages == nil {
		return nil
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		s.logger.Info("quote package not resolved", zap.String("package_id", id), zap.Error(err))
		return nil
	}
	return pkg
}

// checkServiceInterest compares the value with the services offered right now.
// A mismatch is accepted; the choice list is advisory.
func (s *SubmissionService) checkServiceInterest(ctx context.Context, value string) {
	if value == "" || s.services == nil {
		return
	}
	services, err := s.services.List(ctx, true)
	if err != nil {
		s.logger.Debug("service choices unavailable", zap.Error(err))
		return
	}
	if !MatchesChoice(value, ServiceChoices(services)) {
		s.logger.Debug("service interest not among active services", zap.String("service_interest", value))
	}
}

// ServiceChoices converts services into contact-form options.
func ServiceChoices(services []models.Service) []dto.ServiceChoice {
	choices := make([]dto.ServiceChoice, 0, len(services))
	for _, svc := range services {
		choices = append(choices, dto.ServiceChoice{Value: ServiceChoiceValue(svc.Name), Label: svc.Name})
	}
	return choices
}
