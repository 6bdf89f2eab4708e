package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type submissionModerationStore interface {
	FindByID(ctx context.Context, kind models.SubmissionKind, id string) (*models.Submission, error)
	List(ctx context.Context, kind models.SubmissionKind, filter models.SubmissionFilter) ([]models.Submission, int, error)
	UpdateStatus(ctx context.Context, kind models.SubmissionKind, id string, resolved bool, updatedAt time.Time) error
	UpdateStatusBulk(ctx context.Context, kind models.SubmissionKind, ids []string, resolved bool, updatedAt time.Time) ([]string, error)
	Delete(ctx context.Context, kind models.SubmissionKind, id string) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AdminView selects how much detail the admin surface shows. The simplified view
// is the client-facing flavour and hides contact details from listings.
type AdminView struct {
	Simplified bool
}

// Actor is the authenticated principal performing an admin action.
type Actor struct {
	Claims    *models.JWTClaims
	IP        string
	UserAgent string
}

// ModerationService toggles the pending/resolved state of submissions.
type ModerationService struct {
	store   submissionModerationStore
	audit   auditRecorder
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(store submissionModerationStore, audit auditWriter, metrics *MetricsService, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		store:   store,
		audit:   auditRecorder{writer: audit, logger: logger},
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// authorize separates missing credentials from insufficient ones.
func authorize(actor *Actor) error {
	if actor == nil || actor.Claims == nil || actor.Claims.UserID == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !actor.Claims.IsOperator() {
		return appErrors.Clone(appErrors.ErrForbidden, "operator role required")
	}
	return nil
}

func validKind(kind models.SubmissionKind) error {
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrNotFound, "unknown submission kind")
	}
	return nil
}

// MarkResolved moves a submission to resolved.
func (s *ModerationService) MarkResolved(ctx context.Context, kind models.SubmissionKind, id string, actor *Actor) (*dto.SubmissionView, error) {
	return s.SetStatus(ctx, kind, id, true, actor, AdminView{})
}

// MarkUnresolved moves a submission back to pending.
func (s *ModerationService) MarkUnresolved(ctx context.Context, kind models.SubmissionKind, id string, actor *Actor) (*dto.SubmissionView, error) {
	return s.SetStatus(ctx, kind, id, false, actor, AdminView{})
}

// SetStatus applies the target state. Re-applying the current state succeeds
// without writing anything.
func (s *ModerationService) SetStatus(ctx context.Context, kind models.SubmissionKind, id string, resolved bool, actor *Actor, view AdminView) (*dto.SubmissionView, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := validKind(kind); err != nil {
		return nil, err
	}

	submission, err := s.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if submission.Resolved == resolved {
		return toSubmissionView(submission, view, false), nil
	}

	previous := submission.Status()
	updatedAt := s.now()
	if err := s.store.UpdateStatus(ctx, kind, id, resolved, updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission status")
	}
	submission.Resolved = resolved
	submission.UpdatedAt = updatedAt

	s.recordTransition(ctx, actor, kind, id, previous, submission.Status())
	return toSubmissionView(submission, view, false), nil
}

// BulkSetStatus applies the target state to several submissions and returns how
// many actually changed.
func (s *ModerationService) BulkSetStatus(ctx context.Context, kind models.SubmissionKind, ids []string, resolved bool, actor *Actor) (int, error) {
	if err := authorize(actor); err != nil {
		return 0, err
	}
	if err := validKind(kind); err != nil {
		return 0, err
	}
	ids = wellFormedIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	changed, err := s.store.UpdateStatusBulk(ctx, kind, ids, resolved, s.now())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission status")
	}
	target := models.StatusFromResolved(resolved)
	previous := models.StatusFromResolved(!resolved)
	for _, id := range changed {
		s.recordTransition(ctx, actor, kind, id, previous, target)
	}
	return len(changed), nil
}

// List returns submissions of a kind for the admin surface.
func (s *ModerationService) List(ctx context.Context, kind models.SubmissionKind, query dto.SubmissionQuery, view AdminView, actor *Actor) ([]dto.SubmissionView, *models.Pagination, error) {
	if err := authorize(actor); err != nil {
		return nil, nil, err
	}
	if err := validKind(kind); err != nil {
		return nil, nil, err
	}

	filter := models.SubmissionFilter{
		Search:          query.Search,
		PackageCategory: query.Category,
		ServiceInterest: strings.TrimSpace(query.ServiceInterest),
		Page:            query.Page,
		PageSize:        query.PageSize,
	}
	switch models.SubmissionStatus(query.Status) {
	case models.StatusPending, models.StatusResolved:
		status := models.SubmissionStatus(query.Status)
		filter.Status = &status
	case "":
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending or resolved")
	}
	if filter.PackageCategory != "" && !models.PackageCategory(filter.PackageCategory).Valid() {
		filter.PackageCategory = ""
	}

	items, total, err := s.store.List(ctx, kind, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	views := make([]dto.SubmissionView, 0, len(items))
	for i := range items {
		views = append(views, *toSubmissionView(&items[i], view, true))
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize, 20)
	return views, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one submission for the admin surface.
func (s *ModerationService) Get(ctx context.Context, kind models.SubmissionKind, id string, view AdminView, actor *Actor) (*dto.SubmissionView, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := validKind(kind); err != nil {
		return nil, err
	}
	submission, err := s.find(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return toSubmissionView(submission, view, false), nil
}

// Delete removes a contact message. Quote requests are never deletable.
func (s *ModerationService) Delete(ctx context.Context, kind models.SubmissionKind, id string, actor *Actor) error {
	if err := authorize(actor); err != nil {
		return err
	}
	if err := validKind(kind); err != nil {
		return err
	}
	if !kind.Deletable() {
		return appErrors.Clone(appErrors.ErrForbidden, "quote requests cannot be deleted")
	}
	if !wellFormedID(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	if err := s.store.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete submission")
	}
	s.audit.record(ctx, actor, models.AuditActionSubmissionDelete, string(kind), id, nil, nil)
	return nil
}

func (s *ModerationService) find(ctx context.Context, kind models.SubmissionKind, id string) (*models.Submission, error) {
	if !wellFormedID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	submission, err := s.store.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// wellFormedID reports whether id can name a stored submission at all.
func wellFormedID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wellFormedIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if wellFormedID(id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *ModerationService) recordTransition(ctx context.Context, actor *Actor, kind models.SubmissionKind, id string, from, to models.SubmissionStatus) {
	s.metrics.RecordTransition(kind, to)
	s.audit.record(ctx, actor, models.AuditActionSubmissionStatus, string(kind), id,
		map[string]string{"status": string(from)},
		map[string]string{"status": string(to)})
}

func toSubmissionView(s *models.Submission, view AdminView, listing bool) *dto.SubmissionView {
	out := &dto.SubmissionView{
		ID:              s.ID,
		Kind:            s.Kind,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		Subject:         s.Subject,
		ServiceInterest: s.ServiceInterest,
		Message:         s.Message,
		PackageID:       s.PackageID,
		PackageName:     s.PackageName,
		Status:          s.Status(),
		CreatedAt:       s.CreatedAt,
	}
	if !view.Simplified {
		updated := s.UpdatedAt
		out.UpdatedAt = &updated
		return out
	}
	if listing {
		out.Phone = ""
		out.Message = ""
		out.PackageID = nil
	}
	return out
}
