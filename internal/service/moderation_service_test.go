package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type moderationStoreStub struct {
	items       map[string]*models.Submission
	updates     int
	finds       int
	lastFilter  models.SubmissionFilter
	deleted     []string
	bulkChanged []string
}

func newModerationStore(items ...*models.Submission) *moderationStoreStub {
	store := &moderationStoreStub{items: map[string]*models.Submission{}}
	for _, item := range items {
		store.items[item.ID] = item
	}
	return store
}

func (s *moderationStoreStub) FindByID(ctx context.Context, kind models.SubmissionKind, id string) (*models.Submission, error) {
	s.finds++
	item, ok := s.items[id]
	if !ok || item.Kind != kind {
		return nil, sql.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (s *moderationStoreStub) List(ctx context.Context, kind models.SubmissionKind, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	s.lastFilter = filter
	var out []models.Submission
	for _, item := range s.items {
		if item.Kind == kind {
			out = append(out, *item)
		}
	}
	return out, len(out), nil
}

func (s *moderationStoreStub) UpdateStatus(ctx context.Context, kind models.SubmissionKind, id string, resolved bool, updatedAt time.Time) error {
	item, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.updates++
	item.Resolved = resolved
	item.UpdatedAt = updatedAt
	return nil
}

func (s *moderationStoreStub) UpdateStatusBulk(ctx context.Context, kind models.SubmissionKind, ids []string, resolved bool, updatedAt time.Time) ([]string, error) {
	var changed []string
	for _, id := range ids {
		if item, ok := s.items[id]; ok && item.Kind == kind && item.Resolved != resolved {
			item.Resolved = resolved
			changed = append(changed, id)
		}
	}
	s.bulkChanged = changed
	return changed, nil
}

func (s *moderationStoreStub) Delete(ctx context.Context, kind models.SubmissionKind, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

const (
	contactID1 = "5f0c1a52-7d3e-4c8a-9a61-0c1e2f3a4b01"
	contactID2 = "5f0c1a52-7d3e-4c8a-9a61-0c1e2f3a4b02"
	contactID3 = "5f0c1a52-7d3e-4c8a-9a61-0c1e2f3a4b03"
	quoteID1   = "9b7e4d10-2c6f-4e1b-8d3a-7f5e6a1b2c01"
)

func operator() *Actor {
	return &Actor{Claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleStaff}, IP: "127.0.0.1"}
}

func pendingContact(id string) *models.Submission {
	return &models.Submission{
		ID:        id,
		Kind:      models.SubmissionContact,
		Name:      "Ana",
		Email:     "ana@example.com",
		Phone:     "5551234567",
		Subject:   "Shoot",
		Message:   "Hello",
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestModerationMarkResolvedIsIdempotent(t *testing.T) {
	store := newModerationStore(pendingContact(contactID1))
	audit := &auditStub{}
	metrics := NewMetricsService()
	svc := NewModerationService(store, audit, metrics, zap.NewNop())

	view, err := svc.MarkResolved(context.Background(), models.SubmissionContact, contactID1, operator())
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, view.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), view.CreatedAt)

	view, err = svc.MarkResolved(context.Background(), models.SubmissionContact, contactID1, operator())
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, view.Status)

	assert.Equal(t, 1, store.updates)
	assert.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSubmissionStatus, audit.logs[0].Action)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transitions.WithLabelValues("contact", "resolved")))
}

func TestModerationMarkUnresolved(t *testing.T) {
	item := pendingContact(contactID1)
	item.Resolved = true
	store := newModerationStore(item)
	svc := NewModerationService(store, nil, nil, nil)

	view, err := svc.MarkUnresolved(context.Background(), models.SubmissionContact, contactID1, operator())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.False(t, store.items[contactID1].Resolved)
}

func TestModerationRequiresOperator(t *testing.T) {
	store := newModerationStore(pendingContact(contactID1))
	svc := NewModerationService(store, nil, nil, nil)

	_, err := svc.MarkResolved(context.Background(), models.SubmissionContact, contactID1, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	viewer := &Actor{Claims: &models.JWTClaims{UserID: "user-2", Role: models.RoleViewer}}
	_, err = svc.MarkResolved(context.Background(), models.SubmissionContact, contactID1, viewer)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	assert.Zero(t, store.updates)
}

func TestModerationUnknownSubmission(t *testing.T) {
	svc := NewModerationService(newModerationStore(), nil, nil, nil)
	_, err := svc.MarkResolved(context.Background(), models.SubmissionQuote, "0d4c7a2e-5b1f-4f3e-9c8d-1a2b3c4d5e6f", operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestModerationMalformedIDIsNotFound(t *testing.T) {
	store := newModerationStore(pendingContact(contactID1))
	svc := NewModerationService(store, nil, nil, nil)

	_, err := svc.Get(context.Background(), models.SubmissionContact, "not-a-uuid", AdminView{}, operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	_, err = svc.MarkResolved(context.Background(), models.SubmissionContact, "42", operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	err = svc.Delete(context.Background(), models.SubmissionContact, "abc", operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	count, err := svc.BulkSetStatus(context.Background(), models.SubmissionContact, []string{"bogus", contactID1}, true, operator())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Zero(t, store.finds)
	assert.Empty(t, store.deleted)
}

func TestModerationDeleteQuoteForbidden(t *testing.T) {
	quote := pendingContact(quoteID1)
	quote.Kind = models.SubmissionQuote
	store := newModerationStore(quote)
	svc := NewModerationService(store, nil, nil, nil)

	err := svc.Delete(context.Background(), models.SubmissionQuote, quoteID1, operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Contains(t, store.items, quoteID1)
}

func TestModerationDeleteContact(t *testing.T) {
	store := newModerationStore(pendingContact(contactID1))
	audit := &auditStub{}
	svc := NewModerationService(store, audit, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), models.SubmissionContact, contactID1, operator()))
	assert.Equal(t, []string{contactID1}, store.deleted)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionSubmissionDelete, audit.logs[0].Action)

	err := svc.Delete(context.Background(), models.SubmissionContact, contactID1, operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestModerationBulkSetStatusCountsChanges(t *testing.T) {
	resolved := pendingContact(contactID2)
	resolved.Resolved = true
	store := newModerationStore(pendingContact(contactID1), resolved, pendingContact(contactID3))
	audit := &auditStub{}
	svc := NewModerationService(store, audit, nil, nil)

	count, err := svc.BulkSetStatus(context.Background(), models.SubmissionContact, []string{contactID1, contactID2, contactID3, "missing"}, true, operator())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, audit.logs, 2)
}

func TestModerationListSimplifiedHidesDetails(t *testing.T) {
	store := newModerationStore(pendingContact(contactID1))
	svc := NewModerationService(store, nil, nil, nil)

	views, page, err := svc.List(context.Background(), models.SubmissionContact, dto.SubmissionQuery{Status: "pending", Search: "ana"}, AdminView{Simplified: true}, operator())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].Phone)
	assert.Empty(t, views[0].Message)
	assert.Nil(t, views[0].UpdatedAt)
	assert.Equal(t, 1, page.TotalCount)
	require.NotNil(t, store.lastFilter.Status)
	assert.Equal(t, models.StatusPending, *store.lastFilter.Status)
	assert.Equal(t, "ana", store.lastFilter.Search)

	_, _, err = svc.List(context.Background(), models.SubmissionContact, dto.SubmissionQuery{ServiceInterest: " Wedding "}, AdminView{}, operator())
	require.NoError(t, err)
	assert.Equal(t, "Wedding", store.lastFilter.ServiceInterest)

	views, _, err = svc.List(context.Background(), models.SubmissionContact, dto.SubmissionQuery{}, AdminView{}, operator())
	require.NoError(t, err)
	assert.Equal(t, "5551234567", views[0].Phone)
	assert.NotNil(t, views[0].UpdatedAt)
}

func TestModerationListRejectsUnknownStatus(t *testing.T) {
	svc := NewModerationService(newModerationStore(), nil, nil, nil)
	_, _, err := svc.List(context.Background(), models.SubmissionContact, dto.SubmissionQuery{Status: "archived"}, AdminView{}, operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
