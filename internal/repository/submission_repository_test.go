package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/models"
)

var submissionColumns = []string{"id", "name", "email", "phone", "subject", "service_interest", "message", "package_id", "package_name", "resolved", "created_at", "updated_at"}

func TestSubmissionCreateContact(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO contact_messages").WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Submission{Kind: models.SubmissionContact, Name: "Ana", Email: "ana@example.com", Subject: "Hi", Message: "Hello"}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.CreatedAt.IsZero())
	assert.False(t, sub.Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionCreateQuoteWithoutPackage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO quote_requests").WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Submission{Kind: models.SubmissionQuote, Name: "Ana", Email: "ana@example.com", Message: "Quote me"}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.Nil(t, sub.PackageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionCreateQuoteDeletedPackage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec("INSERT INTO quote_requests").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "quote_requests_package_id_fkey"})

	pkgID := "5d2f0c8e-1b7a-4e3c-9f6d-2a1b3c4d5e6f"
	err := repo.Create(context.Background(), &models.Submission{Kind: models.SubmissionQuote, Name: "Ana", Email: "ana@example.com", Message: "Quote me", PackageID: &pkgID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionCreateUnknownKind(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	err := repo.Create(context.Background(), &models.Submission{Kind: "newsletter"})
	require.Error(t, err)
}

func TestSubmissionFindQuoteJoinsPackage(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("q1", "Ana", "ana@example.com", "", "", "", "Quote me", "p1", "Basic", true, now, now)
	mock.ExpectQuery(`FROM quote_requests s LEFT JOIN packages p ON p\.id = s\.package_id WHERE s\.id = \$1`).
		WithArgs("q1").
		WillReturnRows(rows)

	sub, err := repo.FindByID(context.Background(), models.SubmissionQuote, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionQuote, sub.Kind)
	require.NotNil(t, sub.PackageName)
	assert.Equal(t, "Basic", *sub.PackageName)
	assert.Equal(t, models.StatusResolved, sub.Status())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListFiltersByStatusAndSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("c1", "Ana", "ana@example.com", "", "Shoot", "modelling", "Hello", nil, nil, false, now, now)
	mock.ExpectQuery(`FROM contact_messages s WHERE s\.is_responded = \$1 AND \(LOWER\(s\.name\) LIKE \$2 .* ORDER BY s\.created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs(false, "%ana%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contact_messages s WHERE`).
		WithArgs(false, "%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	pending := models.StatusPending
	items, total, err := repo.List(context.Background(), models.SubmissionContact, models.SubmissionFilter{Status: &pending, Search: "Ana"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.SubmissionContact, items[0].Kind)
	assert.Nil(t, items[0].PackageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListContactByServiceInterest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM contact_messages s WHERE \(.*LOWER\(s\.service_interest\) LIKE \$1.*\) AND s\.service_interest = \$2 ORDER BY`).
		WithArgs("%wedding%", "modelling").
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow("c1", "Ana", "ana@example.com", "", "Shoot", "modelling", "Wedding shoot", nil, nil, false, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contact_messages s WHERE`).
		WithArgs("%wedding%", "modelling").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.SubmissionContact, models.SubmissionFilter{Search: "Wedding", ServiceInterest: "modelling"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "modelling", items[0].ServiceInterest)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionListQuoteIgnoresServiceInterest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`FROM quote_requests s LEFT JOIN packages p ON p\.id = s\.package_id ORDER BY`).
		WillReturnRows(sqlmock.NewRows(submissionColumns))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM quote_requests s LEFT JOIN packages p ON p\.id = s\.package_id$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.SubmissionQuote, models.SubmissionFilter{ServiceInterest: "modelling"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(`UPDATE quote_requests SET is_contacted = \$2, updated_at = \$3 WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), models.SubmissionQuote, "missing", true, time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionUpdateStatusBulkReturnsChangedIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`UPDATE contact_messages SET is_responded = \$2, updated_at = \$3 WHERE id = ANY\(\$1\) AND is_responded <> \$2 RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c2"))

	changed, err := repo.UpdateStatusBulk(context.Background(), models.SubmissionContact, []string{"c1", "c2"}, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(`DELETE FROM contact_messages WHERE id = \$1`).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), models.SubmissionContact, "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
