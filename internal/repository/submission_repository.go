package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/portfolio-api/internal/models"
)

// submissionTable describes how one submission kind is stored.
type submissionTable struct {
	table        string
	statusColumn string
	selectFrom   string
	searchCols   []string
	insert       string
}

var submissionTables = map[models.SubmissionKind]submissionTable{
	models.SubmissionContact: {
		table:        "contact_messages",
		statusColumn: "is_responded",
		selectFrom: `SELECT s.id, s.name, s.email, s.phone, s.subject, s.service_interest, s.message, NULL AS package_id, NULL AS package_name, s.is_responded AS resolved, s.created_at, s.updated_at
        FROM contact_messages s`,
		searchCols: []string{"s.name", "s.email", "s.subject", "s.service_interest", "s.message"},
		insert: `INSERT INTO contact_messages (id, name, email, phone, subject, service_interest, message, is_responded, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :subject, :service_interest, :message, :resolved, :created_at, :updated_at)`,
	},
	models.SubmissionQuote: {
		table:        "quote_requests",
		statusColumn: "is_contacted",
		selectFrom: `SELECT s.id, s.name, s.email, s.phone, '' AS subject, '' AS service_interest, s.message, s.package_id, p.name AS package_name, s.is_contacted AS resolved, s.created_at, s.updated_at
        FROM quote_requests s LEFT JOIN packages p ON p.id = s.package_id`,
		searchCols: []string{"s.name", "s.email", "s.message"},
		insert: `INSERT INTO quote_requests (id, package_id, name, email, phone, message, is_contacted, created_at, updated_at)
        VALUES (:id, :package_id, :name, :email, :phone, :message, :resolved, :created_at, :updated_at)`,
	},
}

func tableFor(kind models.SubmissionKind) (submissionTable, error) {
	t, ok := submissionTables[kind]
	if !ok {
		return submissionTable{}, fmt.Errorf("unknown submission kind %q", kind)
	}
	return t, nil
}

// SubmissionRepository stores contact messages and quote requests.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission. Identifiers and timestamps are assigned here.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	t, err := tableFor(submission.Kind)
	if err != nil {
		return err
	}
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, t.insert, submission); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create %s submission: %w", submission.Kind, ErrMissingReference)
		}
		return fmt.Errorf("create %s submission: %w", submission.Kind, err)
	}
	return nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionRepository) FindByID(ctx context.Context, kind models.SubmissionKind, id string) (*models.Submission, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := t.selectFrom + " WHERE s.id = $1 LIMIT 1"
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find %s submission: %w", kind, err)
	}
	submission.Kind = kind
	return &submission, nil
}

// List returns submissions of a kind matching the filter with total count.
func (r *SubmissionRepository) List(ctx context.Context, kind models.SubmissionKind, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}

	where, args := submissionWhere(t, kind, filter)

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 20)
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("%s%s ORDER BY s.created_at DESC LIMIT %d OFFSET %d", t.selectFrom, where, pageSize, offset)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s submissions: %w", kind, err)
	}
	for i := range submissions {
		submissions[i].Kind = kind
	}

	countFrom := "FROM " + t.table + " s"
	if kind == models.SubmissionQuote {
		countFrom += " LEFT JOIN packages p ON p.id = s.package_id"
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", countFrom, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s submissions: %w", kind, err)
	}

	return submissions, total, nil
}

// ListAll returns every submission of a kind matching the filter, newest first.
func (r *SubmissionRepository) ListAll(ctx context.Context, kind models.SubmissionKind, filter models.SubmissionFilter) ([]models.Submission, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	where, args := submissionWhere(t, kind, filter)
	query := t.selectFrom + where + " ORDER BY s.created_at DESC"
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list all %s submissions: %w", kind, err)
	}
	for i := range submissions {
		submissions[i].Kind = kind
	}
	return submissions, nil
}

func submissionWhere(t submissionTable, kind models.SubmissionKind, filter models.SubmissionFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("s.%s = $%d", t.statusColumn, len(args)+1))
		args = append(args, *filter.Status == models.StatusResolved)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		parts := make([]string, 0, len(t.searchCols))
		for _, col := range t.searchCols {
			parts = append(parts, fmt.Sprintf("LOWER(%s) LIKE $%d", col, idx))
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.PackageCategory != "" && kind == models.SubmissionQuote {
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)+1))
		args = append(args, filter.PackageCategory)
	}
	if filter.ServiceInterest != "" && kind == models.SubmissionContact {
		conditions = append(conditions, fmt.Sprintf("s.service_interest = $%d", len(args)+1))
		args = append(args, filter.ServiceInterest)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// UpdateStatus overwrites the moderation flag of a submission. created_at is never touched.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, kind models.SubmissionKind, id string, resolved bool, updatedAt time.Time) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET %s = $2, updated_at = $3 WHERE id = $1", t.table, t.statusColumn)
	res, err := r.db.ExecContext(ctx, query, id, resolved, updatedAt)
	if err != nil {
		return fmt.Errorf("update %s submission status: %w", kind, err)
	}
	return requireAffected(res)
}

// UpdateStatusBulk sets the moderation flag on every listed submission that is not
// already in the target state and returns the identifiers that changed.
func (r *SubmissionRepository) UpdateStatusBulk(ctx context.Context, kind models.SubmissionKind, ids []string, resolved bool, updatedAt time.Time) ([]string, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("UPDATE %s SET %s = $2, updated_at = $3 WHERE id = ANY($1) AND %s <> $2 RETURNING id", t.table, t.statusColumn, t.statusColumn)
	var changed []string
	if err := r.db.SelectContext(ctx, &changed, query, pq.Array(ids), resolved, updatedAt); err != nil {
		return nil, fmt.Errorf("bulk update %s submission status: %w", kind, err)
	}
	return changed, nil
}

// Delete removes a submission permanently.
func (r *SubmissionRepository) Delete(ctx context.Context, kind models.SubmissionKind, id string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.table), id)
	if err != nil {
		return fmt.Errorf("delete %s submission: %w", kind, err)
	}
	return requireAffected(res)
}
