package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
	"github.com/noah-isme/portfolio-api/pkg/export"
	"github.com/noah-isme/portfolio-api/pkg/storage"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type submissionExportSource interface {
	ListAll(ctx context.Context, kind models.SubmissionKind, filter models.SubmissionFilter) ([]models.Submission, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportFile is a rendered export ready to stream back.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders submission listings to CSV or PDF behind signed links.
type ExportService struct {
	source    submissionExportSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	audit     auditRecorder
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source submissionExportSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, audit auditWriter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		source:    source,
		storage:   files,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		validator: validator.New(),
		audit:     auditRecorder{writer: audit, logger: logger},
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Export renders the submissions of a kind and returns a signed download link.
func (s *ExportService) Export(ctx context.Context, kind models.SubmissionKind, req dto.ExportRequest, actor *Actor) (*dto.ExportResponse, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := validKind(kind); err != nil {
		return nil, err
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	filter := models.SubmissionFilter{}
	if req.Status != "" {
		status := models.SubmissionStatus(req.Status)
		filter.Status = &status
	}
	rows, err := s.source.ListAll(ctx, kind, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions")
	}

	dataset := submissionDataset(kind, rows)
	var payload []byte
	switch req.Format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, exportTitle(kind, req.Status))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("%s_%s_%s.%s", kind, s.now().Format("20060102_150405"), exportID[:8], req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("submission export generated",
		zap.String("kind", string(kind)),
		zap.String("format", req.Format),
		zap.Int("rows", len(rows)),
	)
	s.audit.record(ctx, actor, models.AuditActionSubmissionExport, string(kind), exportID, nil,
		map[string]interface{}{"format": req.Format, "status": req.Status, "rows": len(rows)})

	return &dto.ExportResponse{
		DownloadURL: fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt:   expiresAt,
		Rows:        len(rows),
	}, nil
}

// Download resolves a signed token to the stored file.
func (s *ExportService) Download(token string) (*ExportFile, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export link is invalid or expired")
	}
	data, err := s.storage.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	contentType := "text/csv"
	if path.Ext(relPath) == "."+ExportFormatPDF {
		contentType = "application/pdf"
	}
	return &ExportFile{Filename: path.Base(relPath), ContentType: contentType, Data: data}, nil
}

// Cleanup removes files older than ttl, falling back to the configured result TTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

func submissionDataset(kind models.SubmissionKind, rows []models.Submission) export.Dataset {
	headers := []string{"Date", "Name", "Email", "Phone", "Subject", "Service", "Message", "Status"}
	if kind == models.SubmissionQuote {
		headers = []string{"Date", "Name", "Email", "Phone", "Package", "Message", "Status"}
	}
	data := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		record := map[string]string{
			"Date":    row.CreatedAt.Format("2006-01-02 15:04"),
			"Name":    row.Name,
			"Email":   row.Email,
			"Phone":   row.Phone,
			"Message": row.Message,
			"Status":  string(row.Status()),
		}
		if kind == models.SubmissionQuote {
			record["Package"] = "General Enquiry"
			if row.PackageName != nil && *row.PackageName != "" {
				record["Package"] = *row.PackageName
			}
		} else {
			record["Subject"] = row.Subject
			record["Service"] = row.ServiceInterest
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func exportTitle(kind models.SubmissionKind, status string) string {
	title := "Contact Messages"
	if kind == models.SubmissionQuote {
		title = "Quote Requests"
	}
	if status != "" {
		title += " (" + status + ")"
	}
	return title
}
