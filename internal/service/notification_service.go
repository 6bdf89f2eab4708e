package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/pkg/jobs"
)

// NotificationTemplate selects the mail layout for a submission.
type NotificationTemplate string

const (
	TemplateContact NotificationTemplate = "contact"
	TemplateQuote   NotificationTemplate = "quote"
)

// JobTypeNotification identifies queued operator notifications.
const JobTypeNotification = "notification"

const contactMailTemplate = `{{define "subject"}}New contact message: {{.Subject}}{{end}}{{define "body"}}You received a new message from the website.

Name: {{.Name}}
Email: {{.Email}}
Phone: {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}
Service interest: {{if .ServiceInterest}}{{.ServiceInterest}}{{else}}-{{end}}
Subject: {{.Subject}}

{{.Message}}

Received: {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
Reference: {{.ID}}
{{end}}`

const quoteMailTemplate = `{{define "subject"}}New Quote Request: {{.Name}} - {{if .PackageName}}{{.PackageName}}{{else}}General Enquiry{{end}}{{end}}{{define "body"}}You received a new quote request.

Name: {{.Name}}
Email: {{.Email}}
Phone: {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}
Package: {{if .PackageName}}{{.PackageName}}{{else}}General Enquiry{{end}}

{{.Message}}

Received: {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
Reference: {{.ID}}
{{end}}`

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type notificationQueue interface {
	Enqueue(job jobs.Job) error
}

// NotificationConfig controls operator notifications.
type NotificationConfig struct {
	Enabled   bool
	Recipient string
	Timeout   time.Duration
	Async     bool
}

// OutgoingMail is a rendered notification ready for delivery.
type OutgoingMail struct {
	To      string
	Subject string
	Body    string
}

// NotificationService tells the operator about new submissions. Delivery is best
// effort: every failure is logged and counted, none reaches the caller.
type NotificationService struct {
	mailer    Mailer
	queue     notificationQueue
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       NotificationConfig
	templates map[NotificationTemplate]*template.Template
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(mailer Mailer, metrics *MetricsService, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &NotificationService{
		mailer:  mailer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		templates: map[NotificationTemplate]*template.Template{
			TemplateContact: template.Must(template.New(string(TemplateContact)).Parse(contactMailTemplate)),
			TemplateQuote:   template.Must(template.New(string(TemplateQuote)).Parse(quoteMailTemplate)),
		},
	}
}

// AttachQueue switches delivery to the background queue when async mode is on.
func (s *NotificationService) AttachQueue(queue notificationQueue) {
	s.queue = queue
}

// Notify renders and dispatches the notification for a stored submission.
func (s *NotificationService) Notify(ctx context.Context, submission *models.Submission, tmpl NotificationTemplate) {
	if s == nil || submission == nil {
		return
	}
	logger := s.logger.With(zap.String("submission_id", submission.ID), zap.String("kind", string(submission.Kind)))

	if !s.cfg.Enabled || s.mailer == nil {
		s.metrics.RecordNotification(OutcomeSkipped)
		logger.Debug("notifications disabled, skipping")
		return
	}
	if s.cfg.Recipient == "" {
		s.metrics.RecordNotification(OutcomeSkipped)
		logger.Warn("notification recipient not configured, skipping")
		return
	}

	mail, err := s.render(submission, tmpl)
	if err != nil {
		s.metrics.RecordNotification(OutcomeFailed)
		logger.Error("render notification failed", zap.Error(err))
		return
	}

	if s.cfg.Async && s.queue != nil {
		job := jobs.Job{ID: submission.ID, Type: JobTypeNotification, Payload: *mail}
		if err := s.queue.Enqueue(job); err != nil {
			s.metrics.RecordNotification(OutcomeFailed)
			logger.Error("enqueue notification failed", zap.Error(err))
			return
		}
		s.metrics.RecordNotification(OutcomeQueued)
		return
	}

	// The caller's cancellation must not cut delivery short, only the timeout may.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()
	if err := s.deliver(sendCtx, *mail); err != nil {
		logger.Error("send notification failed", zap.Error(err))
	}
}

// HandleJob delivers a queued notification. It is the queue's handler.
func (s *NotificationService) HandleJob(ctx context.Context, job jobs.Job) error {
	mail, ok := job.Payload.(OutgoingMail)
	if !ok {
		s.metrics.RecordNotification(OutcomeFailed)
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.deliver(sendCtx, mail)
}

// deliver waits for the mailer at most until ctx is done, even when the mailer
// itself ignores ctx. A send still running at that point counts as failed.
func (s *NotificationService) deliver(ctx context.Context, mail OutgoingMail) error {
	done := make(chan error, 1)
	go func() {
		done <- s.mailer.Send(ctx, mail.To, mail.Subject, mail.Body)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("notification not sent before deadline: %w", ctx.Err())
	}
	if err != nil {
		s.metrics.RecordNotification(OutcomeFailed)
		return err
	}
	s.metrics.RecordNotification(OutcomeSent)
	return nil
}

func (s *NotificationService) render(submission *models.Submission, tmpl NotificationTemplate) (*OutgoingMail, error) {
	t, ok := s.templates[tmpl]
	if !ok {
		return nil, fmt.Errorf("unknown notification template %q", tmpl)
	}
	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", submission); err != nil {
		return nil, fmt.Errorf("render subject: %w", err)
	}
	if err := t.ExecuteTemplate(&body, "body", submission); err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	return &OutgoingMail{
		To:      s.cfg.Recipient,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}
