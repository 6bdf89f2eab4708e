package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/pkg/jobs"
)

type recordingMailer struct {
	sent    []OutgoingMail
	err     error
	ctx     context.Context
	sendErr error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.ctx = ctx
	m.sendErr = ctx.Err()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, OutgoingMail{To: to, Subject: subject, Body: body})
	return nil
}

// stalledMailer ignores its context and returns only once released.
type stalledMailer struct {
	release chan struct{}
}

func (m *stalledMailer) Send(ctx context.Context, to, subject, body string) error {
	select {
	case <-m.release:
	case <-time.After(2 * time.Second):
	}
	return nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func sampleQuote() *models.Submission {
	name := "Starter Shoot"
	return &models.Submission{
		ID:          "q-1",
		Kind:        models.SubmissionQuote,
		Name:        "Ana",
		Email:       "ana@example.com",
		Message:     "Can we talk?",
		PackageName: &name,
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNotifyRendersQuoteTemplate(t *testing.T) {
	mailer := &recordingMailer{}
	metrics := NewMetricsService()
	svc := NewNotificationService(mailer, metrics, NotificationConfig{Enabled: true, Recipient: "ops@example.com"}, zap.NewNop())

	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)

	require.Len(t, mailer.sent, 1)
	mail := mailer.sent[0]
	assert.Equal(t, "ops@example.com", mail.To)
	assert.Equal(t, "New Quote Request: Ana - Starter Shoot", mail.Subject)
	assert.Contains(t, mail.Body, "Phone: Not provided")
	assert.Contains(t, mail.Body, "Can we talk?")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeSent)))
}

func TestNotifyQuoteWithoutPackage(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, nil, NotificationConfig{Enabled: true, Recipient: "ops@example.com"}, nil)
	quote := sampleQuote()
	quote.PackageName = nil

	svc.Notify(context.Background(), quote, TemplateQuote)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "New Quote Request: Ana - General Enquiry", mailer.sent[0].Subject)
}

func TestNotifySkipsWhenDisabled(t *testing.T) {
	mailer := &recordingMailer{}
	metrics := NewMetricsService()
	svc := NewNotificationService(mailer, metrics, NotificationConfig{Enabled: false, Recipient: "ops@example.com"}, nil)

	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeSkipped)))

	svc = NewNotificationService(mailer, metrics, NotificationConfig{Enabled: true}, nil)
	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeSkipped)))
}

func TestNotifySwallowsMailerError(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	metrics := NewMetricsService()
	svc := NewNotificationService(mailer, metrics, NotificationConfig{Enabled: true, Recipient: "ops@example.com"}, nil)

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeFailed)))
}

func TestNotifySurvivesCancelledRequest(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, nil, NotificationConfig{Enabled: true, Recipient: "ops@example.com", Timeout: time.Second}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc.Notify(ctx, sampleQuote(), TemplateQuote)
	require.Len(t, mailer.sent, 1)
	assert.NoError(t, mailer.sendErr)
	_, hasDeadline := mailer.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestNotifyBoundsWaitOnStalledMailer(t *testing.T) {
	mailer := &stalledMailer{release: make(chan struct{})}
	defer close(mailer.release)
	metrics := NewMetricsService()
	svc := NewNotificationService(mailer, metrics, NotificationConfig{Enabled: true, Recipient: "ops@example.com", Timeout: 50 * time.Millisecond}, nil)

	start := time.Now()
	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeSent)))
}

func TestHandleJobReportsDeadline(t *testing.T) {
	mailer := &stalledMailer{release: make(chan struct{})}
	defer close(mailer.release)
	svc := NewNotificationService(mailer, nil, NotificationConfig{Enabled: true, Recipient: "ops@example.com", Timeout: 20 * time.Millisecond}, nil)

	err := svc.HandleJob(context.Background(), jobs.Job{Type: JobTypeNotification, Payload: OutgoingMail{To: "ops@example.com"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNotifyAsyncEnqueuesJob(t *testing.T) {
	mailer := &recordingMailer{}
	queue := &queueStub{}
	metrics := NewMetricsService()
	svc := NewNotificationService(mailer, metrics, NotificationConfig{Enabled: true, Recipient: "ops@example.com", Async: true}, nil)
	svc.AttachQueue(queue)

	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	assert.Empty(t, mailer.sent)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeNotification, queue.jobs[0].Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeQueued)))

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "New Quote Request: Ana - Starter Shoot", mailer.sent[0].Subject)
}

func TestNotifyAsyncQueueFull(t *testing.T) {
	queue := &queueStub{err: errors.New("queue full")}
	metrics := NewMetricsService()
	svc := NewNotificationService(&recordingMailer{}, metrics, NotificationConfig{Enabled: true, Recipient: "ops@example.com", Async: true}, nil)
	svc.AttachQueue(queue)

	svc.Notify(context.Background(), sampleQuote(), TemplateQuote)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.notifications.WithLabelValues(OutcomeFailed)))
}

func TestHandleJobRejectsUnknownPayload(t *testing.T) {
	svc := NewNotificationService(&recordingMailer{}, nil, NotificationConfig{Enabled: true, Recipient: "ops@example.com"}, nil)
	err := svc.HandleJob(context.Background(), jobs.Job{ID: "x", Payload: "oops"})
	assert.Error(t, err)
}
