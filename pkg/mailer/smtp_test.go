package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/pkg/config"
)

func TestSMTPMailerRejectsEmptyRecipient(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "localhost", From: "noreply@example.com"})
	err := m.Send(context.Background(), " ", "subject", "body")
	require.Error(t, err)
}

func TestSMTPMailerRejectsInvalidSender(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "localhost", From: "not an address"})
	err := m.Send(context.Background(), "ops@example.com", "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender")
}

func TestSMTPMailerClientOptions(t *testing.T) {
	anonymous := NewSMTPMailer(config.MailConfig{Host: "localhost"})
	assert.Len(t, anonymous.clientOptions(), 1)

	authed := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p"})
	assert.Len(t, authed.clientOptions(), 5)
}
