package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/dto"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type submissionServiceMock struct {
	contact dto.ContactForm
	quote   dto.QuoteForm
	err     error
}

func (m *submissionServiceMock) SubmitContact(ctx context.Context, form dto.ContactForm) (*dto.SubmissionReceipt, error) {
	m.contact = form
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionReceipt{ID: "c-1", Message: "sent"}, nil
}

func (m *submissionServiceMock) SubmitQuote(ctx context.Context, form dto.QuoteForm) (*dto.SubmissionReceipt, error) {
	m.quote = form
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmissionReceipt{ID: "q-1", Message: "thanks"}, nil
}

func TestSubmissionHandlerContactFormEncoded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &submissionServiceMock{}
	handler := NewSubmissionHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	form := url.Values{}
	form.Set("name", "Ana")
	form.Set("email", "ana@example.com")
	form.Set("phone", "(555) 123-4567")
	form.Set("service_interest", "photo_shoot")
	form.Set("subject", "Shoot")
	form.Set("message", "Hello")
	req, _ := http.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req

	handler.Contact(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "(555) 123-4567", svc.contact.Phone)
	assert.Equal(t, "photo_shoot", svc.contact.ServiceInterest)
	assert.Contains(t, w.Body.String(), `"id":"c-1"`)
}

func TestSubmissionHandlerQuoteJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &submissionServiceMock{}
	handler := NewSubmissionHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(dto.QuoteForm{Name: "Ana", Email: "ana@example.com", Message: "Quote"})
	req, _ := http.NewRequest(http.MethodPost, "/quote?package=pkg-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Quote(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pkg-1", svc.quote.Package)
}

func TestSubmissionHandlerValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	problems := dto.FieldErrors{}
	problems.Add("email", "invalidEmail", "Please enter a valid email address.")
	svc := &submissionServiceMock{err: appErrors.WithDetails(appErrors.ErrValidation, "There was an error with your submission.", problems)}
	handler := NewSubmissionHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, _ := http.NewRequest(http.MethodPost, "/contact", strings.NewReader("email=bad"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req

	handler.Contact(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope struct {
		Error struct {
			Code    string                      `json:"code"`
			Details map[string][]dto.FieldError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Equal(t, "invalidEmail", envelope.Error.Details["email"][0].Code)
}

func TestSubmissionHandlerMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubmissionHandler(&submissionServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/contact", bytes.NewReader([]byte(`{invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Contact(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
