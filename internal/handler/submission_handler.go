package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/pkg/response"
)

type submissionService interface {
	SubmitContact(ctx context.Context, form dto.ContactForm) (*dto.SubmissionReceipt, error)
	SubmitQuote(ctx context.Context, form dto.QuoteForm) (*dto.SubmissionReceipt, error)
}

// SubmissionHandler accepts the public contact and quote forms.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(svc submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// Contact godoc
// @Summary Send a contact message
// @Description Accepts form-encoded or JSON contact form posts
// @Tags Submissions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.ContactForm true "Contact form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /contact [post]
func (h *SubmissionHandler) Contact(c *gin.Context) {
	var form dto.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, invalidPayload(err, "invalid contact payload"))
		return
	}
	receipt, err := h.service.SubmitContact(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, receipt, nil)
}

// Quote godoc
// @Summary Request a quote
// @Description Accepts form-encoded or JSON quote requests, optionally naming a package
// @Tags Submissions
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.QuoteForm true "Quote form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /quote [post]
func (h *SubmissionHandler) Quote(c *gin.Context) {
	var form dto.QuoteForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, invalidPayload(err, "invalid quote payload"))
		return
	}
	if form.Package == "" {
		form.Package = c.Query("package")
	}
	receipt, err := h.service.SubmitQuote(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, receipt, nil)
}
