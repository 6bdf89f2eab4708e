package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/response"
)

type moderationService interface {
	List(ctx context.Context, kind models.SubmissionKind, query dto.SubmissionQuery, view service.AdminView, actor *service.Actor) ([]dto.SubmissionView, *models.Pagination, error)
	Get(ctx context.Context, kind models.SubmissionKind, id string, view service.AdminView, actor *service.Actor) (*dto.SubmissionView, error)
	SetStatus(ctx context.Context, kind models.SubmissionKind, id string, resolved bool, actor *service.Actor, view service.AdminView) (*dto.SubmissionView, error)
	BulkSetStatus(ctx context.Context, kind models.SubmissionKind, ids []string, resolved bool, actor *service.Actor) (int, error)
	Delete(ctx context.Context, kind models.SubmissionKind, id string, actor *service.Actor) error
}

// ModerationHandler serves the operator's submission inbox. One instance is
// mounted per admin surface, each with its own view.
type ModerationHandler struct {
	service moderationService
	view    service.AdminView
}

// NewModerationHandler constructs a ModerationHandler for view.
func NewModerationHandler(svc moderationService, view service.AdminView) *ModerationHandler {
	return &ModerationHandler{service: svc, view: view}
}

// List godoc
// @Summary List submissions
// @Description List contact messages or quote requests, newest first
// @Tags Moderation
// @Produce json
// @Param kind path string true "contact or quote"
// @Param status query string false "pending or resolved"
// @Param q query string false "Search text"
// @Param category query string false "Quote package category"
// @Param service_interest query string false "Contact service interest"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/submissions/{kind} [get]
func (h *ModerationHandler) List(c *gin.Context) {
	var query dto.SubmissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), kindParam(c), query, h.view, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get submission
// @Tags Moderation
// @Produce json
// @Param kind path string true "contact or quote"
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{kind}/{id} [get]
func (h *ModerationHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), kindParam(c), c.Param("id"), h.view, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SetStatus godoc
// @Summary Set submission status
// @Description Mark a submission resolved or pending. Re-applying the current status is a no-op.
// @Tags Moderation
// @Accept json
// @Produce json
// @Param kind path string true "contact or quote"
// @Param id path string true "Submission ID"
// @Param payload body dto.SetStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/submissions/{kind}/{id}/status [patch]
func (h *ModerationHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Resolved == nil {
		response.Error(c, invalidPayload(err, "resolved flag is required"))
		return
	}
	h.applyStatus(c, *req.Resolved)
}

// MarkResolved godoc
// @Summary Mark submission resolved
// @Tags Moderation
// @Produce json
// @Param kind path string true "contact or quote"
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /admin/submissions/{kind}/{id}/resolve [post]
func (h *ModerationHandler) MarkResolved(c *gin.Context) {
	h.applyStatus(c, true)
}

// MarkUnresolved godoc
// @Summary Mark submission pending
// @Tags Moderation
// @Produce json
// @Param kind path string true "contact or quote"
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /admin/submissions/{kind}/{id}/unresolve [post]
func (h *ModerationHandler) MarkUnresolved(c *gin.Context) {
	h.applyStatus(c, false)
}

func (h *ModerationHandler) applyStatus(c *gin.Context, resolved bool) {
	item, err := h.service.SetStatus(c.Request.Context(), kindParam(c), c.Param("id"), resolved, actorFromContext(c), h.view)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// BulkStatus godoc
// @Summary Bulk set submission status
// @Tags Moderation
// @Accept json
// @Produce json
// @Param kind path string true "contact or quote"
// @Param payload body dto.BulkStatusRequest true "IDs and target status"
// @Success 200 {object} response.Envelope
// @Router /admin/submissions/{kind}/bulk-status [post]
func (h *ModerationHandler) BulkStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Resolved == nil {
		response.Error(c, invalidPayload(err, "ids and resolved flag are required"))
		return
	}
	updated, err := h.service.BulkSetStatus(c.Request.Context(), kindParam(c), req.IDs, *req.Resolved, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkResult{Updated: updated}, nil)
}

// Delete godoc
// @Summary Delete contact message
// @Description Only contact messages can be deleted
// @Tags Moderation
// @Param kind path string true "contact or quote"
// @Param id path string true "Submission ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /admin/submissions/{kind}/{id} [delete]
func (h *ModerationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), kindParam(c), c.Param("id"), actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
