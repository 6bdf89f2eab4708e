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

type exportService interface {
	Export(ctx context.Context, kind models.SubmissionKind, req dto.ExportRequest, actor *service.Actor) (*dto.ExportResponse, error)
	Download(token string) (*service.ExportFile, error)
}

// ExportHandler renders submission exports and serves signed downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create godoc
// @Summary Export submissions
// @Description Render contact messages or quote requests as CSV or PDF and return a signed link
// @Tags Moderation
// @Accept json
// @Produce json
// @Param kind path string true "contact or quote"
// @Param payload body dto.ExportRequest true "Export format and status filter"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/submissions/{kind}/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid export payload"))
		return
	}
	res, err := h.service.Export(c.Request.Context(), kindParam(c), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, res, nil)
}

// Download godoc
// @Summary Download export
// @Description The signed token is the only credential
// @Tags Moderation
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
