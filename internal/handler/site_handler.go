package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/middleware"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/response"
)

type siteConfigService interface {
	Public(ctx context.Context) (*models.SiteConfig, bool, error)
	Get(ctx context.Context) (*models.SiteConfig, error)
	Create(ctx context.Context, req dto.SiteConfigRequest, actor *service.Actor) (*models.SiteConfig, error)
	Update(ctx context.Context, req dto.SiteConfigRequest, actor *service.Actor) (*models.SiteConfig, error)
}

// SiteHandler serves the singleton site configuration.
type SiteHandler struct {
	service siteConfigService
}

// NewSiteHandler constructs a SiteHandler.
func NewSiteHandler(svc siteConfigService) *SiteHandler {
	return &SiteHandler{service: svc}
}

// Public godoc
// @Summary Site configuration
// @Description Site-wide text and contact details, defaults until configured
// @Tags Site
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /site [get]
func (h *SiteHandler) Public(c *gin.Context) {
	cfg, hit, err := h.service.Public(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, cfg, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Stored site configuration
// @Tags Site
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/site-config [get]
func (h *SiteHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// Create godoc
// @Summary Create site configuration
// @Description Only one configuration may exist; a second create is rejected
// @Tags Site
// @Accept json
// @Produce json
// @Param payload body dto.SiteConfigRequest true "Site configuration"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/site-config [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req dto.SiteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid site configuration payload"))
		return
	}
	cfg, err := h.service.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// Update godoc
// @Summary Update site configuration
// @Tags Site
// @Accept json
// @Produce json
// @Param payload body dto.SiteConfigRequest true "Site configuration"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/site-config [put]
func (h *SiteHandler) Update(c *gin.Context) {
	var req dto.SiteConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid site configuration payload"))
		return
	}
	cfg, err := h.service.Update(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
