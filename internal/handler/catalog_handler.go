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

type catalogService interface {
	PublicPackages(ctx context.Context) (*dto.PackageGroups, bool, error)
	ServiceChoices(ctx context.Context) ([]dto.ServiceChoice, bool, error)
	ListPackages(ctx context.Context, category string) ([]models.Package, error)
	CreatePackage(ctx context.Context, req dto.PackageRequest, actor *service.Actor) (*models.Package, error)
	UpdatePackage(ctx context.Context, id string, req dto.PackageRequest, actor *service.Actor) (*models.Package, error)
	SetPackageActive(ctx context.Context, id string, active bool, actor *service.Actor) error
	DeletePackage(ctx context.Context, id string, actor *service.Actor) error
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, req dto.ServiceRequest, actor *service.Actor) (*models.Service, error)
	UpdateService(ctx context.Context, id string, req dto.ServiceRequest, actor *service.Actor) (*models.Service, error)
}

// CatalogHandler exposes packages and the services catalogue.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// PublicPackages godoc
// @Summary Active packages
// @Description Active packages grouped into digital and modelling
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *CatalogHandler) PublicPackages(c *gin.Context) {
	groups, hit, err := h.service.PublicPackages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, groups, nil, middleware.ExtractMeta(c))
}

// ServiceChoices godoc
// @Summary Contact form service options
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) ServiceChoices(c *gin.Context) {
	choices, hit, err := h.service.ServiceChoices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, choices, nil, middleware.ExtractMeta(c))
}

// ListPackages godoc
// @Summary List packages
// @Tags Catalog
// @Produce json
// @Param category query string false "digital or modelling"
// @Success 200 {object} response.Envelope
// @Router /admin/packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, packages, nil)
}

// CreatePackage godoc
// @Summary Create package
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.PackageRequest true "Package"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/packages [post]
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid package payload"))
		return
	}
	pkg, err := h.service.CreatePackage(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pkg)
}

// UpdatePackage godoc
// @Summary Update package
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param payload body dto.PackageRequest true "Package"
// @Success 200 {object} response.Envelope
// @Router /admin/packages/{id} [put]
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid package payload"))
		return
	}
	pkg, err := h.service.UpdatePackage(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}

// SetPackageActive godoc
// @Summary Show or hide package
// @Tags Catalog
// @Accept json
// @Param id path string true "Package ID"
// @Param payload body dto.ToggleActiveRequest true "Visibility"
// @Success 204
// @Router /admin/packages/{id}/active [patch]
func (h *CatalogHandler) SetPackageActive(c *gin.Context) {
	var req dto.ToggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		response.Error(c, invalidPayload(err, "active flag is required"))
		return
	}
	if err := h.service.SetPackageActive(c.Request.Context(), c.Param("id"), *req.Active, actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeletePackage godoc
// @Summary Delete package
// @Tags Catalog
// @Param id path string true "Package ID"
// @Success 204
// @Router /admin/packages/{id} [delete]
func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	if err := h.service.DeletePackage(c.Request.Context(), c.Param("id"), actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListServices godoc
// @Summary List services
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, nil)
}

// CreateService godoc
// @Summary Create service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.ServiceRequest true "Service"
// @Success 201 {object} response.Envelope
// @Router /admin/services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid service payload"))
		return
	}
	svc, err := h.service.CreateService(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, svc)
}

// UpdateService godoc
// @Summary Update service
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body dto.ServiceRequest true "Service"
// @Success 200 {object} response.Envelope
// @Router /admin/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req dto.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid service payload"))
		return
	}
	svc, err := h.service.UpdateService(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, svc, nil)
}
