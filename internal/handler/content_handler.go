package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/response"
)

type contentService interface {
	Home(ctx context.Context) (*dto.HomeResponse, error)
	ListPortfolio(ctx context.Context, query dto.PortfolioQuery) ([]models.PortfolioItem, *models.Pagination, error)
	PortfolioDetail(ctx context.Context, slug string) (*dto.PortfolioDetail, error)
	CreatePortfolioItem(ctx context.Context, req dto.PortfolioItemRequest, actor *service.Actor) (*models.PortfolioItem, error)
	UpdatePortfolioItem(ctx context.Context, id string, req dto.PortfolioItemRequest, actor *service.Actor) (*models.PortfolioItem, error)
	ListGallery(ctx context.Context, activeOnly bool) ([]models.GalleryImage, error)
	CreateGalleryImage(ctx context.Context, req dto.GalleryImageRequest, actor *service.Actor) (*models.GalleryImage, error)
	SetGalleryActive(ctx context.Context, ids []string, active bool, actor *service.Actor) (int, error)
	AdminListPortfolio(ctx context.Context, query dto.AdminPortfolioQuery, actor *service.Actor) ([]models.PortfolioItem, *models.Pagination, error)
	ListProfileImages(ctx context.Context, activeOnly bool) ([]models.ProfileImage, error)
	CreateProfileImage(ctx context.Context, req dto.ProfileImageRequest, actor *service.Actor) (*models.ProfileImage, error)
	SetProfileImagesActive(ctx context.Context, ids []string, active bool, actor *service.Actor) (int, error)
}

// ContentHandler serves the home page, portfolio and gallery.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(svc contentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// Home godoc
// @Summary Home page
// @Description Site configuration, profile image, active gallery and featured work
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home [get]
func (h *ContentHandler) Home(c *gin.Context) {
	home, err := h.service.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, home, nil)
}

// ListPortfolio godoc
// @Summary Portfolio listing
// @Tags Content
// @Produce json
// @Param category query string false "digital or modelling"
// @Param q query string false "Search text"
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /portfolio [get]
func (h *ContentHandler) ListPortfolio(c *gin.Context) {
	var query dto.PortfolioQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.ListPortfolio(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// PortfolioDetail godoc
// @Summary Portfolio item
// @Tags Content
// @Produce json
// @Param slug path string true "Item slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /portfolio/{slug} [get]
func (h *ContentHandler) PortfolioDetail(c *gin.Context) {
	detail, err := h.service.PortfolioDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// AdminListPortfolio godoc
// @Summary Portfolio listing for operators
// @Description Includes unpublished items
// @Tags Content
// @Produce json
// @Param category query string false "digital or modelling"
// @Param published query bool false "Published state"
// @Param featured query bool false "Featured state"
// @Param q query string false "Search text"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/portfolio [get]
func (h *ContentHandler) AdminListPortfolio(c *gin.Context) {
	var query dto.AdminPortfolioQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.AdminListPortfolio(c.Request.Context(), query, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// CreatePortfolioItem godoc
// @Summary Create portfolio item
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.PortfolioItemRequest true "Portfolio item"
// @Success 201 {object} response.Envelope
// @Router /admin/portfolio [post]
func (h *ContentHandler) CreatePortfolioItem(c *gin.Context) {
	var req dto.PortfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid portfolio payload"))
		return
	}
	item, err := h.service.CreatePortfolioItem(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdatePortfolioItem godoc
// @Summary Update portfolio item
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param payload body dto.PortfolioItemRequest true "Portfolio item"
// @Success 200 {object} response.Envelope
// @Router /admin/portfolio/{id} [put]
func (h *ContentHandler) UpdatePortfolioItem(c *gin.Context) {
	var req dto.PortfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid portfolio payload"))
		return
	}
	item, err := h.service.UpdatePortfolioItem(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ListGallery godoc
// @Summary Gallery images
// @Tags Content
// @Produce json
// @Param active query bool false "Only active images"
// @Success 200 {object} response.Envelope
// @Router /admin/gallery [get]
func (h *ContentHandler) ListGallery(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	images, err := h.service.ListGallery(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, images, nil)
}

// CreateGalleryImage godoc
// @Summary Add gallery image
// @Description Title defaults to the file name, alt text to the title
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.GalleryImageRequest true "Gallery image"
// @Success 201 {object} response.Envelope
// @Router /admin/gallery [post]
func (h *ContentHandler) CreateGalleryImage(c *gin.Context) {
	var req dto.GalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid gallery payload"))
		return
	}
	img, err := h.service.CreateGalleryImage(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, img)
}

// SetGalleryActive godoc
// @Summary Bulk show or hide gallery images
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.BulkActiveRequest true "IDs and visibility"
// @Success 200 {object} response.Envelope
// @Router /admin/gallery/bulk-active [post]
func (h *ContentHandler) SetGalleryActive(c *gin.Context) {
	var req dto.BulkActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil || len(req.IDs) == 0 {
		response.Error(c, invalidPayload(err, "ids and active flag are required"))
		return
	}
	updated, err := h.service.SetGalleryActive(c.Request.Context(), req.IDs, *req.Active, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkResult{Updated: updated}, nil)
}

// ListProfileImages godoc
// @Summary Profile images
// @Tags Content
// @Produce json
// @Param active query bool false "Only active images"
// @Success 200 {object} response.Envelope
// @Router /admin/profile-images [get]
func (h *ContentHandler) ListProfileImages(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	images, err := h.service.ListProfileImages(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, images, nil)
}

// CreateProfileImage godoc
// @Summary Add profile image
// @Description Title defaults to the file name
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.ProfileImageRequest true "Profile image"
// @Success 201 {object} response.Envelope
// @Router /admin/profile-images [post]
func (h *ContentHandler) CreateProfileImage(c *gin.Context) {
	var req dto.ProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err, "invalid profile image payload"))
		return
	}
	img, err := h.service.CreateProfileImage(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, img)
}

// SetProfileImagesActive godoc
// @Summary Bulk activate or deactivate profile images
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.BulkActiveRequest true "IDs and visibility"
// @Success 200 {object} response.Envelope
// @Router /admin/profile-images/bulk-active [post]
func (h *ContentHandler) SetProfileImagesActive(c *gin.Context) {
	var req dto.BulkActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil || len(req.IDs) == 0 {
		response.Error(c, invalidPayload(err, "ids and active flag are required"))
		return
	}
	updated, err := h.service.SetProfileImagesActive(c.Request.Context(), req.IDs, *req.Active, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkResult{Updated: updated}, nil)
}
