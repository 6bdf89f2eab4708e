package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

const (
	portfolioPageSize = 9
	relatedItemsLimit = 3
	featuredLimit     = 6
)

type portfolioStore interface {
	List(ctx context.Context, filter models.PortfolioFilter) ([]models.PortfolioItem, int, error)
	ListFeatured(ctx context.Context, limit int) ([]models.PortfolioItem, error)
	FindBySlug(ctx context.Context, slug string) (*models.PortfolioItem, error)
	FindByID(ctx context.Context, id string) (*models.PortfolioItem, error)
	ListImages(ctx context.Context, itemID string) ([]models.PortfolioImage, error)
	ListRelated(ctx context.Context, category models.PackageCategory, excludeID string, limit int) ([]models.PortfolioItem, error)
	Neighbours(ctx context.Context, ts time.Time) (*models.PortfolioItem, *models.PortfolioItem, error)
	Create(ctx context.Context, item *models.PortfolioItem) error
	Update(ctx context.Context, item *models.PortfolioItem) error
}

type galleryStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.GalleryImage, error)
	Create(ctx context.Context, img *models.GalleryImage) error
	SetActive(ctx context.Context, ids []string, active bool) (int, error)
	FirstActiveProfileImage(ctx context.Context) (*models.ProfileImage, error)
	ListProfileImages(ctx context.Context, activeOnly bool) ([]models.ProfileImage, error)
	CreateProfileImage(ctx context.Context, img *models.ProfileImage) error
	SetProfileImagesActive(ctx context.Context, ids []string, active bool) (int, error)
}

type publicSiteConfig interface {
	Public(ctx context.Context) (*models.SiteConfig, bool, error)
}

// ContentService serves portfolio, gallery and home page content.
type ContentService struct {
	portfolio portfolioStore
	gallery   galleryStore
	site      publicSiteConfig
	cache     *CacheService
	validator *validator.Validate
	audit     auditRecorder
	logger    *zap.Logger
}

// NewContentService constructs a ContentService.
func NewContentService(portfolio portfolioStore, gallery galleryStore, site publicSiteConfig, cache *CacheService, validate *validator.Validate, audit auditWriter, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContentService{
		portfolio: portfolio,
		gallery:   gallery,
		site:      site,
		cache:     cache,
		validator: validate,
		audit:     auditRecorder{writer: audit, logger: logger},
		logger:    logger,
	}
}

// Home gathers the home page: site config, profile image, active gallery and featured work.
func (s *ContentService) Home(ctx context.Context) (*dto.HomeResponse, error) {
	site, _, err := s.site.Public(ctx)
	if err != nil {
		return nil, err
	}
	gallery, _, err := Remember(ctx, s.cache, CacheKeyGallery, func(ctx context.Context) ([]models.GalleryImage, error) {
		return s.gallery.List(ctx, true)
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load gallery")
	}
	featured, err := s.portfolio.ListFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured work")
	}
	if gallery == nil {
		gallery = []models.GalleryImage{}
	}
	if featured == nil {
		featured = []models.PortfolioItem{}
	}
	return &dto.HomeResponse{
		Site:         *site,
		ProfileImage: s.profileImage(ctx, site),
		Gallery:      gallery,
		Featured:     featured,
	}, nil
}

// profileImage prefers the site's main image, then the newest active profile image.
func (s *ContentService) profileImage(ctx context.Context, site *models.SiteConfig) *string {
	if site != nil && site.MainProfileImage != nil && *site.MainProfileImage != "" {
		return site.MainProfileImage
	}
	img, err := s.gallery.FirstActiveProfileImage(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load profile image", zap.Error(err))
		}
		return nil
	}
	return &img.Image
}

// ListPortfolio returns published items, nine per page. Unknown categories are ignored.
func (s *ContentService) ListPortfolio(ctx context.Context, query dto.PortfolioQuery) ([]models.PortfolioItem, *models.Pagination, error) {
	filter := models.PortfolioFilter{
		Search:        strings.TrimSpace(query.Search),
		PublishedOnly: true,
		Page:          query.Page,
		PageSize:      portfolioPageSize,
	}
	if c := models.PackageCategory(query.Category); c.Valid() {
		filter.Category = &c
	}
	items, total, err := s.portfolio.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list portfolio")
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize, portfolioPageSize)
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// AdminListPortfolio lists portfolio items for operators, including unpublished ones.
func (s *ContentService) AdminListPortfolio(ctx context.Context, query dto.AdminPortfolioQuery, actor *Actor) ([]models.PortfolioItem, *models.Pagination, error) {
	if err := authorize(actor); err != nil {
		return nil, nil, err
	}
	filter := models.PortfolioFilter{
		Search:    strings.TrimSpace(query.Search),
		Published: query.Published,
		Featured:  query.Featured,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.Category != "" {
		c := models.PackageCategory(query.Category)
		if !c.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "category must be digital or modelling")
		}
		filter.Category = &c
	}
	items, total, err := s.portfolio.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list portfolio")
	}
	if items == nil {
		items = []models.PortfolioItem{}
	}
	page, size := models.NormalizePage(filter.Page, filter.PageSize, portfolioPageSize)
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// PortfolioDetail returns a published item with its images, related work and neighbours.
func (s *ContentService) PortfolioDetail(ctx context.Context, slug string) (*dto.PortfolioDetail, error) {
	item, err := s.portfolio.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "portfolio item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load portfolio item")
	}
	if !item.Published {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "portfolio item not found")
	}
	if item.Images, err = s.portfolio.ListImages(ctx, item.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load portfolio images")
	}
	related, err := s.portfolio.ListRelated(ctx, item.Category, item.ID, relatedItemsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load related work")
	}
	prev, next, err := s.portfolio.Neighbours(ctx, item.CreatedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load neighbours")
	}
	if related == nil {
		related = []models.PortfolioItem{}
	}
	return &dto.PortfolioDetail{Item: *item, Related: related, Previous: prev, Next: next}, nil
}

// CreatePortfolioItem stores a new portfolio item; the slug defaults to the title.
func (s *ContentService) CreatePortfolioItem(ctx context.Context, req dto.PortfolioItemRequest, actor *Actor) (*models.PortfolioItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid portfolio payload")
	}
	item := &models.PortfolioItem{Published: true}
	applyPortfolioRequest(item, req)
	if err := s.portfolio.Create(ctx, item); err != nil {
		return nil, portfolioWriteError(err)
	}
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "portfolio_item", item.ID, nil, item)
	return item, nil
}

// UpdatePortfolioItem rewrites an item and its images.
func (s *ContentService) UpdatePortfolioItem(ctx context.Context, id string, req dto.PortfolioItemRequest, actor *Actor) (*models.PortfolioItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid portfolio payload")
	}
	item, err := s.portfolio.FindByID(ctx, id)
	if err != nil {
		return nil, portfolioWriteError(err)
	}
	before := *item
	applyPortfolioRequest(item, req)
	if err := s.portfolio.Update(ctx, item); err != nil {
		return nil, portfolioWriteError(err)
	}
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "portfolio_item", item.ID, before, item)
	return item, nil
}

// ListGallery returns gallery images; the admin surface sees inactive ones too.
func (s *ContentService) ListGallery(ctx context.Context, activeOnly bool) ([]models.GalleryImage, error) {
	images, err := s.gallery.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list gallery")
	}
	return images, nil
}

// CreateGalleryImage stores a gallery image, deriving title and alt text when blank.
func (s *ContentService) CreateGalleryImage(ctx context.Context, req dto.GalleryImageRequest, actor *Actor) (*models.GalleryImage, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gallery payload")
	}
	img := &models.GalleryImage{
		Title:     strings.TrimSpace(req.Title),
		Image:     strings.TrimSpace(req.Image),
		AltText:   strings.TrimSpace(req.AltText),
		Caption:   strings.TrimSpace(req.Caption),
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		img.IsActive = *req.IsActive
	}
	if img.Title == "" {
		img.Title = TitleFromFilename(img.Image)
	}
	if img.AltText == "" {
		img.AltText = img.Title
	}
	if err := s.gallery.Create(ctx, img); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create gallery image")
	}
	_ = s.cache.Invalidate(ctx, CachePatternContent)
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "gallery_image", img.ID, nil, img)
	return img, nil
}

// SetGalleryActive bulk activates or deactivates gallery images and returns the count.
func (s *ContentService) SetGalleryActive(ctx context.Context, ids []string, active bool, actor *Actor) (int, error) {
	if err := authorize(actor); err != nil {
		return 0, err
	}
	count, err := s.gallery.SetActive(ctx, ids, active)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update gallery")
	}
	_ = s.cache.Invalidate(ctx, CachePatternContent)
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "gallery_image", "", nil, map[string]interface{}{"ids": ids, "is_active": active, "updated": count})
	return count, nil
}

// ListProfileImages returns profile images for the admin surface.
func (s *ContentService) ListProfileImages(ctx context.Context, activeOnly bool) ([]models.ProfileImage, error) {
	images, err := s.gallery.ListProfileImages(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profile images")
	}
	if images == nil {
		images = []models.ProfileImage{}
	}
	return images, nil
}

// CreateProfileImage stores a profile image; the title defaults to the file name.
func (s *ContentService) CreateProfileImage(ctx context.Context, req dto.ProfileImageRequest, actor *Actor) (*models.ProfileImage, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile image payload")
	}
	img := &models.ProfileImage{
		Title:       strings.TrimSpace(req.Title),
		Image:       strings.TrimSpace(req.Image),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
	}
	if req.IsActive != nil {
		img.IsActive = *req.IsActive
	}
	if img.Title == "" {
		img.Title = TitleFromFilename(img.Image)
	}
	if err := s.gallery.CreateProfileImage(ctx, img); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile image")
	}
	_ = s.cache.Invalidate(ctx, CachePatternContent)
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "profile_image", img.ID, nil, img)
	return img, nil
}

// SetProfileImagesActive bulk activates or deactivates profile images and returns the count.
func (s *ContentService) SetProfileImagesActive(ctx context.Context, ids []string, active bool, actor *Actor) (int, error) {
	if err := authorize(actor); err != nil {
		return 0, err
	}
	count, err := s.gallery.SetProfileImagesActive(ctx, ids, active)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile images")
	}
	_ = s.cache.Invalidate(ctx, CachePatternContent)
	s.audit.record(ctx, actor, models.AuditActionContentUpdate, "profile_image", "", nil, map[string]interface{}{"ids": ids, "is_active": active, "updated": count})
	return count, nil
}

func applyPortfolioRequest(item *models.PortfolioItem, req dto.PortfolioItemRequest) {
	item.Title = strings.TrimSpace(req.Title)
	item.Description = strings.TrimSpace(req.Description)
	item.Category = models.PackageCategory(req.Category)
	item.MainImage = strings.TrimSpace(req.MainImage)
	item.IsFeatured = req.IsFeatured
	if req.Published != nil {
		item.Published = *req.Published
	}
	if slug := Slugify(req.Slug); slug != "" {
		item.Slug = slug
	} else if item.Slug == "" {
		item.Slug = Slugify(item.Title)
	}
	item.Images = make([]models.PortfolioImage, 0, len(req.Images))
	for _, img := range req.Images {
		item.Images = append(item.Images, models.PortfolioImage{
			Image:     strings.TrimSpace(img.Image),
			Caption:   strings.TrimSpace(img.Caption),
			SortOrder: img.SortOrder,
		})
	}
}

func portfolioWriteError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "portfolio item not found")
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrConflict, "a portfolio item with this slug already exists")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save portfolio item")
	}
}
