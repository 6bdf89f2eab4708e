package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type siteConfigStore interface {
	Get(ctx context.Context) (*models.SiteConfig, error)
	Create(ctx context.Context, cfg *models.SiteConfig) error
	Update(ctx context.Context, cfg *models.SiteConfig) error
}

// SiteConfigService manages the singleton site configuration. Uniqueness is
// enforced by the store on insert, never by a prior existence check.
type SiteConfigService struct {
	store     siteConfigStore
	cache     *CacheService
	validator *validator.Validate
	audit     auditRecorder
	logger    *zap.Logger
}

// NewSiteConfigService constructs a SiteConfigService.
func NewSiteConfigService(store siteConfigStore, cache *CacheService, validate *validator.Validate, audit auditWriter, logger *zap.Logger) *SiteConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SiteConfigService{
		store:     store,
		cache:     cache,
		validator: validate,
		audit:     auditRecorder{writer: audit, logger: logger},
		logger:    logger,
	}
}

// Public returns the configuration for the public site, falling back to defaults
// until an operator has saved one.
func (s *SiteConfigService) Public(ctx context.Context) (*models.SiteConfig, bool, error) {
	cfg, hit, err := Remember(ctx, s.cache, CacheKeySiteConfig, func(ctx context.Context) (*models.SiteConfig, error) {
		cfg, err := s.store.Get(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultSiteConfig()
			return &defaults, nil
		}
		return cfg, err
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site configuration")
	}
	return cfg, hit, nil
}

// Get returns the stored configuration for the admin surface.
func (s *SiteConfigService) Get(ctx context.Context) (*models.SiteConfig, error) {
	cfg, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site configuration has not been created")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site configuration")
	}
	return cfg, nil
}

// Create stores the first configuration. A second call fails with CONFLICT.
func (s *SiteConfigService) Create(ctx context.Context, req dto.SiteConfigRequest, actor *Actor) (*models.SiteConfig, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site configuration payload")
	}
	cfg := siteConfigFromRequest(req)
	if err := s.store.Create(ctx, cfg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "site configuration already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create site configuration")
	}
	_ = s.cache.Invalidate(ctx, CacheKeySiteConfig)
	s.audit.record(ctx, actor, models.AuditActionSiteConfig, "site_config", "1", nil, cfg)
	return cfg, nil
}

// Update overwrites the stored configuration.
func (s *SiteConfigService) Update(ctx context.Context, req dto.SiteConfigRequest, actor *Actor) (*models.SiteConfig, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site configuration payload")
	}
	before, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg := siteConfigFromRequest(req)
	cfg.CreatedAt = before.CreatedAt
	if err := s.store.Update(ctx, cfg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "site configuration has not been created")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update site configuration")
	}
	_ = s.cache.Invalidate(ctx, CacheKeySiteConfig)
	s.audit.record(ctx, actor, models.AuditActionSiteConfig, "site_config", "1", before, cfg)
	return cfg, nil
}

func siteConfigFromRequest(req dto.SiteConfigRequest) *models.SiteConfig {
	return &models.SiteConfig{
		SiteName:         req.SiteName,
		SiteDescription:  req.SiteDescription,
		InstagramURL:     req.InstagramURL,
		TiktokURL:        req.TiktokURL,
		WhatsappNumber:   req.WhatsappNumber,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		HeroTitle:        req.HeroTitle,
		HeroSubtitle:     req.HeroSubtitle,
		MainProfileImage: req.MainProfileImage,
	}
}
