package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type packageStore interface {
	List(ctx context.Context, filter models.PackageFilter) ([]models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, pkg *models.Package) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type serviceStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Service, error)
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, svc *models.Service) error
}

// CatalogService manages packages and the services catalogue.
type CatalogService struct {
	packages  packageStore
	services  serviceStore
	cache     *CacheService
	validator *validator.Validate
	audit     auditRecorder
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(packages packageStore, services serviceStore, cache *CacheService, validate *validator.Validate, audit auditWriter, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CatalogService{
		packages:  packages,
		services:  services,
		cache:     cache,
		validator: validate,
		audit:     auditRecorder{writer: audit, logger: logger},
		logger:    logger,
	}
}

// PublicPackages returns active packages grouped by category. The boolean reports a cache hit.
func (s *CatalogService) PublicPackages(ctx context.Context) (*dto.PackageGroups, bool, error) {
	groups, hit, err := Remember(ctx, s.cache, CacheKeyPackages, func(ctx context.Context) (*dto.PackageGroups, error) {
		packages, err := s.packages.List(ctx, models.PackageFilter{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		groups := &dto.PackageGroups{Digital: []models.Package{}, Modelling: []models.Package{}}
		for _, pkg := range packages {
			switch pkg.Category {
			case models.CategoryDigital:
				groups.Digital = append(groups.Digital, pkg)
			case models.CategoryModelling:
				groups.Modelling = append(groups.Modelling, pkg)
			}
		}
		return groups, nil
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load packages")
	}
	return groups, hit, nil
}

// ServiceChoices returns the options of the contact form's service selector.
func (s *CatalogService) ServiceChoices(ctx context.Context) ([]dto.ServiceChoice, bool, error) {
	choices, hit, err := Remember(ctx, s.cache, CacheKeyServices, func(ctx context.Context) ([]dto.ServiceChoice, error) {
		services, err := s.services.List(ctx, true)
		if err != nil {
			return nil, err
		}
		return ServiceChoices(services), nil
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load services")
	}
	return choices, hit, nil
}

// ListPackages returns every package for the admin surface.
func (s *CatalogService) ListPackages(ctx context.Context, category string) ([]models.Package, error) {
	filter := models.PackageFilter{}
	if c := models.PackageCategory(category); c.Valid() {
		filter.Category = &c
	}
	packages, err := s.packages.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	return packages, nil
}

// CreatePackage stores a new package, deriving its slug when none is given.
func (s *CatalogService) CreatePackage(ctx context.Context, req dto.PackageRequest, actor *Actor) (*models.Package, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	pkg := &models.Package{IsActive: true}
	applyPackageRequest(pkg, req)
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, packageWriteError(err)
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "package", pkg.ID, nil, pkg)
	return pkg, nil
}

// UpdatePackage rewrites a package.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, req dto.PackageRequest, actor *Actor) (*models.Package, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, packageWriteError(err)
	}
	before := *pkg
	applyPackageRequest(pkg, req)
	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, packageWriteError(err)
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "package", pkg.ID, before, pkg)
	return pkg, nil
}

// SetPackageActive hides or shows a package on the public site.
func (s *CatalogService) SetPackageActive(ctx context.Context, id string, active bool, actor *Actor) error {
	if err := authorize(actor); err != nil {
		return err
	}
	if err := s.packages.SetActive(ctx, id, active); err != nil {
		return packageWriteError(err)
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "package", id, nil, map[string]bool{"is_active": active})
	return nil
}

// DeletePackage removes a package; quote requests referencing it keep existing.
func (s *CatalogService) DeletePackage(ctx context.Context, id string, actor *Actor) error {
	if err := authorize(actor); err != nil {
		return err
	}
	if err := s.packages.Delete(ctx, id); err != nil {
		return packageWriteError(err)
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "package", id, nil, map[string]bool{"deleted": true})
	return nil
}

// ListServices returns the whole services catalogue.
func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.services.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}
	return services, nil
}

// CreateService adds a services catalogue entry.
func (s *CatalogService) CreateService(ctx context.Context, req dto.ServiceRequest, actor *Actor) (*models.Service, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}
	svc := &models.Service{IsActive: true}
	applyServiceRequest(svc, req)
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service")
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "service", svc.ID, nil, svc)
	return svc, nil
}

// UpdateService rewrites a services catalogue entry.
func (s *CatalogService) UpdateService(ctx context.Context, id string, req dto.ServiceRequest, actor *Actor) (*models.Service, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service payload")
	}
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	before := *svc
	applyServiceRequest(svc, req)
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service")
	}
	s.invalidate(ctx)
	s.audit.record(ctx, actor, models.AuditActionCatalogUpdate, "service", svc.ID, before, svc)
	return svc, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, CachePatternCatalog)
}

func applyPackageRequest(pkg *models.Package, req dto.PackageRequest) {
	pkg.Name = strings.TrimSpace(req.Name)
	pkg.Category = models.PackageCategory(req.Category)
	pkg.Description = strings.TrimSpace(req.Description)
	pkg.Image = req.Image
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}
	if slug := Slugify(req.Slug); slug != "" {
		pkg.Slug = slug
	} else if pkg.Slug == "" {
		pkg.Slug = PackageSlug(pkg.Category, pkg.Name)
	}
}

func applyServiceRequest(svc *models.Service, req dto.ServiceRequest) {
	svc.Name = strings.TrimSpace(req.Name)
	svc.Description = strings.TrimSpace(req.Description)
	svc.SortOrder = req.SortOrder
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
}

func packageWriteError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "package not found")
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrConflict, "a package with this slug already exists")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save package")
	}
}
