package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type packageStoreStub struct {
	packages  []models.Package
	lists     int
	createErr error
	created   *models.Package
}

func (s *packageStoreStub) List(ctx context.Context, filter models.PackageFilter) ([]models.Package, error) {
	s.lists++
	var out []models.Package
	for _, pkg := range s.packages {
		if filter.ActiveOnly && !pkg.IsActive {
			continue
		}
		if filter.Category != nil && pkg.Category != *filter.Category {
			continue
		}
		out = append(out, pkg)
	}
	return out, nil
}

func (s *packageStoreStub) FindByID(ctx context.Context, id string) (*models.Package, error) {
	for i := range s.packages {
		if s.packages[i].ID == id {
			pkg := s.packages[i]
			return &pkg, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *packageStoreStub) Create(ctx context.Context, pkg *models.Package) error {
	if s.createErr != nil {
		return s.createErr
	}
	pkg.ID = "pkg-new"
	s.created = pkg
	s.packages = append(s.packages, *pkg)
	return nil
}

func (s *packageStoreStub) Update(ctx context.Context, pkg *models.Package) error {
	return nil
}

func (s *packageStoreStub) SetActive(ctx context.Context, id string, active bool) error {
	for i := range s.packages {
		if s.packages[i].ID == id {
			s.packages[i].IsActive = active
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *packageStoreStub) Delete(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

type serviceStoreStub struct {
	services []models.Service
}

func (s *serviceStoreStub) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	var out []models.Service
	for _, svc := range s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (s *serviceStoreStub) FindByID(ctx context.Context, id string) (*models.Service, error) {
	return nil, sql.ErrNoRows
}

func (s *serviceStoreStub) Create(ctx context.Context, svc *models.Service) error {
	svc.ID = "svc-new"
	s.services = append(s.services, *svc)
	return nil
}

func (s *serviceStoreStub) Update(ctx context.Context, svc *models.Service) error {
	return nil
}

func newCatalogForTest() (*CatalogService, *packageStoreStub, *auditStub) {
	packages := &packageStoreStub{packages: []models.Package{
		{ID: "p1", Name: "Basic", Category: models.CategoryDigital, IsActive: true},
		{ID: "p2", Name: "Full Day", Category: models.CategoryModelling, IsActive: true},
		{ID: "p3", Name: "Retired", Category: models.CategoryModelling, IsActive: false},
	}}
	services := &serviceStoreStub{services: []models.Service{
		{ID: "s1", Name: "Photo Shoot", IsActive: true},
		{ID: "s2", Name: "Old Service", IsActive: false},
	}}
	audit := &auditStub{}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	return NewCatalogService(packages, services, cache, nil, audit, nil), packages, audit
}

func TestCatalogPublicPackagesGroupsActiveByCategory(t *testing.T) {
	svc, packages, _ := newCatalogForTest()

	groups, hit, err := svc.PublicPackages(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, groups.Digital, 1)
	require.Len(t, groups.Modelling, 1)
	assert.Equal(t, "Full Day", groups.Modelling[0].Name)

	_, hit, err = svc.PublicPackages(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, packages.lists)
}

func TestCatalogMutationInvalidatesCache(t *testing.T) {
	svc, packages, audit := newCatalogForTest()
	_, _, err := svc.PublicPackages(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.SetPackageActive(context.Background(), "p3", true, operator()))
	groups, hit, err := svc.PublicPackages(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, groups.Modelling, 2)
	assert.Equal(t, 2, packages.lists)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionCatalogUpdate, audit.logs[0].Action)
}

func TestCatalogCreatePackageDerivesSlug(t *testing.T) {
	svc, packages, _ := newCatalogForTest()
	pkg, err := svc.CreatePackage(context.Background(), dto.PackageRequest{Name: " Premium ", Category: "digital", Description: "All in"}, operator())
	require.NoError(t, err)
	assert.Equal(t, "digital-creator-premium", pkg.Slug)
	assert.True(t, pkg.IsActive)
	assert.Equal(t, "Premium", packages.created.Name)
}

func TestCatalogCreatePackageConflict(t *testing.T) {
	svc, packages, _ := newCatalogForTest()
	packages.createErr = repository.ErrDuplicate
	_, err := svc.CreatePackage(context.Background(), dto.PackageRequest{Name: "Basic", Category: "digital", Description: "dup"}, operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogCreatePackageValidation(t *testing.T) {
	svc, _, _ := newCatalogForTest()
	_, err := svc.CreatePackage(context.Background(), dto.PackageRequest{Name: "X", Category: "music", Description: "d"}, operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogDeleteMissingPackage(t *testing.T) {
	svc, _, _ := newCatalogForTest()
	err := svc.DeletePackage(context.Background(), "missing", operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceChoicesOnlyActive(t *testing.T) {
	svc, _, _ := newCatalogForTest()
	choices, _, err := svc.ServiceChoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.ServiceChoice{{Value: "photo_shoot", Label: "Photo Shoot"}}, choices)
}

func TestCatalogUpdateMissingService(t *testing.T) {
	svc, _, _ := newCatalogForTest()
	_, err := svc.UpdateService(context.Background(), "missing", dto.ServiceRequest{Name: "X"}, operator())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
