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

// siteConfigStoreStub behaves like a table keyed on a single fixed id.
type siteConfigStoreStub struct {
	row  *models.SiteConfig
	gets int
}

func (s *siteConfigStoreStub) Get(ctx context.Context) (*models.SiteConfig, error) {
	s.gets++
	if s.row == nil {
		return nil, sql.ErrNoRows
	}
	clone := *s.row
	return &clone, nil
}

func (s *siteConfigStoreStub) Create(ctx context.Context, cfg *models.SiteConfig) error {
	if s.row != nil {
		return repository.ErrDuplicate
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.ID = models.SiteConfigID
	cfg.CreatedAt = &now
	clone := *cfg
	s.row = &clone
	return nil
}

func (s *siteConfigStoreStub) Update(ctx context.Context, cfg *models.SiteConfig) error {
	if s.row == nil {
		return sql.ErrNoRows
	}
	clone := *cfg
	s.row = &clone
	return nil
}

func siteRequest(name string) dto.SiteConfigRequest {
	return dto.SiteConfigRequest{SiteName: name, HeroTitle: "IMA ANA", Email: "hello@example.com"}
}

func TestSiteConfigPublicFallsBackToDefaults(t *testing.T) {
	svc := NewSiteConfigService(&siteConfigStoreStub{}, nil, nil, nil, nil)
	cfg, _, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IMA ANA Portfolio", cfg.SiteName)
	assert.Equal(t, "Digital Creator & Professional Model", cfg.SiteDescription)
}

func TestSiteConfigGetBeforeCreate(t *testing.T) {
	svc := NewSiteConfigService(&siteConfigStoreStub{}, nil, nil, nil, nil)
	_, err := svc.Get(context.Background())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSiteConfigSecondCreateConflicts(t *testing.T) {
	store := &siteConfigStoreStub{}
	audit := &auditStub{}
	svc := NewSiteConfigService(store, nil, nil, audit, nil)

	cfg, err := svc.Create(context.Background(), siteRequest("First"), operator())
	require.NoError(t, err)
	assert.Equal(t, "First", cfg.SiteName)

	_, err = svc.Create(context.Background(), siteRequest("Second"), operator())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "First", store.row.SiteName)
	assert.Len(t, audit.logs, 1)
}

func TestSiteConfigUpdateKeepsCreatedAt(t *testing.T) {
	store := &siteConfigStoreStub{}
	svc := NewSiteConfigService(store, nil, nil, nil, nil)
	_, err := svc.Create(context.Background(), siteRequest("First"), operator())
	require.NoError(t, err)

	cfg, err := svc.Update(context.Background(), siteRequest("Renamed"), operator())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", cfg.SiteName)
	require.NotNil(t, cfg.CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *cfg.CreatedAt)
}

func TestSiteConfigPublicUsesCacheUntilUpdate(t *testing.T) {
	store := &siteConfigStoreStub{}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewSiteConfigService(store, cache, nil, nil, nil)
	_, err := svc.Create(context.Background(), siteRequest("First"), operator())
	require.NoError(t, err)

	_, _, err = svc.Public(context.Background())
	require.NoError(t, err)
	cfg, hit, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "First", cfg.SiteName)

	_, err = svc.Update(context.Background(), siteRequest("Second"), operator())
	require.NoError(t, err)
	cfg, hit, err = svc.Public(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Second", cfg.SiteName)
}

func TestSiteConfigRejectsViewer(t *testing.T) {
	svc := NewSiteConfigService(&siteConfigStoreStub{}, nil, nil, nil, nil)
	viewer := &Actor{Claims: &models.JWTClaims{UserID: "v", Role: models.RoleViewer}}
	_, err := svc.Create(context.Background(), siteRequest("x"), viewer)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
