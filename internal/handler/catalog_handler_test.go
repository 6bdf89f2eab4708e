package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

type catalogServiceMock struct {
	hit          bool
	activeCalls  map[string]bool
	deleteErr    error
	createdNames []string
}

func (m *catalogServiceMock) PublicPackages(ctx context.Context) (*dto.PackageGroups, bool, error) {
	return &dto.PackageGroups{Digital: []models.Package{{ID: "d1", Name: "Creator Basic"}}}, m.hit, nil
}

func (m *catalogServiceMock) ServiceChoices(ctx context.Context) ([]dto.ServiceChoice, bool, error) {
	return []dto.ServiceChoice{{Value: "brand_shoot", Label: "Brand Shoot"}}, m.hit, nil
}

func (m *catalogServiceMock) ListPackages(ctx context.Context, category string) ([]models.Package, error) {
	return nil, nil
}

func (m *catalogServiceMock) CreatePackage(ctx context.Context, req dto.PackageRequest, actor *service.Actor) (*models.Package, error) {
	m.createdNames = append(m.createdNames, req.Name)
	return &models.Package{ID: "p1", Name: req.Name}, nil
}

func (m *catalogServiceMock) UpdatePackage(ctx context.Context, id string, req dto.PackageRequest, actor *service.Actor) (*models.Package, error) {
	return &models.Package{ID: id, Name: req.Name}, nil
}

func (m *catalogServiceMock) SetPackageActive(ctx context.Context, id string, active bool, actor *service.Actor) error {
	if m.activeCalls == nil {
		m.activeCalls = map[string]bool{}
	}
	m.activeCalls[id] = active
	return nil
}

func (m *catalogServiceMock) DeletePackage(ctx context.Context, id string, actor *service.Actor) error {
	return m.deleteErr
}

func (m *catalogServiceMock) ListServices(ctx context.Context) ([]models.Service, error) {
	return nil, nil
}

func (m *catalogServiceMock) CreateService(ctx context.Context, req dto.ServiceRequest, actor *service.Actor) (*models.Service, error) {
	return &models.Service{ID: "s1", Name: req.Name}, nil
}

func (m *catalogServiceMock) UpdateService(ctx context.Context, id string, req dto.ServiceRequest, actor *service.Actor) (*models.Service, error) {
	return &models.Service{ID: id, Name: req.Name}, nil
}

func TestCatalogHandlerServiceChoicesCacheMiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/services", nil)

	handler.ServiceChoices(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), `"value":"brand_shoot"`)
}

func TestCatalogHandlerSetPackageActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &catalogServiceMock{}
	handler := NewCatalogHandler(svc)
	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/admin/packages/p1/active", []byte(`{"active":false}`))
	c.Params = gin.Params{{Key: "id", Value: "p1"}}

	handler.SetPackageActive(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	active, called := svc.activeCalls["p1"]
	assert.True(t, called)
	assert.False(t, active)
}

func TestCatalogHandlerSetPackageActiveRequiresFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{})
	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPatch, "/admin/packages/p1/active", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "p1"}}

	handler.SetPackageActive(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandlerDeletePackageNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(&catalogServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "package not found")})
	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodDelete, "/admin/packages/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.DeletePackage(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandlerCreatePackage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &catalogServiceMock{}
	handler := NewCatalogHandler(svc)
	w := httptest.NewRecorder()
	c := adminContext(w, http.MethodPost, "/admin/packages", []byte(`{"name":"Creator Basic","category":"digital","description":"Starter"}`))

	handler.CreatePackage(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Creator Basic"}, svc.createdNames)
}
