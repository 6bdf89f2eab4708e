package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/models"
)

var portfolioRowColumns = []string{"id", "title", "slug", "description", "category", "main_image", "is_featured", "published", "created_at", "updated_at"}

func TestPortfolioListPublishedByCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPortfolioRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(portfolioRowColumns).
		AddRow("i1", "Campaign", "campaign", "", "digital", "main.jpg", true, true, now, now)
	mock.ExpectQuery(`FROM portfolio_items WHERE 1=1 AND published = TRUE AND category = \$1 ORDER BY created_at DESC LIMIT 9 OFFSET 9`).
		WithArgs(models.CategoryDigital).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM portfolio_items`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	category := models.CategoryDigital
	items, total, err := repo.List(context.Background(), models.PortfolioFilter{Category: &category, PublishedOnly: true, Page: 2, PageSize: 9})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 10, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioListAdminFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPortfolioRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM portfolio_items WHERE 1=1 AND published = \$1 AND is_featured = \$2 AND category = \$3 ORDER BY created_at DESC`).
		WithArgs(false, true, models.CategoryModelling).
		WillReturnRows(sqlmock.NewRows(portfolioRowColumns).
			AddRow("i2", "Draft", "draft", "", "modelling", "", true, false, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM portfolio_items`).
		WithArgs(false, true, models.CategoryModelling).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	published, featured := false, true
	category := models.CategoryModelling
	items, total, err := repo.List(context.Background(), models.PortfolioFilter{Published: &published, Featured: &featured, Category: &category})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Published)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioNeighboursTolerateEdges(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPortfolioRepository(db)

	now := time.Now()
	mock.ExpectQuery(`created_at > \$1 ORDER BY created_at ASC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(portfolioRowColumns))
	mock.ExpectQuery(`created_at < \$1 ORDER BY created_at DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(portfolioRowColumns).AddRow("i1", "Earlier", "earlier", "", "digital", "", false, true, now, now))

	prev, next, err := repo.Neighbours(context.Background(), now)
	require.NoError(t, err)
	assert.Nil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "earlier", next.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortfolioCreateWritesImagesInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPortfolioRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO portfolio_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM portfolio_images").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO portfolio_images").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	item := &models.PortfolioItem{Title: "Campaign", Slug: "campaign", Category: models.CategoryDigital, Images: []models.PortfolioImage{{Image: "a.jpg"}}}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, item.ID, item.Images[0].PortfolioItemID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGallerySetActiveReturnsCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	mock.ExpectExec(`UPDATE gallery_images SET is_active = \$2, updated_at = \$3 WHERE id = ANY\(\$1\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.SetActive(context.Background(), []string{"g1", "g2", "g3"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var profileImageRowColumns = []string{"id", "title", "image", "description", "is_active", "created_at", "updated_at"}

func TestProfileImagesListActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, title, image, description, is_active, created_at, updated_at FROM profile_images WHERE is_active = TRUE ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(profileImageRowColumns).AddRow("p1", "Ana", "profile/ana.jpg", "", true, now, now))

	images, err := repo.ListProfileImages(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "profile/ana.jpg", images[0].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileImagesCreateAndToggle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGalleryRepository(db)

	mock.ExpectExec("INSERT INTO profile_images").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE profile_images SET is_active = \$2, updated_at = \$3 WHERE id = ANY\(\$1\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	img := &models.ProfileImage{Title: "Ana", Image: "profile/ana.jpg", IsActive: true}
	require.NoError(t, repo.CreateProfileImage(context.Background(), img))
	assert.NotEmpty(t, img.ID)
	assert.False(t, img.CreatedAt.IsZero())

	count, err := repo.SetProfileImagesActive(context.Background(), []string{img.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
