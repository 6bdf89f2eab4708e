package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/models"
)

func TestSiteConfigCreateFirstSucceeds(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSiteConfigRepository(db)

	mock.ExpectExec("INSERT INTO site_config").WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := &models.SiteConfig{SiteName: "IMA ANA Portfolio", HeroTitle: "IMA ANA"}
	require.NoError(t, repo.Create(context.Background(), cfg))
	assert.Equal(t, models.SiteConfigID, cfg.ID)
	assert.NotNil(t, cfg.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteConfigCreateSecondIsDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSiteConfigRepository(db)

	mock.ExpectExec("INSERT INTO site_config").WillReturnError(&pq.Error{Code: "23505", Constraint: "site_config_pkey"})

	err := repo.Create(context.Background(), &models.SiteConfig{SiteName: "Another"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteConfigGet(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSiteConfigRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "site_name", "site_description", "instagram_url", "tiktok_url", "whatsapp_number", "email", "phone", "address", "hero_title", "hero_subtitle", "main_profile_image", "created_at", "updated_at"}).
		AddRow(1, "IMA ANA Portfolio", "desc", "", "", "", "hello@example.com", "", "", "IMA ANA", "sub", "profile/ana.jpg", now, now)
	mock.ExpectQuery(`FROM site_config WHERE id = \$1`).WithArgs(models.SiteConfigID).WillReturnRows(rows)

	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg.MainProfileImage)
	assert.Equal(t, "profile/ana.jpg", *cfg.MainProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteConfigUpdateWithoutRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSiteConfigRepository(db)

	mock.ExpectExec("UPDATE site_config SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.SiteConfig{SiteName: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
