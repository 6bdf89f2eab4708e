package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/portfolio-api/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Summer Campaign 2024": "summer-campaign-2024",
		"  Brand -- Shoot!  ":  "brand-shoot",
		"Café Session":         "café-session",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestPackageSlug(t *testing.T) {
	assert.Equal(t, "digital-creator-basic", PackageSlug(models.CategoryDigital, "Basic"))
	assert.Equal(t, "modelling-full-day", PackageSlug(models.CategoryModelling, "Full Day"))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Summer Shoot 01", TitleFromFilename("uploads/gallery/summer_shoot-01.jpg"))
	assert.Equal(t, "Portrait", TitleFromFilename("PORTRAIT.png"))
	assert.Equal(t, "", TitleFromFilename(""))
}
