package dto

import "github.com/noah-isme/portfolio-api/internal/models"

// SiteConfigRequest is the admin payload for the site configuration.
type SiteConfigRequest struct {
	SiteName         string  `json:"site_name" validate:"required,max=100"`
	SiteDescription  string  `json:"site_description"`
	InstagramURL     string  `json:"instagram_url" validate:"omitempty,url"`
	TiktokURL        string  `json:"tiktok_url" validate:"omitempty,url"`
	WhatsappNumber   string  `json:"whatsapp_number" validate:"omitempty,max=20"`
	Email            string  `json:"email" validate:"omitempty,email"`
	Phone            string  `json:"phone" validate:"omitempty,max=20"`
	Address          string  `json:"address"`
	HeroTitle        string  `json:"hero_title" validate:"required,max=100"`
	HeroSubtitle     string  `json:"hero_subtitle" validate:"omitempty,max=200"`
	MainProfileImage *string `json:"main_profile_image"`
}

// HomeResponse aggregates what the home page needs.
type HomeResponse struct {
	Site         models.SiteConfig      `json:"site"`
	ProfileImage *string                `json:"profile_image,omitempty"`
	Gallery      []models.GalleryImage  `json:"gallery"`
	Featured     []models.PortfolioItem `json:"featured"`
}
