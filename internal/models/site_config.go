package models

import "time"

// SiteConfigID is the fixed key of the only site configuration row.
const SiteConfigID = 1

// SiteConfig holds site-wide display text and contact metadata.
type SiteConfig struct {
	ID               int        `db:"id" json:"-"`
	SiteName         string     `db:"site_name" json:"site_name"`
	SiteDescription  string     `db:"site_description" json:"site_description"`
	InstagramURL     string     `db:"instagram_url" json:"instagram_url"`
	TiktokURL        string     `db:"tiktok_url" json:"tiktok_url"`
	WhatsappNumber   string     `db:"whatsapp_number" json:"whatsapp_number"`
	Email            string     `db:"email" json:"email"`
	Phone            string     `db:"phone" json:"phone"`
	Address          string     `db:"address" json:"address"`
	HeroTitle        string     `db:"hero_title" json:"hero_title"`
	HeroSubtitle     string     `db:"hero_subtitle" json:"hero_subtitle"`
	MainProfileImage *string    `db:"main_profile_image" json:"main_profile_image,omitempty"`
	CreatedAt        *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// DefaultSiteConfig is served before an operator has saved the configuration.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		ID:              SiteConfigID,
		SiteName:        "IMA ANA Portfolio",
		SiteDescription: "Digital Creator & Professional Model",
		HeroTitle:       "IMA ANA",
		HeroSubtitle:    "Digital Creator & Professional Model",
	}
}
