package models

import "time"

// Game представляет дисциплину турнира.
type Game struct {
	ID          int        `json:"game_id" db:"game_id"`
	Name        string     `json:"name" db:"name"`
	Publisher   *string    `json:"publisher" db:"publisher"`
	ReleaseDate *time.Time `json:"release_date" db:"release_date"`
	LogoURL     *string    `json:"logo_url" db:"logo_url"`
	BannerURL   *string    `json:"banner_url" db:"banner_url"`
	Description *string    `json:"description" db:"description"`

	Characters []Character `json:"characters,omitempty" db:"-"`
}
