package models

type Country struct {
	ID      int     `json:"country_id" db:"country_id"`
	Name    string  `json:"name" db:"name"`
	Code    string  `json:"code" db:"code"` // ISO 3166-1 alpha-2, uppercase
	FlagURL *string `json:"flag_url" db:"flag_url"`
}
