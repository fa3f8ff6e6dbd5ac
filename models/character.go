package models

// Character belongs to exactly one game; its name is unique within that game.
type Character struct {
	ID          int     `json:"character_id" db:"character_id"`
	GameID      int     `json:"game_id" db:"game_id"`
	Name        string  `json:"name" db:"name"`
	ImageURL    *string `json:"image_url" db:"image_url"`
	Description *string `json:"description" db:"description"`
	IsKameo     bool    `json:"is_kameo" db:"is_kameo"`

	GameName         string          `json:"game_name,omitempty" db:"-"`
	MainPlayers      []PlayerSummary `json:"main_players,omitempty" db:"-"`
	SecondaryPlayers []PlayerSummary `json:"secondary_players,omitempty" db:"-"`
}
