package models

import "time"

// Player представляет игрока. Никнейм уникален без учета регистра.
type Player struct {
	ID        int       `json:"player_id" db:"player_id"`
	Nickname  string    `json:"nickname" db:"nickname"`
	RealName  *string   `json:"real_name" db:"real_name"`
	CountryID *int      `json:"country_id" db:"country_id"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Country *Country     `json:"country,omitempty" db:"-"`
	Games   []PlayerGame `json:"games,omitempty" db:"-"`
}

// PlayerSummary is the short form used when a player is embedded elsewhere.
type PlayerSummary struct {
	ID        int     `json:"player_id"`
	Nickname  string  `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
}

// PlayerGame is the player↔game association keyed by (PlayerID, GameID).
// Both character references, when set, belong to GameID.
type PlayerGame struct {
	PlayerID             int       `json:"player_id" db:"player_id"`
	GameID               int       `json:"game_id" db:"game_id"`
	MainCharacterID      *int      `json:"main_character_id" db:"main_character_id"`
	SecondaryCharacterID *int      `json:"secondary_character_id" db:"secondary_character_id"`
	Rank                 *string   `json:"rank" db:"rank"`
	SkillRating          *int      `json:"skill_rating" db:"skill_rating"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`

	GameName               string  `json:"game_name,omitempty" db:"-"`
	MainCharacterName      *string `json:"main_character_name,omitempty" db:"-"`
	SecondaryCharacterName *string `json:"secondary_character_name,omitempty" db:"-"`
}
