package models

import "time"

// LiveMatch is the single match currently on air.
type LiveMatch struct {
	MatchID      int64     `json:"match_id" db:"match_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	Player1Score int       `json:"player1_score" db:"player1_score"`
	Player2Score int       `json:"player2_score" db:"player2_score"`
	Title        *string   `json:"title" db:"title"`
	GameID       *int      `json:"game_id" db:"game_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Player1  *MatchPlayer `json:"player1,omitempty" db:"-"`
	Player2  *MatchPlayer `json:"player2,omitempty" db:"-"`
	GameName *string      `json:"game_name,omitempty" db:"-"`
}

// MatchPlayer carries the display attributes the overlay renders for a side.
type MatchPlayer struct {
	PlayerID    int     `json:"player_id"`
	Nickname    string  `json:"nickname"`
	AvatarURL   *string `json:"avatar_url"`
	CountryCode *string `json:"country_code"`
	CountryName *string `json:"country_name"`
	FlagURL     *string `json:"flag_url"`
}

// MatchHistory is an immutable record of a finished pairing.
type MatchHistory struct {
	ID           int       `json:"history_id" db:"history_id"`
	MatchID      int64     `json:"match_id" db:"match_id"`
	Player1ID    int       `json:"player1_id" db:"player1_id"`
	Player2ID    int       `json:"player2_id" db:"player2_id"`
	Player1Score int       `json:"player1_score" db:"player1_score"`
	Player2Score int       `json:"player2_score" db:"player2_score"`
	WinnerID     int       `json:"winner_id" db:"winner_id"`
	Title        *string   `json:"title" db:"title"`
	GameID       *int      `json:"game_id" db:"game_id"`
	PlayedAt     time.Time `json:"played_at" db:"played_at"`

	Player1Nickname string `json:"player1_nickname,omitempty" db:"-"`
	Player2Nickname string `json:"player2_nickname,omitempty" db:"-"`
}
