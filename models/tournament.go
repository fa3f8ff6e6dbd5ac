package models

import "time"

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
	StatusCancelled TournamentStatus = "cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID          int              `json:"tournament_id" db:"tournament_id"`
	Name        string           `json:"name" db:"name"`
	StartDate   *time.Time       `json:"start_date" db:"start_date"`
	EndDate     *time.Time       `json:"end_date" db:"end_date"`
	Location    *string          `json:"location" db:"location"`
	Description *string          `json:"description" db:"description"`
	LogoURL     *string          `json:"logo_url" db:"logo_url"`
	BannerURL   *string          `json:"banner_url" db:"banner_url"`
	PrizePool   *float64         `json:"prize_pool" db:"prize_pool"`
	Status      TournamentStatus `json:"status" db:"status"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Games  []Game            `json:"games,omitempty" db:"-"`
	Stages []TournamentStage `json:"stages,omitempty" db:"-"`
}

// TournamentStage is one phase of a tournament (groups, bracket, ...).
type TournamentStage struct {
	ID           int        `json:"stage_id" db:"stage_id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	StartDate    *time.Time `json:"start_date" db:"start_date"`
	EndDate      *time.Time `json:"end_date" db:"end_date"`
	StageOrder   int        `json:"stage_order" db:"stage_order"`
	StageType    string     `json:"stage_type" db:"stage_type"`
	BestOf       int        `json:"best_of" db:"best_of"`
}
