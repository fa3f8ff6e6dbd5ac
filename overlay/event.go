// Package overlay pushes live match changes to broadcast overlays. Delivery
// is best effort: the database stays the source of truth and a missed update
// is corrected by the next one.
package overlay

import (
	"time"

	"github.com/Dosada05/esports-overlay/models"
)

type EventType string

const (
	EventMatchTitle     EventType = "match.title"
	EventMatchScores    EventType = "match.scores"
	EventMatchCompleted EventType = "match.completed"
)

// Event carries a snapshot of the live match taken right after commit.
type Event struct {
	Type  EventType
	Match models.LiveMatch
	At    time.Time
}

func NewEvent(t EventType, match models.LiveMatch) Event {
	return Event{Type: t, Match: match, At: time.Now().UTC()}
}

// Notifier accepts events without blocking the caller and never fails.
type Notifier interface {
	Notify(ev Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

type titlePayload struct {
	MatchID  int64               `json:"match_id"`
	Title    *string             `json:"title"`
	GameID   *int                `json:"game_id"`
	GameName *string             `json:"game_name"`
	Player1  *models.MatchPlayer `json:"player1"`
	Player2  *models.MatchPlayer `json:"player2"`
	Scores   scoresPayload       `json:"scores"`
}

type scoresPayload struct {
	MatchID      int64     `json:"match_id"`
	Player1Score int       `json:"player1_score"`
	Player2Score int       `json:"player2_score"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func scoresOf(m models.LiveMatch) scoresPayload {
	return scoresPayload{
		MatchID:      m.MatchID,
		Player1Score: m.Player1Score,
		Player2Score: m.Player2Score,
		UpdatedAt:    m.UpdatedAt,
	}
}

// payloadFor returns the body the overlay expects for the event type.
func payloadFor(ev Event) interface{} {
	switch ev.Type {
	case EventMatchScores:
		return scoresOf(ev.Match)
	default:
		return titlePayload{
			MatchID:  ev.Match.MatchID,
			Title:    ev.Match.Title,
			GameID:   ev.Match.GameID,
			GameName: ev.Match.GameName,
			Player1:  ev.Match.Player1,
			Player2:  ev.Match.Player2,
			Scores:   scoresOf(ev.Match),
		}
	}
}
