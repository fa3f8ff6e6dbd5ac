package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/overlay"
	"github.com/Dosada05/esports-overlay/repositories"
)

const defaultHistoryLimit = 50

type LiveMatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.LiveMatch, error)
	UpdateScores(ctx context.Context, input UpdateScoresInput) (*models.LiveMatch, error)
	Get(ctx context.Context) (*models.LiveMatch, error)
	// Complete records the live match in history with its winner.
	Complete(ctx context.Context) (*models.MatchHistory, error)
	History(ctx context.Context, limit int) ([]models.MatchHistory, error)
}

type CreateMatchInput struct {
	Player1ID    int     `json:"player1_id" validate:"required,gte=1"`
	Player2ID    int     `json:"player2_id" validate:"required,gte=1,nefield=Player1ID"`
	Player1Score int     `json:"player1_score" validate:"gte=0"`
	Player2Score int     `json:"player2_score" validate:"gte=0"`
	Title        *string `json:"title" validate:"omitempty,max=150"`
	GameID       *int    `json:"game_id" validate:"omitempty,gte=1"`
}

// UpdateScoresInput sets absolute scores; a nil side is left unchanged.
type UpdateScoresInput struct {
	Player1Score *int `json:"player1_score" validate:"required_without=Player2Score,omitempty,gte=0"`
	Player2Score *int `json:"player2_score" validate:"required_without=Player1Score,omitempty,gte=0"`
}

type liveMatchService struct {
	tx       repositories.TxRunner
	repo     repositories.LiveMatchRepository
	notifier overlay.Notifier
	logger   *slog.Logger
}

func NewLiveMatchService(
	tx repositories.TxRunner,
	repo repositories.LiveMatchRepository,
	notifier overlay.Notifier,
	logger *slog.Logger,
) LiveMatchService {
	if notifier == nil {
		notifier = overlay.NopNotifier{}
	}
	return &liveMatchService{tx: tx, repo: repo, notifier: notifier, logger: logger}
}

// Create puts a new pairing on air, replacing the previous one. The overlay
// is told about it only after the transaction committed.
func (s *liveMatchService) Create(ctx context.Context, input CreateMatchInput) (*models.LiveMatch, error) {
	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		input.Title = &t
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var gameCheck repositories.Check
	if input.GameID != nil {
		gameCheck = repositories.Exists("games", "game_id", *input.GameID, ErrGameNotFound)
	}

	match := &models.LiveMatch{
		Player1ID:    input.Player1ID,
		Player2ID:    input.Player2ID,
		Player1Score: input.Player1Score,
		Player2Score: input.Player2Score,
		Title:        input.Title,
		GameID:       input.GameID,
	}

	var current *models.LiveMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("players", "player_id", input.Player1ID, ErrPlayerNotFound),
			repositories.Exists("players", "player_id", input.Player2ID, ErrPlayerNotFound),
			gameCheck,
		); err != nil {
			return err
		}
		if err := s.repo.Replace(ctx, exec, match); err != nil {
			return err
		}
		var err error
		current, err = s.repo.GetCurrent(ctx, exec)
		return err
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create live match")
	}

	s.logger.Info("live match created",
		slog.Int64("match_id", current.MatchID),
		slog.Int("player1_id", current.Player1ID),
		slog.Int("player2_id", current.Player2ID),
	)
	s.notifier.Notify(overlay.NewEvent(overlay.EventMatchTitle, *current))
	return current, nil
}

func (s *liveMatchService) UpdateScores(ctx context.Context, input UpdateScoresInput) (*models.LiveMatch, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var current *models.LiveMatch
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repo.UpdateScores(ctx, exec, input.Player1Score, input.Player2Score); err != nil {
			return err
		}
		var err error
		current, err = s.repo.GetCurrent(ctx, exec)
		return err
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update live match scores")
	}

	s.logger.Info("live match scores updated",
		slog.Int64("match_id", current.MatchID),
		slog.Int("player1_score", current.Player1Score),
		slog.Int("player2_score", current.Player2Score),
	)
	s.notifier.Notify(overlay.NewEvent(overlay.EventMatchScores, *current))
	return current, nil
}

func (s *liveMatchService) Get(ctx context.Context) (*models.LiveMatch, error) {
	match, err := s.repo.GetCurrent(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "get live match")
	}
	return match, nil
}

func (s *liveMatchService) Complete(ctx context.Context) (*models.MatchHistory, error) {
	var (
		record *models.MatchHistory
		final  *models.LiveMatch
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		current, err := s.repo.GetCurrent(ctx, exec)
		if err != nil {
			return err
		}
		if current.Player1Score == current.Player2Score {
			return ErrMatchTied
		}
		winner := current.Player1ID
		if current.Player2Score > current.Player1Score {
			winner = current.Player2ID
		}
		record = &models.MatchHistory{
			MatchID:         current.MatchID,
			Player1ID:       current.Player1ID,
			Player2ID:       current.Player2ID,
			Player1Score:    current.Player1Score,
			Player2Score:    current.Player2Score,
			WinnerID:        winner,
			Title:           current.Title,
			GameID:          current.GameID,
			Player1Nickname: current.Player1.Nickname,
			Player2Nickname: current.Player2.Nickname,
		}
		final = current
		return s.repo.CreateHistory(ctx, exec, record)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "complete live match")
	}

	s.logger.Info("live match completed",
		slog.Int64("match_id", record.MatchID),
		slog.Int("winner_id", record.WinnerID),
	)
	s.notifier.Notify(overlay.NewEvent(overlay.EventMatchCompleted, *final))
	return record, nil
}

func (s *liveMatchService) History(ctx context.Context, limit int) ([]models.MatchHistory, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultHistoryLimit
	}
	history, err := s.repo.ListHistory(ctx, limit)
	if err != nil {
		return nil, handleRepositoryError(err, "list match history")
	}
	return history, nil
}
