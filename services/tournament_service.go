package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetAll(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	AddGame(ctx context.Context, tournamentID, gameID int) error
	RemoveGame(ctx context.Context, tournamentID, gameID int) error

	AddStage(ctx context.Context, tournamentID int, input StageInput) (*models.TournamentStage, error)
	UpdateStage(ctx context.Context, tournamentID, stageID int, input StageInput) (*models.TournamentStage, error)
	DeleteStage(ctx context.Context, tournamentID, stageID int) error

	// AutoUpdateStatuses moves tournaments along by their dates.
	AutoUpdateStatuses(ctx context.Context, now time.Time) error
}

type TournamentInput struct {
	Name        string                  `json:"name" validate:"required,max=150"`
	StartDate   *time.Time              `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
	Location    *string                 `json:"location" validate:"omitempty,max=150"`
	Description *string                 `json:"description"`
	LogoURL     *string                 `json:"logo_url" validate:"omitempty,url"`
	BannerURL   *string                 `json:"banner_url" validate:"omitempty,url"`
	PrizePool   *float64                `json:"prize_pool" validate:"omitempty,gte=0"`
	Status      models.TournamentStatus `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Games       []int                   `json:"games" validate:"omitempty,dive,gte=1"`
}

type StageInput struct {
	Name       string     `json:"name" validate:"required,max=100"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	StageOrder int        `json:"stage_order" validate:"gte=0"`
	StageType  string     `json:"stage_type" validate:"required,max=30"`
	BestOf     int        `json:"best_of" validate:"omitempty,gte=1"`
}

type tournamentService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTournamentService(tx repositories.TxRunner, tournamentRepo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{tx: tx, tournamentRepo: tournamentRepo, logger: logger}
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrTournamentInvalidDates
	}
	return nil
}

func (in TournamentInput) toModel() (*models.Tournament, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.StatusUpcoming
	}
	return &models.Tournament{
		Name:        in.Name,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Location:    trimPtr(in.Location),
		Description: in.Description,
		LogoURL:     trimPtr(in.LogoURL),
		BannerURL:   trimPtr(in.BannerURL),
		PrizePool:   in.PrizePool,
		Status:      status,
	}, nil
}

func (in StageInput) toModel(tournamentID int) (*models.TournamentStage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.StageType = strings.TrimSpace(in.StageType)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	bestOf := in.BestOf
	if bestOf == 0 {
		bestOf = 3
	}
	return &models.TournamentStage{
		TournamentID: tournamentID,
		Name:         in.Name,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		StageOrder:   in.StageOrder,
		StageType:    in.StageType,
		BestOf:       bestOf,
	}, nil
}

// dedupe keeps the first occurrence of each id.
func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Create inserts the tournament and links the listed games in one transaction.
func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	tournament, err := input.toModel()
	if err != nil {
		return nil, err
	}
	gameIDs := dedupe(input.Games)

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		checks := make([]repositories.Check, 0, len(gameIDs))
		for _, gameID := range gameIDs {
			checks = append(checks, repositories.Exists("games", "game_id", gameID, ErrGameNotFound))
		}
		if err := repositories.Verify(ctx, exec, checks...); err != nil {
			return err
		}
		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return err
		}
		for _, gameID := range gameIDs {
			if err := s.tournamentRepo.AddGame(ctx, exec, tournament.ID, gameID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create tournament")
	}
	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.Int("games", len(gameIDs)),
	)
	return tournament, nil
}

// GetByID loads the tournament with its games and stages concurrently.
func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		games      []models.Game
		stages     []models.TournamentStage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.tournamentRepo.ListGames(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		stages, err = s.tournamentRepo.ListStages(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "get tournament")
	}

	tournament.Games = games
	tournament.Stages = stages
	return tournament, nil
}

func (s *tournamentService) GetAll(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.GetAll(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list tournaments")
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	tournament, err := input.toModel()
	if err != nil {
		return nil, err
	}
	tournament.ID = id

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("tournaments", "tournament_id", id, ErrTournamentNotFound),
		); err != nil {
			return err
		}
		return s.tournamentRepo.Update(ctx, exec, tournament)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update tournament")
	}
	return tournament, nil
}

// Delete removes the tournament with its stages and game links.
func (s *tournamentService) Delete(ctx context.Context, id int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("tournaments", "tournament_id", id, ErrTournamentNotFound),
		); err != nil {
			return err
		}
		return s.tournamentRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return handleRepositoryError(err, "delete tournament")
	}
	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) AddGame(ctx context.Context, tournamentID, gameID int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("tournaments", "tournament_id", tournamentID, ErrTournamentNotFound),
			repositories.Exists("games", "game_id", gameID, ErrGameNotFound),
			repositories.Unique("tournament_games", "game_id", gameID, ErrTournamentGameConflict).
				Within("tournament_id", tournamentID),
		); err != nil {
			return err
		}
		return s.tournamentRepo.AddGame(ctx, exec, tournamentID, gameID)
	})
	return handleRepositoryError(err, "add game to tournament")
}

func (s *tournamentService) RemoveGame(ctx context.Context, tournamentID, gameID int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.ExistsPair("tournament_games", "tournament_id", tournamentID, "game_id", gameID, ErrTournamentGameNotFound),
		); err != nil {
			return err
		}
		return s.tournamentRepo.RemoveGame(ctx, exec, tournamentID, gameID)
	})
	return handleRepositoryError(err, "remove game from tournament")
}

func (s *tournamentService) AddStage(ctx context.Context, tournamentID int, input StageInput) (*models.TournamentStage, error) {
	stage, err := input.toModel(tournamentID)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("tournaments", "tournament_id", tournamentID, ErrTournamentNotFound),
		); err != nil {
			return err
		}
		return s.tournamentRepo.CreateStage(ctx, exec, stage)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "add tournament stage")
	}
	return stage, nil
}

func stageCheck(tournamentID, stageID int) repositories.Check {
	return repositories.ExistsPair("tournament_stages", "stage_id", stageID, "tournament_id", tournamentID, ErrTournamentStageNotFound)
}

func (s *tournamentService) UpdateStage(ctx context.Context, tournamentID, stageID int, input StageInput) (*models.TournamentStage, error) {
	stage, err := input.toModel(tournamentID)
	if err != nil {
		return nil, err
	}
	stage.ID = stageID

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec, stageCheck(tournamentID, stageID)); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStage(ctx, exec, stage)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update tournament stage")
	}
	return stage, nil
}

// DeleteStage removes the stage with its groups and bracket rounds.
func (s *tournamentService) DeleteStage(ctx context.Context, tournamentID, stageID int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec, stageCheck(tournamentID, stageID)); err != nil {
			return err
		}
		return s.tournamentRepo.DeleteStage(ctx, exec, stageID)
	})
	return handleRepositoryError(err, "delete tournament stage")
}

func (s *tournamentService) AutoUpdateStatuses(ctx context.Context, now time.Time) error {
	var started, finished int64
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		started, finished, err = s.tournamentRepo.UpdateStatusesByDates(ctx, exec, now)
		return err
	})
	if err != nil {
		return handleRepositoryError(err, "update tournament statuses")
	}
	if started > 0 || finished > 0 {
		s.logger.Info("tournament statuses updated",
			slog.Int64("started", started),
			slog.Int64("completed", finished),
		)
	}
	return nil
}
