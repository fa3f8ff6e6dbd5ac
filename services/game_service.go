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

const dateLayout = "2006-01-02"

type GameService interface {
	Create(ctx context.Context, input GameInput) (*models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetAll(ctx context.Context) ([]models.Game, error)
	Update(ctx context.Context, id int, input GameInput) (*models.Game, error)
	Delete(ctx context.Context, id int) error
	ListCharacters(ctx context.Context, gameID int) ([]models.Character, error)
}

type GameInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Publisher   *string `json:"publisher" validate:"omitempty,max=100"`
	ReleaseDate *string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	BannerURL   *string `json:"banner_url" validate:"omitempty,url"`
	Description *string `json:"description"`
}

func (in GameInput) toModel() (*models.Game, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	game := &models.Game{
		Name:        in.Name,
		Publisher:   trimPtr(in.Publisher),
		LogoURL:     trimPtr(in.LogoURL),
		BannerURL:   trimPtr(in.BannerURL),
		Description: in.Description,
	}
	if in.ReleaseDate != nil {
		d, err := time.Parse(dateLayout, *in.ReleaseDate)
		if err != nil {
			return nil, newError(ErrValidationFailed, "release_date must be a date in 2006-01-02 format")
		}
		game.ReleaseDate = &d
	}
	return game, nil
}

type gameService struct {
	tx            repositories.TxRunner
	gameRepo      repositories.GameRepository
	characterRepo repositories.CharacterRepository
	logger        *slog.Logger
}

func NewGameService(
	tx repositories.TxRunner,
	gameRepo repositories.GameRepository,
	characterRepo repositories.CharacterRepository,
	logger *slog.Logger,
) GameService {
	return &gameService{
		tx:            tx,
		gameRepo:      gameRepo,
		characterRepo: characterRepo,
		logger:        logger,
	}
}

func (s *gameService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	game, err := input.toModel()
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.gameRepo.Create(ctx, exec, game)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create game")
	}
	s.logger.Info("game created", slog.Int("game_id", game.ID), slog.String("name", game.Name))
	return game, nil
}

// GetByID loads the game and its roster concurrently.
func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	var (
		game       *models.Game
		characters []models.Character
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		game, err = s.gameRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		characters, err = s.characterRepo.ListByGame(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "get game")
	}

	game.Characters = characters
	return game, nil
}

func (s *gameService) GetAll(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.GetAll(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list games")
	}
	return games, nil
}

func (s *gameService) Update(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	game, err := input.toModel()
	if err != nil {
		return nil, err
	}
	game.ID = id

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("games", "game_id", id, ErrGameNotFound),
		); err != nil {
			return err
		}
		return s.gameRepo.Update(ctx, exec, game)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update game")
	}
	return game, nil
}

// Delete removes the game along with its characters and player associations.
func (s *gameService) Delete(ctx context.Context, id int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("games", "game_id", id, ErrGameNotFound),
		); err != nil {
			return err
		}
		return s.gameRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return handleRepositoryError(err, "delete game")
	}
	s.logger.Info("game deleted", slog.Int("game_id", id))
	return nil
}

func (s *gameService) ListCharacters(ctx context.Context, gameID int) ([]models.Character, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		return nil, handleRepositoryError(err, "get game")
	}
	characters, err := s.characterRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, handleRepositoryError(err, "list characters")
	}
	return characters, nil
}
