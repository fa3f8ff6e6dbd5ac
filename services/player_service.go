package services

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/repositories"
)

type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetAll(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error

	// AssignGame creates or replaces the player's association with a game.
	// created is true when no association existed before.
	AssignGame(ctx context.Context, playerID int, input AssignGameInput) (pg *models.PlayerGame, created bool, err error)
	RemoveGame(ctx context.Context, playerID, gameID int) error
}

type PlayerInput struct {
	Nickname  string  `json:"nickname" validate:"required,max=50"`
	RealName  *string `json:"real_name" validate:"omitempty,max=100"`
	CountryID *int    `json:"country_id" validate:"omitempty,gte=1"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type AssignGameInput struct {
	GameID               int     `json:"game_id" validate:"required,gte=1"`
	MainCharacterID      *int    `json:"main_character_id" validate:"omitempty,gte=1"`
	SecondaryCharacterID *int    `json:"secondary_character_id" validate:"omitempty,gte=1"`
	Rank                 *string `json:"rank" validate:"omitempty,max=50"`
	SkillRating          *int    `json:"skill_rating" validate:"omitempty,gte=0"`
}

type playerService struct {
	tx          repositories.TxRunner
	playerRepo  repositories.PlayerRepository
	countryRepo repositories.CountryRepository
	logger      *slog.Logger
}

func NewPlayerService(
	tx repositories.TxRunner,
	playerRepo repositories.PlayerRepository,
	countryRepo repositories.CountryRepository,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		tx:          tx,
		playerRepo:  playerRepo,
		countryRepo: countryRepo,
		logger:      logger,
	}
}

func (in PlayerInput) toModel() (*models.Player, error) {
	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return &models.Player{
		Nickname:  in.Nickname,
		RealName:  trimPtr(in.RealName),
		CountryID: in.CountryID,
		AvatarURL: trimPtr(in.AvatarURL),
	}, nil
}

func countryCheck(countryID *int) repositories.Check {
	if countryID == nil {
		return nil
	}
	return repositories.Exists("countries", "country_id", *countryID, ErrCountryNotFound)
}

func (s *playerService) Create(ctx context.Context, input PlayerInput) (*models.Player, error) {
	player, err := input.toModel()
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Unique("players", "nickname", player.Nickname, ErrPlayerNicknameConflict).FoldCase(),
			countryCheck(player.CountryID),
		); err != nil {
			return err
		}
		return s.playerRepo.Create(ctx, exec, player)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create player")
	}
	s.logger.Info("player created", slog.Int("player_id", player.ID), slog.String("nickname", player.Nickname))
	return player, nil
}

// GetByID loads the player, the country and the game associations concurrently.
func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get player")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		games, err := s.playerRepo.ListGames(gctx, id)
		if err != nil {
			return err
		}
		player.Games = games
		return nil
	})
	if player.CountryID != nil {
		g.Go(func() error {
			country, err := s.countryRepo.GetByID(gctx, *player.CountryID)
			if err != nil {
				return err
			}
			player.Country = country
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "get player details")
	}
	return player, nil
}

func (s *playerService) GetAll(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.GetAll(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list players")
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	player, err := input.toModel()
	if err != nil {
		return nil, err
	}
	player.ID = id

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("players", "player_id", id, ErrPlayerNotFound),
			repositories.Unique("players", "nickname", player.Nickname, ErrPlayerNicknameConflict).
				FoldCase().
				Excluding("player_id", id),
			countryCheck(player.CountryID),
		); err != nil {
			return err
		}
		return s.playerRepo.Update(ctx, exec, player)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update player")
	}
	return player, nil
}

// Delete removes the player and the player's game associations. It is
// blocked while the player is on air.
func (s *playerService) Delete(ctx context.Context, id int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("players", "player_id", id, ErrPlayerNotFound),
			repositories.NoDependents(id, ErrPlayerInLiveMatch,
				repositories.Dependent{Table: "current_match", Column: "player1_id"},
				repositories.Dependent{Table: "current_match", Column: "player2_id"},
			),
		); err != nil {
			return err
		}
		return s.playerRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return handleRepositoryError(err, "delete player")
	}
	s.logger.Info("player deleted", slog.Int("player_id", id))
	return nil
}

func (s *playerService) AssignGame(ctx context.Context, playerID int, input AssignGameInput) (*models.PlayerGame, bool, error) {
	input.Rank = trimPtr(input.Rank)
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	pg := &models.PlayerGame{
		PlayerID:             playerID,
		GameID:               input.GameID,
		MainCharacterID:      input.MainCharacterID,
		SecondaryCharacterID: input.SecondaryCharacterID,
		Rank:                 input.Rank,
		SkillRating:          input.SkillRating,
	}

	var created bool
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("players", "player_id", playerID, ErrPlayerNotFound),
			repositories.Exists("games", "game_id", input.GameID, ErrGameNotFound),
			repositories.BelongsTo("characters", "character_id", input.MainCharacterID,
				"game_id", input.GameID, ErrCharacterNotFound, ErrCharacterOutsideGame),
			repositories.BelongsTo("characters", "character_id", input.SecondaryCharacterID,
				"game_id", input.GameID, ErrCharacterNotFound, ErrCharacterOutsideGame),
		); err != nil {
			return err
		}
		var err error
		created, err = s.playerRepo.UpsertGame(ctx, exec, pg)
		return err
	})
	if err != nil {
		return nil, false, handleRepositoryError(err, "assign game to player")
	}

	s.logger.Info("player game assigned",
		slog.Int("player_id", playerID),
		slog.Int("game_id", input.GameID),
		slog.Bool("created", created),
	)
	return pg, created, nil
}

func (s *playerService) RemoveGame(ctx context.Context, playerID, gameID int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.ExistsPair("player_games", "player_id", playerID, "game_id", gameID, ErrPlayerGameNotFound),
		); err != nil {
			return err
		}
		return s.playerRepo.DeleteGame(ctx, exec, playerID, gameID)
	})
	if err != nil {
		return handleRepositoryError(err, "remove game from player")
	}
	return nil
}
