package services

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/repositories"
)

type CharacterService interface {
	Create(ctx context.Context, input CharacterInput) (*models.Character, error)
	GetByID(ctx context.Context, id int) (*models.Character, error)
	GetAll(ctx context.Context) ([]models.Character, error)
	Update(ctx context.Context, id int, input CharacterInput) (*models.Character, error)
	Delete(ctx context.Context, id int) error
}

type CharacterInput struct {
	GameID      int     `json:"game_id" validate:"required,gte=1"`
	Name        string  `json:"name" validate:"required,max=100"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Description *string `json:"description"`
	IsKameo     bool    `json:"is_kameo"`
}

type characterService struct {
	tx            repositories.TxRunner
	characterRepo repositories.CharacterRepository
	logger        *slog.Logger
}

func NewCharacterService(tx repositories.TxRunner, characterRepo repositories.CharacterRepository, logger *slog.Logger) CharacterService {
	return &characterService{tx: tx, characterRepo: characterRepo, logger: logger}
}

func (in CharacterInput) toModel() (*models.Character, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return &models.Character{
		GameID:      in.GameID,
		Name:        in.Name,
		ImageURL:    trimPtr(in.ImageURL),
		Description: in.Description,
		IsKameo:     in.IsKameo,
	}, nil
}

func (s *characterService) Create(ctx context.Context, input CharacterInput) (*models.Character, error) {
	character, err := input.toModel()
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("games", "game_id", character.GameID, ErrGameNotFound),
			repositories.Unique("characters", "name", character.Name, ErrCharacterNameConflict).
				Within("game_id", character.GameID),
		); err != nil {
			return err
		}
		return s.characterRepo.Create(ctx, exec, character)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "create character")
	}
	s.logger.Info("character created", slog.Int("character_id", character.ID), slog.Int("game_id", character.GameID))
	return character, nil
}

// GetByID returns the character with the players who pick it.
func (s *characterService) GetByID(ctx context.Context, id int) (*models.Character, error) {
	var (
		character       *models.Character
		main, secondary []models.PlayerSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		character, err = s.characterRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		main, secondary, err = s.characterRepo.ListPlayers(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, handleRepositoryError(err, "get character")
	}

	character.MainPlayers = main
	character.SecondaryPlayers = secondary
	return character, nil
}

func (s *characterService) GetAll(ctx context.Context) ([]models.Character, error) {
	characters, err := s.characterRepo.GetAll(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "list characters")
	}
	return characters, nil
}

func (s *characterService) Update(ctx context.Context, id int, input CharacterInput) (*models.Character, error) {
	character, err := input.toModel()
	if err != nil {
		return nil, err
	}
	character.ID = id

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("characters", "character_id", id, ErrCharacterNotFound),
			repositories.Exists("games", "game_id", character.GameID, ErrGameNotFound),
			repositories.Unique("characters", "name", character.Name, ErrCharacterNameConflict).
				Within("game_id", character.GameID).
				Excluding("character_id", id),
			// Picks stay valid only while the character keeps its game.
			repositories.NoDependents(id, ErrCharacterGameLocked,
				repositories.Dependent{Table: "player_games", Column: "main_character_id"},
				repositories.Dependent{Table: "player_games", Column: "secondary_character_id"},
			).Outside("game_id", character.GameID),
		); err != nil {
			return err
		}
		return s.characterRepo.Update(ctx, exec, character)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "update character")
	}
	return character, nil
}

// Delete is blocked while any player picks the character.
func (s *characterService) Delete(ctx context.Context, id int) error {
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := repositories.Verify(ctx, exec,
			repositories.Exists("characters", "character_id", id, ErrCharacterNotFound),
			repositories.NoDependents(id, ErrCharacterInUse,
				repositories.Dependent{Table: "player_games", Column: "main_character_id"},
				repositories.Dependent{Table: "player_games", Column: "secondary_character_id"},
			),
		); err != nil {
			return err
		}
		return s.characterRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return handleRepositoryError(err, "delete character")
	}
	s.logger.Info("character deleted", slog.Int("character_id", id))
	return nil
}
