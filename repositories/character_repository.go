package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrCharacterNotFound     = errors.New("character not found")
	ErrCharacterNameConflict = errors.New("character name conflict within game")
	ErrCharacterGameInvalid  = errors.New("character game conflict or invalid")
	ErrCharacterInUse        = errors.New("character cannot be deleted as it is in use")
)

const characterNameConstraint = "characters_game_id_name_key"

type CharacterRepository interface {
	Create(ctx context.Context, exec SQLExecutor, character *models.Character) error
	GetByID(ctx context.Context, id int) (*models.Character, error)
	GetAll(ctx context.Context) ([]models.Character, error)
	ListByGame(ctx context.Context, gameID int) ([]models.Character, error)
	ListPlayers(ctx context.Context, characterID int) (main, secondary []models.PlayerSummary, err error)
	Update(ctx context.Context, exec SQLExecutor, character *models.Character) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresCharacterRepository struct {
	db *sql.DB
}

func NewPostgresCharacterRepository(db *sql.DB) CharacterRepository {
	return &postgresCharacterRepository{db: db}
}

func (r *postgresCharacterRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCharacterRepository) handleWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, characterNameConstraint):
		return ErrCharacterNameConflict
	case isForeignKeyViolation(err):
		return ErrCharacterGameInvalid
	}
	return err
}

func (r *postgresCharacterRepository) Create(ctx context.Context, exec SQLExecutor, character *models.Character) error {
	query := `
		INSERT INTO characters (game_id, name, image_url, description, is_kameo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING character_id`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		character.GameID, character.Name, character.ImageURL, character.Description, character.IsKameo,
	).Scan(&character.ID)
	return r.handleWriteError(err)
}

func scanCharacterWithGame(row rowScanner) (*models.Character, error) {
	var c models.Character
	err := row.Scan(&c.ID, &c.GameID, &c.Name, &c.ImageURL, &c.Description, &c.IsKameo, &c.GameName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresCharacterRepository) GetByID(ctx context.Context, id int) (*models.Character, error) {
	query := `
		SELECT c.character_id, c.game_id, c.name, c.image_url, c.description, c.is_kameo, g.name
		FROM characters c
		JOIN games g ON c.game_id = g.game_id
		WHERE c.character_id = $1`
	return scanCharacterWithGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresCharacterRepository) GetAll(ctx context.Context) ([]models.Character, error) {
	query := `
		SELECT c.character_id, c.game_id, c.name, c.image_url, c.description, c.is_kameo, g.name
		FROM characters c
		JOIN games g ON c.game_id = g.game_id
		ORDER BY g.name, c.name`
	return r.list(ctx, query)
}

func (r *postgresCharacterRepository) ListByGame(ctx context.Context, gameID int) ([]models.Character, error) {
	query := `
		SELECT c.character_id, c.game_id, c.name, c.image_url, c.description, c.is_kameo, g.name
		FROM characters c
		JOIN games g ON c.game_id = g.game_id
		WHERE c.game_id = $1
		ORDER BY c.name`
	return r.list(ctx, query, gameID)
}

func (r *postgresCharacterRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Character, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	characters := make([]models.Character, 0)
	for rows.Next() {
		c, err := scanCharacterWithGame(rows)
		if err != nil {
			return nil, err
		}
		characters = append(characters, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return characters, nil
}

// ListPlayers returns the players using the character as main and as secondary pick.
func (r *postgresCharacterRepository) ListPlayers(ctx context.Context, characterID int) ([]models.PlayerSummary, []models.PlayerSummary, error) {
	query := `
		SELECT p.player_id, p.nickname, p.avatar_url, pg.main_character_id = $1
		FROM player_games pg
		JOIN players p ON pg.player_id = p.player_id
		WHERE pg.main_character_id = $1 OR pg.secondary_character_id = $1
		ORDER BY p.nickname`

	rows, err := r.db.QueryContext(ctx, query, characterID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	main := make([]models.PlayerSummary, 0)
	secondary := make([]models.PlayerSummary, 0)
	for rows.Next() {
		var p models.PlayerSummary
		var isMain bool
		if err := rows.Scan(&p.ID, &p.Nickname, &p.AvatarURL, &isMain); err != nil {
			return nil, nil, err
		}
		if isMain {
			main = append(main, p)
		} else {
			secondary = append(secondary, p)
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}
	return main, secondary, nil
}

func (r *postgresCharacterRepository) Update(ctx context.Context, exec SQLExecutor, character *models.Character) error {
	query := `
		UPDATE characters
		SET game_id = $1, name = $2, image_url = $3, description = $4, is_kameo = $5
		WHERE character_id = $6`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		character.GameID, character.Name, character.ImageURL, character.Description, character.IsKameo, character.ID,
	)
	if err != nil {
		return r.handleWriteError(err)
	}
	return checkAffectedRows(result, ErrCharacterNotFound)
}

func (r *postgresCharacterRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM characters WHERE character_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCharacterInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrCharacterNotFound)
}
