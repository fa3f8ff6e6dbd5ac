package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerNicknameConflict = errors.New("player nickname conflict")
	ErrPlayerReferenceInvalid = errors.New("player country or character reference invalid")
	ErrPlayerInUse            = errors.New("player cannot be deleted as it is in use")
	ErrPlayerGameNotFound     = errors.New("player game association not found")
)

const playerNicknameConstraint = "players_nickname_key"

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetAll(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	UpdateAvatarURL(ctx context.Context, exec SQLExecutor, id int, avatarURL string) error

	ListGames(ctx context.Context, playerID int) ([]models.PlayerGame, error)
	UpsertGame(ctx context.Context, exec SQLExecutor, pg *models.PlayerGame) (created bool, err error)
	DeleteGame(ctx context.Context, exec SQLExecutor, playerID, gameID int) error
}

const playerColumns = `player_id, nickname, real_name, country_id, avatar_url, created_at`

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) handleWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, playerNicknameConstraint):
		return ErrPlayerNicknameConflict
	case isForeignKeyViolation(err):
		return ErrPlayerReferenceInvalid
	}
	return err
}

func scanPlayer(row rowScanner) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.Nickname, &p.RealName, &p.CountryID, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (nickname, real_name, country_id, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING player_id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		player.Nickname, player.RealName, player.CountryID, player.AvatarURL,
	).Scan(&player.ID, &player.CreatedAt)
	return r.handleWriteError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1`
	return scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetAll(ctx context.Context) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY nickname`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		UPDATE players
		SET nickname = $1, real_name = $2, country_id = $3, avatar_url = $4
		WHERE player_id = $5
		RETURNING created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		player.Nickname, player.RealName, player.CountryID, player.AvatarURL, player.ID,
	).Scan(&player.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return r.handleWriteError(err)
	}
	return nil
}

// Delete removes the player's game associations and then the player.
func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM player_games WHERE player_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete game associations of player %d: %w", id, err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM players WHERE player_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarURL(ctx context.Context, exec SQLExecutor, id int, avatarURL string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE players SET avatar_url = $1 WHERE player_id = $2`, avatarURL, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ListGames(ctx context.Context, playerID int) ([]models.PlayerGame, error) {
	query := `
		SELECT pg.player_id, pg.game_id, pg.main_character_id, pg.secondary_character_id,
		       pg.rank, pg.skill_rating, pg.updated_at, g.name, mc.name, sc.name
		FROM player_games pg
		JOIN games g ON pg.game_id = g.game_id
		LEFT JOIN characters mc ON pg.main_character_id = mc.character_id
		LEFT JOIN characters sc ON pg.secondary_character_id = sc.character_id
		WHERE pg.player_id = $1
		ORDER BY g.name`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.PlayerGame, 0)
	for rows.Next() {
		var pg models.PlayerGame
		if err := rows.Scan(
			&pg.PlayerID, &pg.GameID, &pg.MainCharacterID, &pg.SecondaryCharacterID,
			&pg.Rank, &pg.SkillRating, &pg.UpdatedAt, &pg.GameName, &pg.MainCharacterName, &pg.SecondaryCharacterName,
		); err != nil {
			return nil, err
		}
		games = append(games, pg)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// UpsertGame creates or replaces the association for (PlayerID, GameID) in a
// single statement, so concurrent calls for the same key never both insert.
// created reports whether a new row was inserted.
func (r *postgresPlayerRepository) UpsertGame(ctx context.Context, exec SQLExecutor, pg *models.PlayerGame) (bool, error) {
	query := `
		INSERT INTO player_games (player_id, game_id, main_character_id, secondary_character_id, rank, skill_rating, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (player_id, game_id) DO UPDATE
		SET main_character_id = EXCLUDED.main_character_id,
		    secondary_character_id = EXCLUDED.secondary_character_id,
		    rank = EXCLUDED.rank,
		    skill_rating = EXCLUDED.skill_rating,
		    updated_at = NOW()
		RETURNING updated_at, (xmax = 0) AS inserted`

	var inserted bool
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		pg.PlayerID, pg.GameID, pg.MainCharacterID, pg.SecondaryCharacterID, pg.Rank, pg.SkillRating,
	).Scan(&pg.UpdatedAt, &inserted)
	if err != nil {
		return false, r.handleWriteError(err)
	}
	return inserted, nil
}

func (r *postgresPlayerRepository) DeleteGame(ctx context.Context, exec SQLExecutor, playerID, gameID int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM player_games WHERE player_id = $1 AND game_id = $2`, playerID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerGameNotFound)
}
