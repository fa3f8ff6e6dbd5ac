package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameInUse    = errors.New("game cannot be deleted as it is in use")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetAll(ctx context.Context) ([]models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	UpdateLogoURL(ctx context.Context, exec SQLExecutor, id int, logoURL string) error
}

const gameColumns = `game_id, name, publisher, release_date, logo_url, banner_url, description`

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanGame(row rowScanner) (*models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.Name, &g.Publisher, &g.ReleaseDate, &g.LogoURL, &g.BannerURL, &g.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (name, publisher, release_date, logo_url, banner_url, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING game_id`

	return r.getExecutor(exec).QueryRowContext(ctx, query,
		game.Name, game.Publisher, game.ReleaseDate, game.LogoURL, game.BannerURL, game.Description,
	).Scan(&game.ID)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`
	return scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetAll(ctx context.Context) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		UPDATE games
		SET name = $1, publisher = $2, release_date = $3, logo_url = $4, banner_url = $5, description = $6
		WHERE game_id = $7`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		game.Name, game.Publisher, game.ReleaseDate, game.LogoURL, game.BannerURL, game.Description, game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// Delete removes the game together with its player associations and
// characters. Tournament links go with the game through ON DELETE CASCADE.
func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM player_games WHERE game_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete player associations of game %d: %w", id, err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM characters WHERE game_id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrGameInUse
		}
		return fmt.Errorf("failed to delete characters of game %d: %w", id, err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM games WHERE game_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrGameInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateLogoURL(ctx context.Context, exec SQLExecutor, id int, logoURL string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE games SET logo_url = $1 WHERE game_id = $2`, logoURL, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
