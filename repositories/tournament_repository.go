package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentGameConflict  = errors.New("game already linked to tournament")
	ErrTournamentGameNotFound  = errors.New("game is not linked to tournament")
	ErrTournamentStageNotFound = errors.New("tournament stage not found")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetAll(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	AddGame(ctx context.Context, exec SQLExecutor, tournamentID, gameID int) error
	RemoveGame(ctx context.Context, exec SQLExecutor, tournamentID, gameID int) error
	ListGames(ctx context.Context, tournamentID int) ([]models.Game, error)

	CreateStage(ctx context.Context, exec SQLExecutor, stage *models.TournamentStage) error
	UpdateStage(ctx context.Context, exec SQLExecutor, stage *models.TournamentStage) error
	DeleteStage(ctx context.Context, exec SQLExecutor, stageID int) error
	ListStages(ctx context.Context, tournamentID int) ([]models.TournamentStage, error)

	UpdateStatusesByDates(ctx context.Context, exec SQLExecutor, now time.Time) (started, finished int64, err error)
}

const tournamentColumns = `tournament_id, name, start_date, end_date, location, description, logo_url, banner_url, prize_pool, status`

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.Location, &t.Description,
		&t.LogoURL, &t.BannerURL, &t.PrizePool, &t.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, start_date, end_date, location, description, logo_url, banner_url, prize_pool, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING tournament_id`

	return r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.Location, t.Description, t.LogoURL, t.BannerURL, t.PrizePool, t.Status,
	).Scan(&t.ID)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE tournament_id = $1`
	return scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetAll(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_date DESC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, start_date = $2, end_date = $3, location = $4, description = $5,
		    logo_url = $6, banner_url = $7, prize_pool = $8, status = $9
		WHERE tournament_id = $10`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		t.Name, t.StartDate, t.EndDate, t.Location, t.Description, t.LogoURL, t.BannerURL, t.PrizePool, t.Status, t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete removes the tournament with its game links and stages.
func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM tournament_games WHERE tournament_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete games of tournament %d: %w", id, err)
	}

	stageIDs, err := r.stageIDs(ctx, executor, id)
	if err != nil {
		return err
	}
	for _, stageID := range stageIDs {
		if err := r.DeleteStage(ctx, executor, stageID); err != nil {
			return err
		}
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE tournament_id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) stageIDs(ctx context.Context, exec SQLExecutor, tournamentID int) ([]int, error) {
	rows, err := exec.QueryContext(ctx, `SELECT stage_id FROM tournament_stages WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresTournamentRepository) AddGame(ctx context.Context, exec SQLExecutor, tournamentID, gameID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`INSERT INTO tournament_games (tournament_id, game_id) VALUES ($1, $2)`, tournamentID, gameID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrTournamentGameConflict
		}
		if isForeignKeyViolation(err) {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) RemoveGame(ctx context.Context, exec SQLExecutor, tournamentID, gameID int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM tournament_games WHERE tournament_id = $1 AND game_id = $2`, tournamentID, gameID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentGameNotFound)
}

func (r *postgresTournamentRepository) ListGames(ctx context.Context, tournamentID int) ([]models.Game, error) {
	query := `
		SELECT g.game_id, g.name, g.publisher, g.release_date, g.logo_url, g.banner_url, g.description
		FROM games g
		JOIN tournament_games tg ON g.game_id = tg.game_id
		WHERE tg.tournament_id = $1
		ORDER BY g.name`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
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

func (r *postgresTournamentRepository) CreateStage(ctx context.Context, exec SQLExecutor, s *models.TournamentStage) error {
	query := `
		INSERT INTO tournament_stages (tournament_id, name, start_date, end_date, stage_order, stage_type, best_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING stage_id`

	return r.getExecutor(exec).QueryRowContext(ctx, query,
		s.TournamentID, s.Name, s.StartDate, s.EndDate, s.StageOrder, s.StageType, s.BestOf,
	).Scan(&s.ID)
}

func (r *postgresTournamentRepository) UpdateStage(ctx context.Context, exec SQLExecutor, s *models.TournamentStage) error {
	query := `
		UPDATE tournament_stages
		SET name = $1, start_date = $2, end_date = $3, stage_order = $4, stage_type = $5, best_of = $6
		WHERE stage_id = $7 AND tournament_id = $8`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		s.Name, s.StartDate, s.EndDate, s.StageOrder, s.StageType, s.BestOf, s.ID, s.TournamentID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentStageNotFound)
}

// DeleteStage removes the stage together with its groups and bracket rounds.
func (r *postgresTournamentRepository) DeleteStage(ctx context.Context, exec SQLExecutor, stageID int) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx, `DELETE FROM groups WHERE stage_id = $1`, stageID); err != nil {
		return fmt.Errorf("failed to delete groups of stage %d: %w", stageID, err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM bracket_rounds WHERE stage_id = $1`, stageID); err != nil {
		return fmt.Errorf("failed to delete bracket rounds of stage %d: %w", stageID, err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM tournament_stages WHERE stage_id = $1`, stageID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentStageNotFound)
}

func (r *postgresTournamentRepository) ListStages(ctx context.Context, tournamentID int) ([]models.TournamentStage, error) {
	query := `
		SELECT stage_id, tournament_id, name, start_date, end_date, stage_order, stage_type, best_of
		FROM tournament_stages
		WHERE tournament_id = $1
		ORDER BY stage_order`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]models.TournamentStage, 0)
	for rows.Next() {
		var s models.TournamentStage
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.Name, &s.StartDate, &s.EndDate, &s.StageOrder, &s.StageType, &s.BestOf); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

// UpdateStatusesByDates moves tournaments forward according to their dates:
// upcoming → ongoing once started, upcoming/ongoing → completed once ended.
func (r *postgresTournamentRepository) UpdateStatusesByDates(ctx context.Context, exec SQLExecutor, now time.Time) (int64, int64, error) {
	executor := r.getExecutor(exec)

	finishedRes, err := executor.ExecContext(ctx, `
		UPDATE tournaments SET status = $1
		WHERE status IN ($2, $3) AND end_date IS NOT NULL AND end_date < $4`,
		models.StatusCompleted, models.StatusUpcoming, models.StatusOngoing, now)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to complete finished tournaments: %w", err)
	}
	finished, err := finishedRes.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	startedRes, err := executor.ExecContext(ctx, `
		UPDATE tournaments SET status = $1
		WHERE status = $2 AND start_date IS NOT NULL AND start_date <= $3`,
		models.StatusOngoing, models.StatusUpcoming, now)
	if err != nil {
		return 0, finished, fmt.Errorf("failed to start tournaments: %w", err)
	}
	started, err := startedRes.RowsAffected()
	if err != nil {
		return 0, finished, err
	}
	return started, finished, nil
}
