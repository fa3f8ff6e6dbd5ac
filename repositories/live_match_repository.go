package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/esports-overlay/models"
)

var (
	ErrNoLiveMatch          = errors.New("no live match")
	ErrMatchAlreadyRecorded = errors.New("match already recorded in history")
)

const matchHistoryConstraint = "match_history_match_id_key"

type LiveMatchRepository interface {
	Replace(ctx context.Context, exec SQLExecutor, match *models.LiveMatch) error
	UpdateScores(ctx context.Context, exec SQLExecutor, player1Score, player2Score *int) error
	GetCurrent(ctx context.Context, exec SQLExecutor) (*models.LiveMatch, error)
	CreateHistory(ctx context.Context, exec SQLExecutor, h *models.MatchHistory) error
	ListHistory(ctx context.Context, limit int) ([]models.MatchHistory, error)
}

type postgresLiveMatchRepository struct {
	db *sql.DB
}

func NewPostgresLiveMatchRepository(db *sql.DB) LiveMatchRepository {
	return &postgresLiveMatchRepository{db: db}
}

func (r *postgresLiveMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Replace puts a new pairing on air. There is at most one live row, so the
// write is an upsert on the fixed slot that always draws a fresh match id.
func (r *postgresLiveMatchRepository) Replace(ctx context.Context, exec SQLExecutor, m *models.LiveMatch) error {
	query := `
		INSERT INTO current_match (slot, player1_id, player2_id, player1_score, player2_score, title, game_id, created_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (slot) DO UPDATE
		SET match_id = nextval('current_match_match_id_seq'),
		    player1_id = EXCLUDED.player1_id,
		    player2_id = EXCLUDED.player2_id,
		    player1_score = EXCLUDED.player1_score,
		    player2_score = EXCLUDED.player2_score,
		    title = EXCLUDED.title,
		    game_id = EXCLUDED.game_id,
		    created_at = NOW(),
		    updated_at = NOW()
		RETURNING match_id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.Player1ID, m.Player2ID, m.Player1Score, m.Player2Score, m.Title, m.GameID,
	).Scan(&m.MatchID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return ErrPlayerReferenceInvalid
	}
	return err
}

// UpdateScores sets the supplied scores on the live row; nil leaves a side untouched.
func (r *postgresLiveMatchRepository) UpdateScores(ctx context.Context, exec SQLExecutor, player1Score, player2Score *int) error {
	query := `
		UPDATE current_match
		SET player1_score = COALESCE($1, player1_score),
		    player2_score = COALESCE($2, player2_score),
		    updated_at = NOW()
		WHERE slot = 1`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, player1Score, player2Score)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNoLiveMatch)
}

// GetCurrent returns the live row joined with the display data of both
// players and the game. Pass the transaction to read its own writes.
func (r *postgresLiveMatchRepository) GetCurrent(ctx context.Context, exec SQLExecutor) (*models.LiveMatch, error) {
	query := `
		SELECT cm.match_id, cm.player1_id, cm.player2_id, cm.player1_score, cm.player2_score,
		       cm.title, cm.game_id, cm.created_at, cm.updated_at, g.name,
		       p1.nickname, p1.avatar_url, c1.code, c1.name, c1.flag_url,
		       p2.nickname, p2.avatar_url, c2.code, c2.name, c2.flag_url
		FROM current_match cm
		JOIN players p1 ON cm.player1_id = p1.player_id
		JOIN players p2 ON cm.player2_id = p2.player_id
		LEFT JOIN countries c1 ON p1.country_id = c1.country_id
		LEFT JOIN countries c2 ON p2.country_id = c2.country_id
		LEFT JOIN games g ON cm.game_id = g.game_id
		WHERE cm.slot = 1`

	var m models.LiveMatch
	p1 := &models.MatchPlayer{}
	p2 := &models.MatchPlayer{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query).Scan(
		&m.MatchID, &m.Player1ID, &m.Player2ID, &m.Player1Score, &m.Player2Score,
		&m.Title, &m.GameID, &m.CreatedAt, &m.UpdatedAt, &m.GameName,
		&p1.Nickname, &p1.AvatarURL, &p1.CountryCode, &p1.CountryName, &p1.FlagURL,
		&p2.Nickname, &p2.AvatarURL, &p2.CountryCode, &p2.CountryName, &p2.FlagURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoLiveMatch
		}
		return nil, err
	}
	p1.PlayerID = m.Player1ID
	p2.PlayerID = m.Player2ID
	m.Player1, m.Player2 = p1, p2
	return &m, nil
}

func (r *postgresLiveMatchRepository) CreateHistory(ctx context.Context, exec SQLExecutor, h *models.MatchHistory) error {
	query := `
		INSERT INTO match_history (match_id, player1_id, player2_id, player1_score, player2_score, winner_id, title, game_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING history_id, played_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		h.MatchID, h.Player1ID, h.Player2ID, h.Player1Score, h.Player2Score, h.WinnerID, h.Title, h.GameID,
	).Scan(&h.ID, &h.PlayedAt)
	if err != nil && isUniqueViolation(err, matchHistoryConstraint) {
		return ErrMatchAlreadyRecorded
	}
	return err
}

func (r *postgresLiveMatchRepository) ListHistory(ctx context.Context, limit int) ([]models.MatchHistory, error) {
	query := `
		SELECT mh.history_id, mh.match_id, mh.player1_id, mh.player2_id, mh.player1_score, mh.player2_score,
		       mh.winner_id, mh.title, mh.game_id, mh.played_at, p1.nickname, p2.nickname
		FROM match_history mh
		JOIN players p1 ON mh.player1_id = p1.player_id
		JOIN players p2 ON mh.player2_id = p2.player_id
		ORDER BY mh.played_at DESC, mh.history_id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]models.MatchHistory, 0)
	for rows.Next() {
		var h models.MatchHistory
		if err := rows.Scan(
			&h.ID, &h.MatchID, &h.Player1ID, &h.Player2ID, &h.Player1Score, &h.Player2Score,
			&h.WinnerID, &h.Title, &h.GameID, &h.PlayedAt, &h.Player1Nickname, &h.Player2Nickname,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}
