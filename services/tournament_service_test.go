package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/repositories"
)

func newTournamentService(env *testEnv) TournamentService {
	return NewTournamentService(env.tx, repositories.NewPostgresTournamentRepository(env.db), testLogger())
}

func TestTournamentDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("tournaments", `"tournament_id" = $1`, true, 4)
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tournament_games WHERE tournament_id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	env.mock.ExpectQuery(regexp.QuoteMeta(`SELECT stage_id FROM tournament_stages WHERE tournament_id = $1`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"stage_id"}).AddRow(10).AddRow(11))
	for _, stageID := range []int{10, 11} {
		env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM groups WHERE stage_id = $1`)).
			WithArgs(stageID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bracket_rounds WHERE stage_id = $1`)).
			WithArgs(stageID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tournament_stages WHERE stage_id = $1`)).
			WithArgs(stageID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tournaments WHERE tournament_id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	if err := newTournamentService(env).Delete(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTournamentCreateWithUnknownGameWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("games", `"game_id" = $1`, true, 1)
	env.expectExists("games", `"game_id" = $1`, false, 2)
	env.mock.ExpectRollback()

	_, err := newTournamentService(env).Create(context.Background(), TournamentInput{
		Name:  "EVO",
		Games: []int{1, 2, 1},
	})
	assertCategory(t, err, ErrNotFound, ErrGameNotFound)
}

func TestTournamentCreateLinksGames(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("games", `"game_id" = $1`, true, 1)
	env.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tournaments`)).
		WillReturnRows(sqlmock.NewRows([]string{"tournament_id"}).AddRow(8))
	env.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tournament_games (tournament_id, game_id) VALUES ($1, $2)`)).
		WithArgs(8, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	tournament, err := newTournamentService(env).Create(context.Background(), TournamentInput{Name: "EVO", Games: []int{1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tournament.Status != models.StatusUpcoming {
		t.Fatalf("status = %s, want upcoming", tournament.Status)
	}
}

func TestTournamentDateRangeValidation(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)

	_, err := newTournamentService(env).Create(context.Background(), TournamentInput{Name: "EVO", StartDate: &start, EndDate: &end})
	assertCategory(t, err, ErrValidationFailed, ErrTournamentInvalidDates)
}

func TestTournamentAddGameTwice(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("tournaments", `"tournament_id" = $1`, true, 4)
	env.expectExists("games", `"game_id" = $1`, true, 1)
	env.expectExists("tournament_games", `"game_id" = $1 AND "tournament_id" = $2`, true, 1, 4)
	env.mock.ExpectRollback()

	err := newTournamentService(env).AddGame(context.Background(), 4, 1)
	assertCategory(t, err, ErrConflict, ErrTournamentGameConflict)
}

func TestTournamentStageOutsideTournament(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("tournament_stages", `"stage_id" = $1 AND "tournament_id" = $2`, false, 10, 4)
	env.mock.ExpectRollback()

	err := newTournamentService(env).DeleteStage(context.Background(), 4, 10)
	assertCategory(t, err, ErrNotFound, ErrTournamentStageNotFound)
}

func TestAutoUpdateStatuses(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	env.mock.ExpectBegin()
	env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE tournaments SET status = $1 WHERE status IN ($2, $3)`)).
		WithArgs(models.StatusCompleted, models.StatusUpcoming, models.StatusOngoing, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE tournaments SET status = $1 WHERE status = $2`)).
		WithArgs(models.StatusOngoing, models.StatusUpcoming, now).
		WillReturnResult(sqlmock.NewResult(0, 2))
	env.mock.ExpectCommit()

	if err := newTournamentService(env).AutoUpdateStatuses(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
