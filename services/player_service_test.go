package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/esports-overlay/repositories"
)

func newPlayerService(env *testEnv) PlayerService {
	return NewPlayerService(env.tx,
		repositories.NewPostgresPlayerRepository(env.db),
		repositories.NewPostgresCountryRepository(env.db),
		testLogger(),
	)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestPlayerNicknameConflictLeavesFirstPlayer(t *testing.T) {
	env := newTestEnv(t)
	svc := newPlayerService(env)
	now := time.Now()

	env.mock.ExpectBegin()
	env.expectExists("players", `LOWER("nickname") = LOWER($1)`, false, "A")
	env.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
		WithArgs("A", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"player_id", "created_at"}).AddRow(1, now))
	env.mock.ExpectCommit()

	env.mock.ExpectBegin()
	env.expectExists("players", `LOWER("nickname") = LOWER($1)`, true, "a")
	env.mock.ExpectRollback()

	first, err := svc.Create(context.Background(), PlayerInput{Nickname: "A"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.ID != 1 {
		t.Fatalf("first player id = %d", first.ID)
	}

	_, err = svc.Create(context.Background(), PlayerInput{Nickname: "a"})
	assertCategory(t, err, ErrConflict, ErrPlayerNicknameConflict)
}

func TestPlayerCreateUnknownCountry(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("players", `LOWER("nickname") = LOWER($1)`, false, "Sonic")
	env.expectExists("countries", `"country_id" = $1`, false, 99)
	env.mock.ExpectRollback()

	_, err := newPlayerService(env).Create(context.Background(), PlayerInput{Nickname: "Sonic", CountryID: intPtr(99)})
	assertCategory(t, err, ErrNotFound, ErrCountryNotFound)
}

func TestPlayerDeleteBlockedByLiveMatch(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("players", `"player_id" = $1`, true, 5)
	env.expectExists("current_match", `"player1_id" = $1`, false, 5)
	env.expectExists("current_match", `"player2_id" = $1`, true, 5)
	env.mock.ExpectRollback()

	err := newPlayerService(env).Delete(context.Background(), 5)
	assertCategory(t, err, ErrConflict, ErrPlayerInLiveMatch)
}

func TestPlayerDeleteCascadesAssociations(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("players", `"player_id" = $1`, true, 5)
	env.expectExists("current_match", `"player1_id" = $1`, false, 5)
	env.expectExists("current_match", `"player2_id" = $1`, false, 5)
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_games WHERE player_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM players WHERE player_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	if err := newPlayerService(env).Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssignGameCharacterFromOtherGame(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("players", `"player_id" = $1`, true, 1)
	env.expectExists("games", `"game_id" = $1`, true, 2)
	env.mock.ExpectQuery(regexp.QuoteMeta(`SELECT "game_id" FROM "characters" WHERE "character_id" = $1`)).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}).AddRow(9))
	env.mock.ExpectRollback()

	_, _, err := newPlayerService(env).AssignGame(context.Background(), 1, AssignGameInput{
		GameID:          2,
		MainCharacterID: intPtr(30),
	})
	assertCategory(t, err, ErrBadReference, ErrCharacterOutsideGame)
}

func TestAssignGameTwiceKeepsOneRow(t *testing.T) {
	env := newTestEnv(t)
	svc := newPlayerService(env)
	now := time.Now()
	upsert := regexp.QuoteMeta(`ON CONFLICT (player_id, game_id) DO UPDATE`)

	for i, rank := range []string{"Gold", "Diamond"} {
		env.mock.ExpectBegin()
		env.expectExists("players", `"player_id" = $1`, true, 1)
		env.expectExists("games", `"game_id" = $1`, true, 2)
		env.mock.ExpectQuery(upsert).
			WithArgs(1, 2, nil, nil, rank, nil).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at", "inserted"}).AddRow(now, i == 0))
		env.mock.ExpectCommit()
	}

	_, created, err := svc.AssignGame(context.Background(), 1, AssignGameInput{GameID: 2, Rank: strPtr("Gold")})
	if err != nil || !created {
		t.Fatalf("first assign: created=%v err=%v", created, err)
	}
	pg, created, err := svc.AssignGame(context.Background(), 1, AssignGameInput{GameID: 2, Rank: strPtr(" Diamond ")})
	if err != nil || created {
		t.Fatalf("second assign: created=%v err=%v", created, err)
	}
	if pg.Rank == nil || *pg.Rank != "Diamond" {
		t.Fatalf("rank = %v, want Diamond", pg.Rank)
	}
}

func TestAssignGameRequiresGame(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := newPlayerService(env).AssignGame(context.Background(), 1, AssignGameInput{})
	assertCategory(t, err, ErrValidationFailed, nil)
}

func TestRemoveGameMissingAssociation(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("player_games", `"player_id" = $1 AND "game_id" = $2`, false, 1, 2)
	env.mock.ExpectRollback()

	err := newPlayerService(env).RemoveGame(context.Background(), 1, 2)
	assertCategory(t, err, ErrNotFound, ErrPlayerGameNotFound)
}
