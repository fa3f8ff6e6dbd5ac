package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/esports-overlay/repositories"
)

func newGameService(env *testEnv) GameService {
	return NewGameService(env.tx,
		repositories.NewPostgresGameRepository(env.db),
		repositories.NewPostgresCharacterRepository(env.db),
		testLogger(),
	)
}

func TestGameDeleteRemovesCharacters(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("games", `"game_id" = $1`, true, 3)
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_games WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM characters WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 12))
	env.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM games WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	if err := newGameService(env).Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGameUpdateMissing(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("games", `"game_id" = $1`, false, 3)
	env.mock.ExpectRollback()

	_, err := newGameService(env).Update(context.Background(), 3, GameInput{Name: "Tekken 8"})
	assertCategory(t, err, ErrNotFound, ErrGameNotFound)
}

func TestGameReleaseDateFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := newGameService(env).Create(context.Background(), GameInput{Name: "Tekken 8", ReleaseDate: strPtr("26.01.2024")})
	assertCategory(t, err, ErrValidationFailed, nil)
}

func TestGameGetByIDLoadsRoster(t *testing.T) {
	env := newTestEnv(t)
	env.mock.MatchExpectationsInOrder(false)
	env.mock.ExpectQuery(regexp.QuoteMeta(`FROM games WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"game_id", "name", "publisher", "release_date", "logo_url", "banner_url", "description"}).
			AddRow(3, "Mortal Kombat 1", nil, nil, nil, nil, nil))
	env.mock.ExpectQuery(regexp.QuoteMeta(`WHERE c.game_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"character_id", "game_id", "name", "image_url", "description", "is_kameo", "game_name"}).
			AddRow(1, 3, "Scorpion", nil, nil, false, "Mortal Kombat 1").
			AddRow(2, 3, "Sektor", nil, nil, true, "Mortal Kombat 1"))

	game, err := newGameService(env).GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(game.Characters) != 2 || !game.Characters[1].IsKameo {
		t.Fatalf("unexpected roster %+v", game.Characters)
	}
}

func TestCharacterNameConflictWithinGame(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("games", `"game_id" = $1`, true, 3)
	env.expectExists("characters", `"name" = $1 AND "game_id" = $2`, true, "Scorpion", 3)
	env.mock.ExpectRollback()

	svc := NewCharacterService(env.tx, repositories.NewPostgresCharacterRepository(env.db), testLogger())
	_, err := svc.Create(context.Background(), CharacterInput{GameID: 3, Name: "Scorpion"})
	assertCategory(t, err, ErrConflict, ErrCharacterNameConflict)
}

func TestCharacterDeleteBlockedBySecondaryPick(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("characters", `"character_id" = $1`, true, 5)
	env.expectExists("player_games", `"main_character_id" = $1`, false, 5)
	env.expectExists("player_games", `"secondary_character_id" = $1`, true, 5)
	env.mock.ExpectRollback()

	svc := NewCharacterService(env.tx, repositories.NewPostgresCharacterRepository(env.db), testLogger())
	err := svc.Delete(context.Background(), 5)
	assertCategory(t, err, ErrConflict, ErrCharacterInUse)
}

func TestCharacterMoveToOtherGameBlockedByPick(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("characters", `"character_id" = $1`, true, 5)
	env.expectExists("games", `"game_id" = $1`, true, 2)
	env.expectExists("characters", `"name" = $1 AND "game_id" = $2 AND "character_id" <> $3`, false, "Scorpion", 2, 5)
	env.expectExists("player_games", `"main_character_id" = $1 AND "game_id" <> $2`, true, 5, 2)
	env.mock.ExpectRollback()

	svc := NewCharacterService(env.tx, repositories.NewPostgresCharacterRepository(env.db), testLogger())
	_, err := svc.Update(context.Background(), 5, CharacterInput{GameID: 2, Name: "Scorpion"})
	assertCategory(t, err, ErrConflict, ErrCharacterGameLocked)
}

func TestCharacterUpdateWithinSameGameKeepsPicks(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.expectExists("characters", `"character_id" = $1`, true, 5)
	env.expectExists("games", `"game_id" = $1`, true, 1)
	env.expectExists("characters", `"name" = $1 AND "game_id" = $2 AND "character_id" <> $3`, false, "Scorpion", 1, 5)
	env.expectExists("player_games", `"main_character_id" = $1 AND "game_id" <> $2`, false, 5, 1)
	env.expectExists("player_games", `"secondary_character_id" = $1 AND "game_id" <> $2`, false, 5, 1)
	env.mock.ExpectExec(regexp.QuoteMeta(`UPDATE characters`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	svc := NewCharacterService(env.tx, repositories.NewPostgresCharacterRepository(env.db), testLogger())
	character, err := svc.Update(context.Background(), 5, CharacterInput{GameID: 1, Name: "Scorpion", IsKameo: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if character.GameID != 1 || !character.IsKameo {
		t.Fatalf("unexpected character %+v", character)
	}
}
