package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/Dosada05/esports-overlay/models"
)

func TestUpsertGameReportsCreated(t *testing.T) {
	tests := []struct {
		name     string
		inserted bool
	}{
		{name: "new association", inserted: true},
		{name: "replaced association", inserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			main := 5
			mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (player_id, game_id) DO UPDATE`)).
				WithArgs(1, 2, &main, nil, nil, nil).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at", "inserted"}).AddRow(now, tt.inserted))

			pg := &models.PlayerGame{PlayerID: 1, GameID: 2, MainCharacterID: &main}
			created, err := NewPostgresPlayerRepository(db).UpsertGame(context.Background(), db, pg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created != tt.inserted {
				t.Fatalf("created = %v, want %v", created, tt.inserted)
			}
			if !pg.UpdatedAt.Equal(now) {
				t.Fatalf("updated_at = %v, want %v", pg.UpdatedAt, now)
			}
		})
	}
}

func TestPlayerCreateMapsNicknameViolation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO players`)).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: playerNicknameConstraint})

	err := NewPostgresPlayerRepository(db).Create(context.Background(), db, &models.Player{Nickname: "Sonic"})
	if !errors.Is(err, ErrPlayerNicknameConflict) {
		t.Fatalf("expected ErrPlayerNicknameConflict, got %v", err)
	}
}

func TestPlayerDeleteRemovesAssociationsFirst(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_games WHERE player_id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM players WHERE player_id = $1`)).
		WithArgs(4).
		WillReturnError(&pq.Error{Code: pgForeignKeyViolation})

	err := NewPostgresPlayerRepository(db).Delete(context.Background(), db, 4)
	if !errors.Is(err, ErrPlayerInUse) {
		t.Fatalf("expected ErrPlayerInUse, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGameDeleteCascadeOrder(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_games WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM characters WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM games WHERE game_id = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresGameRepository(db).Delete(context.Background(), db, 3)
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
