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

func TestLiveMatchReplaceDrawsFreshID(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (slot) DO UPDATE SET match_id = nextval('current_match_match_id_seq')`)).
		WithArgs(1, 2, 0, 0, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"match_id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	m := &models.LiveMatch{Player1ID: 1, Player2ID: 2}
	if err := NewPostgresLiveMatchRepository(db).Replace(context.Background(), db, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MatchID != 42 {
		t.Fatalf("match id = %d, want 42", m.MatchID)
	}
}

func TestLiveMatchUpdateScores(t *testing.T) {
	query := regexp.QuoteMeta(`SET player1_score = COALESCE($1, player1_score), player2_score = COALESCE($2, player2_score)`)
	score := 3

	t.Run("partial update", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).WithArgs(&score, nil).WillReturnResult(sqlmock.NewResult(0, 1))
		if err := NewPostgresLiveMatchRepository(db).UpdateScores(context.Background(), db, &score, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("no live match", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(query).WithArgs(nil, &score).WillReturnResult(sqlmock.NewResult(0, 0))
		err := NewPostgresLiveMatchRepository(db).UpdateScores(context.Background(), db, nil, &score)
		if !errors.Is(err, ErrNoLiveMatch) {
			t.Fatalf("expected ErrNoLiveMatch, got %v", err)
		}
	})
}

func TestLiveMatchGetCurrentEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM current_match cm`)).
		WillReturnRows(sqlmock.NewRows([]string{"match_id"}))

	_, err := NewPostgresLiveMatchRepository(db).GetCurrent(context.Background(), nil)
	if !errors.Is(err, ErrNoLiveMatch) {
		t.Fatalf("expected ErrNoLiveMatch, got %v", err)
	}
}

func TestCreateHistoryDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO match_history`)).
		WillReturnError(&pq.Error{Code: pgUniqueViolation, Constraint: matchHistoryConstraint})

	err := NewPostgresLiveMatchRepository(db).CreateHistory(context.Background(), db, &models.MatchHistory{MatchID: 42})
	if !errors.Is(err, ErrMatchAlreadyRecorded) {
		t.Fatalf("expected ErrMatchAlreadyRecorded, got %v", err)
	}
}
