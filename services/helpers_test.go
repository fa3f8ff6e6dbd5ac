package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Dosada05/esports-overlay/overlay"
	"github.com/Dosada05/esports-overlay/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
	tx   repositories.TxRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
		db.Close()
	})
	return &testEnv{db: db, mock: mock, tx: repositories.NewTxRunner(db, testLogger())}
}

// expectExists queues a guard lookup on table.column answering exists.
func (e *testEnv) expectExists(table, where string, exists bool, args ...interface{}) {
	query := `SELECT EXISTS (SELECT 1 FROM "` + table + `" WHERE ` + where + `)`
	e.mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(toDriverArgs(args)...).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func toDriverArgs(args []interface{}) []driver.Value {
	out := make([]driver.Value, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func assertCategory(t *testing.T, err error, category, specific error) {
	t.Helper()
	if !errors.Is(err, category) {
		t.Fatalf("expected category %v, got %v", category, err)
	}
	if specific != nil && !errors.Is(err, specific) {
		t.Fatalf("expected %v, got %v", specific, err)
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []overlay.Event
}

func (n *recordingNotifier) Notify(ev overlay.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []overlay.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]overlay.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}
