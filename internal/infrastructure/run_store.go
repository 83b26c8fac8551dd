package infrastructure

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"parallel-reduction/internal/domain"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	kind        TEXT    NOT NULL,
	method      TEXT    NOT NULL,
	workers     INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	trial       INTEGER NOT NULL,
	result      REAL    NOT NULL,
	elapsed_ns  INTEGER NOT NULL,
	fingerprint TEXT    NOT NULL,
	started_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind, method);
`

// SQLiteRunStore keeps the history of timed reductions.
type SQLiteRunStore struct {
	logger *zap.Logger
	db     *sql.DB
}

func OpenSQLiteRunStore(logger *zap.Logger, path string) (*SQLiteRunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(runsSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Run history opened", zap.String("path", path))
	return &SQLiteRunStore{logger: logger, db: db}, nil
}

func (s *SQLiteRunStore) Save(ctx context.Context, run domain.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (kind, method, workers, size, trial, result, elapsed_ns, fingerprint, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.Method, run.Workers, run.Size, run.Trial, run.Result,
		run.Elapsed.Nanoseconds(), run.Fingerprint, run.StartedAt.UnixNano())
	return err
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteRunStore) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, method, workers, size, trial, result, elapsed_ns, fingerprint, started_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			run       domain.RunRecord
			elapsed   int64
			startedAt int64
		)
		if err := rows.Scan(&run.Kind, &run.Method, &run.Workers, &run.Size, &run.Trial,
			&run.Result, &elapsed, &run.Fingerprint, &startedAt); err != nil {
			return nil, err
		}
		run.Elapsed = time.Duration(elapsed)
		run.StartedAt = time.Unix(0, startedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}
