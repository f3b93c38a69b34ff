package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"BetaLens/internal/analyzer"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read run history while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			benchmark           TEXT,
			window_years        INTEGER,
			risk_free_rate      REAL,
			trading_days        INTEGER,
			benchmark_return    REAL,
			stock_count         INTEGER,
			failed_count        INTEGER,
			avg_beta            REAL,
			avg_expected_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS stock_metrics (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES analysis_runs(id),
			ticker          TEXT NOT NULL,
			beta            REAL,
			alpha           REAL,
			expected_return REAL,
			risk_category   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_run ON stock_metrics(run_id)`,

		`CREATE TABLE IF NOT EXISTS run_failures (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES analysis_runs(id),
			ticker TEXT NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_run ON run_failures(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes one analysis run, its per-stock metrics, and its
// per-ticker failures in a single transaction.
func (r *SQLiteRecorder) RecordRun(result *analyzer.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO analysis_runs
		(timestamp, benchmark, window_years, risk_free_rate, trading_days,
		 benchmark_return, stock_count, failed_count, avg_beta, avg_expected_return)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), result.Params.BenchmarkTicker, result.Params.WindowYears,
		result.Params.RiskFreeRate, result.Params.TradingDaysPerYear,
		result.BenchmarkReturn, len(result.Metrics), len(result.Failures),
		result.Summary.AverageBeta, result.Summary.AverageExpectedReturn,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, m := range result.Metrics {
		if _, err := tx.Exec(`INSERT INTO stock_metrics
			(run_id, ticker, beta, alpha, expected_return, risk_category)
			VALUES (?,?,?,?,?,?)`,
			runID, m.Ticker, m.Beta, m.Alpha, m.ExpectedReturn, string(m.RiskCategory),
		); err != nil {
			return fmt.Errorf("insert metrics for %s: %w", m.Ticker, err)
		}
	}

	for _, f := range result.Failures {
		if _, err := tx.Exec(`INSERT INTO run_failures (run_id, ticker, reason) VALUES (?,?,?)`,
			runID, f.Ticker, f.Err.Error(),
		); err != nil {
			return fmt.Errorf("insert failure for %s: %w", f.Ticker, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
