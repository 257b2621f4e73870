// Package report persists scenario run results in SQLite.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/ethvoyager95/quickswap-core/internal/platform/storage/sqlitemigrate"
	"github.com/ethvoyager95/quickswap-core/internal/report/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrNotFound reports a run id with no stored row.
var ErrNotFound = errors.New("run not found")

// ErrAlreadyExists reports a step sequence number recorded twice for one run.
var ErrAlreadyExists = errors.New("step already recorded")

// Run is one recorded scenario execution.
type Run struct {
	ID         int64
	Source     string
	Network    string
	StartedAt  time.Time
	FinishedAt time.Time
	Steps      int
	Failures   int
}

// Step is one executed script line within a run.
type Step struct {
	RunID   int64
	Seq     int
	Line    string
	OK      bool
	Detail  string
	GasUsed int64
}

// Store persists run reports in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite report store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// BeginRun inserts a run record and returns its id.
func (s *Store) BeginRun(ctx context.Context, source, network string, startedAt time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	source = strings.TrimSpace(source)
	network = strings.TrimSpace(network)
	if source == "" {
		return 0, fmt.Errorf("source is required")
	}
	if network == "" {
		return 0, fmt.Errorf("network is required")
	}
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (source, network, started_at) VALUES (?, ?, ?)`,
		source,
		network,
		toMillis(startedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run id: %w", err)
	}
	return id, nil
}

// RecordStep inserts one step record for a run.
func (s *Store) RecordStep(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	line := strings.TrimSpace(step.Line)
	if step.RunID <= 0 {
		return fmt.Errorf("run id is required")
	}
	if step.Seq <= 0 {
		return fmt.Errorf("step sequence must be greater than zero")
	}
	if line == "" {
		return fmt.Errorf("step line is required")
	}

	ok := 0
	if step.OK {
		ok = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO run_steps (run_id, seq, line, ok, detail, gas_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		step.RunID,
		step.Seq,
		line,
		ok,
		step.Detail,
		step.GasUsed,
	)
	if err != nil {
		if isStepUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("record step: %w", err)
	}
	return nil
}

// FinishRun stamps the end time and counters on an existing run.
func (s *Store) FinishRun(ctx context.Context, runID int64, finishedAt time.Time, steps, failures int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if runID <= 0 {
		return fmt.Errorf("run id is required")
	}
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, steps = ?, failures = ? WHERE id = ?`,
		toMillis(finishedAt),
		steps,
		failures,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, runID int64) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Run{}, fmt.Errorf("storage is not configured")
	}
	if runID <= 0 {
		return Run{}, fmt.Errorf("run id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, source, network, started_at, finished_at, steps, failures
		   FROM runs
		  WHERE id = ?`,
		runID,
	)

	var run Run
	var startedAt int64
	var finishedAt int64
	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.Network,
		&startedAt,
		&finishedAt,
		&run.Steps,
		&run.Failures,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("get run: %w", err)
	}

	run.StartedAt = fromMillis(startedAt)
	if finishedAt != 0 {
		run.FinishedAt = fromMillis(finishedAt)
	}
	return run, nil
}

// ListSteps returns the steps of a run in sequence order.
func (s *Store) ListSteps(ctx context.Context, runID int64) ([]Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if runID <= 0 {
		return nil, fmt.Errorf("run id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT run_id, seq, line, ok, detail, gas_used
		   FROM run_steps
		  WHERE run_id = ?
		  ORDER BY seq ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var step Step
		var ok int
		if err := rows.Scan(
			&step.RunID,
			&step.Seq,
			&step.Line,
			&ok,
			&step.Detail,
			&step.GasUsed,
		); err != nil {
			return nil, fmt.Errorf("list steps: %w", err)
		}
		step.OK = ok == 1
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return steps, nil
}

func isStepUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "run_steps")
}
