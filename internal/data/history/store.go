package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
	// Fixed-width so timestamps sort as text.
	tsLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// Open creates or opens the history database at path. busyTimeout of
// zero uses two seconds.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	if busyTimeout <= 0 {
		busyTimeout = 2 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores a run with its findings and type summaries in one
// transaction. Saving the same run ID again replaces the earlier rows.
func (s *Store) SaveRun(run Run, findings []Finding, types []TypeSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id must not be empty")
	}
	run.ProjectKey = projectKeyOrDefault(run.ProjectKey)
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	return s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if err := insertRun(tx, run, findings, types); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}

func insertRun(tx *sql.Tx, run Run, findings []Finding, types []TypeSummary) error {
	if _, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, run.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
INSERT INTO runs (
  id, project_key, started_at_utc, duration_ms, file_count, parse_failures,
  type_count, call_count, diagnostic_count, finding_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ProjectKey,
		run.StartedAt.UTC().Format(tsLayout),
		run.Duration.Milliseconds(),
		run.FileCount,
		run.ParseFailures,
		run.TypeCount,
		run.CallCount,
		run.DiagnosticCount,
		run.FindingCount,
	); err != nil {
		return err
	}

	if len(findings) > 0 {
		stmt, err := tx.Prepare(`
INSERT INTO findings (run_id, rule, severity, file, line, col, symbol, message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range findings {
			if _, err := stmt.Exec(run.ID, f.Rule, f.Severity, f.File, f.Line, f.Column, f.Symbol, f.Message); err != nil {
				return err
			}
		}
	}

	if len(types) > 0 {
		stmt, err := tx.Prepare(`
INSERT OR REPLACE INTO type_summaries (run_id, type_name, file, superclass, method_count, field_count, call_count)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, t := range types {
			if _, err := stmt.Exec(run.ID, t.TypeName, t.File, t.Superclass, t.MethodCount, t.FieldCount, t.CallCount); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadRuns returns the newest runs for projectKey first. limit <= 0
// returns every run.
func (s *Store) LoadRuns(projectKey string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, project_key, started_at_utc, duration_ms, file_count, parse_failures,
  type_count, call_count, diagnostic_count, finding_count
FROM runs
WHERE project_key = ?
ORDER BY started_at_utc DESC, id ASC`
	args := []any{projectKeyOrDefault(projectKey)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			startedRaw string
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&startedRaw,
			&durationMS,
			&run.FileCount,
			&run.ParseFailures,
			&run.TypeCount,
			&run.CallCount,
			&run.DiagnosticCount,
			&run.FindingCount,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LoadFindings returns the findings of one run ordered by file and line.
func (s *Store) LoadFindings(runID string) ([]Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load findings", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, rule, severity, file, line, col, symbol, message
FROM findings
WHERE run_id = ?
ORDER BY file ASC, line ASC, col ASC, rule ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	findings := make([]Finding, 0)
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.RunID, &f.Rule, &f.Severity, &f.File, &f.Line, &f.Column, &f.Symbol, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding row: %w", err)
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate finding rows: %w", err)
	}
	return findings, nil
}

// LoadTypeSummaries returns the type summaries of one run by type name.
func (s *Store) LoadTypeSummaries(runID string) ([]TypeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load type summaries", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, type_name, file, superclass, method_count, field_count, call_count
FROM type_summaries
WHERE run_id = ?
ORDER BY type_name ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]TypeSummary, 0)
	for rows.Next() {
		var t TypeSummary
		if err := rows.Scan(&t.RunID, &t.TypeName, &t.File, &t.Superclass, &t.MethodCount, &t.FieldCount, &t.CallCount); err != nil {
			return nil, fmt.Errorf("scan type summary row: %w", err)
		}
		summaries = append(summaries, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type summary rows: %w", err)
	}
	return summaries, nil
}

func projectKeyOrDefault(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "default"
	}
	return key
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
