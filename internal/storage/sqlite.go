package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"docstringer/internal/inserter"
)

// RunStore persists run history in a SQLite database.
type RunStore struct {
	db *sql.DB
}

// RunRecord is one row of the run ledger.
type RunRecord struct {
	ID           int64
	Root         string
	Model        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Files        int
	CodeDefs     int
	Generated    int
	Inserted     int
	NotInserted  int
	NotGenerated int
}

// NewRunStore creates or opens a SQLite database at path.
func NewRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &RunStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root TEXT,
			model TEXT,
			started_at TEXT,
			finished_at TEXT,
			files INTEGER,
			code_defs INTEGER,
			generated INTEGER,
			inserted INTEGER,
			not_inserted INTEGER,
			not_generated INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS file_reports (
			run_id INTEGER,
			file TEXT,
			code_defs INTEGER,
			generated INTEGER,
			inserted INTEGER,
			not_inserted INTEGER,
			not_generated INTEGER,
			detail JSON,
			PRIMARY KEY (run_id, file)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_file_reports_run ON file_reports(run_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores one run and its per-file reports, returning the run id.
func (s *RunStore) SaveRun(ctx context.Context, rec RunRecord, reports []*inserter.Report) (int64, error) {
	totals := inserter.Sum(reports)
	rec.Files = len(reports)
	rec.CodeDefs = totals.CodeDefs
	rec.Generated = totals.Generated
	rec.Inserted = totals.Inserted
	rec.NotInserted = totals.NotInserted
	rec.NotGenerated = totals.NotGenerated

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (root, model, started_at, finished_at, files, code_defs, generated, inserted, not_inserted, not_generated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Root, rec.Model, rec.StartedAt.UTC().Format(time.RFC3339), rec.FinishedAt.UTC().Format(time.RFC3339),
		rec.Files, rec.CodeDefs, rec.Generated, rec.Inserted, rec.NotInserted, rec.NotGenerated)
	if err != nil {
		return 0, err
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO file_reports (run_id, file, code_defs, generated, inserted, not_inserted, not_generated, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, file) DO UPDATE SET
			code_defs=excluded.code_defs,
			generated=excluded.generated,
			inserted=excluded.inserted,
			not_inserted=excluded.not_inserted,
			not_generated=excluded.not_generated,
			detail=excluded.detail
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range reports {
		detail, _ := json.Marshal(r)
		if _, err := stmt.Exec(runID, r.File, r.CodeDefs, r.Generated,
			len(r.Inserted), len(r.NotInserted), len(r.NotGenerated), detail); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, model, started_at, finished_at, files, code_defs, generated, inserted, not_inserted, not_generated
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished string
		if err := rows.Scan(&rec.ID, &rec.Root, &rec.Model, &started, &finished,
			&rec.Files, &rec.CodeDefs, &rec.Generated, &rec.Inserted, &rec.NotInserted, &rec.NotGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// FileReports loads the per-file reports saved for a run.
func (s *RunStore) FileReports(ctx context.Context, runID int64) ([]*inserter.Report, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT detail FROM file_reports WHERE run_id = ? ORDER BY file", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*inserter.Report
	for rows.Next() {
		var detail []byte
		if err := rows.Scan(&detail); err != nil {
			return nil, err
		}
		var r inserter.Report
		if err := json.Unmarshal(detail, &r); err != nil {
			continue
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}
