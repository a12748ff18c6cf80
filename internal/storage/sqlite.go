package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"vizsynth/internal/roles"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT,
			visual TEXT,
			classifier_status TEXT,
			assignment JSON,
			unresolved JSON,
			hierarchy_level TEXT,
			output_path TEXT,
			created_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS classifications (
			key TEXT PRIMARY KEY,
			signals JSON,
			updated_at INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- RunStore Implementation ---

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	assignment, err := json.Marshal(run.Assignment)
	if err != nil {
		return err
	}
	unresolved, err := json.Marshal(run.Unresolved)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, visual, classifier_status, assignment, unresolved, hierarchy_level, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			command=excluded.command,
			visual=excluded.visual,
			classifier_status=excluded.classifier_status,
			assignment=excluded.assignment,
			unresolved=excluded.unresolved,
			hierarchy_level=excluded.hierarchy_level,
			output_path=excluded.output_path,
			created_at=excluded.created_at
	`, run.ID, run.Command, run.Visual, string(run.ClassifierStatus), assignment, unresolved,
		run.HierarchyLevel, run.OutputPath, run.CreatedAt.UnixNano())

	return err
}

const runColumns = "id, command, visual, classifier_status, assignment, unresolved, hierarchy_level, output_path, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var status string
	var assignment, unresolved []byte
	var created int64
	if err := row.Scan(&r.ID, &r.Command, &r.Visual, &status, &assignment, &unresolved, &r.HierarchyLevel, &r.OutputPath, &created); err != nil {
		return nil, err
	}
	r.ClassifierStatus = roles.ClassifierStatus(status)
	r.CreatedAt = time.Unix(0, created).UTC()
	if len(assignment) > 0 {
		if err := json.Unmarshal(assignment, &r.Assignment); err != nil {
			return nil, fmt.Errorf("corrupt assignment in run %s: %w", r.ID, err)
		}
	}
	if len(unresolved) > 0 {
		if err := json.Unmarshal(unresolved, &r.Unresolved); err != nil {
			return nil, fmt.Errorf("corrupt unresolved roles in run %s: %w", r.ID, err)
		}
	}
	return &r, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// --- ClassificationCache Implementation ---

func (s *SQLiteStore) GetClassification(ctx context.Context, key string) (roles.SignalMap, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT signals FROM classifications WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	signals := roles.SignalMap{}
	if err := json.Unmarshal(raw, &signals); err != nil {
		return nil, false, fmt.Errorf("corrupt classification %s: %w", key, err)
	}
	return signals, true, nil
}

func (s *SQLiteStore) PutClassification(ctx context.Context, key string, signals roles.SignalMap) error {
	raw, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classifications (key, signals, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET signals=excluded.signals, updated_at=excluded.updated_at
	`, key, raw, time.Now().UnixNano())
	return err
}
