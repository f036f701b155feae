package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"mealopt/optimizer"
)

// Run is one persisted optimization run.
type Run struct {
	RunID          string    `json:"run_id"`
	Seed           int64     `json:"seed"`
	InitialFitness float64   `json:"initial_fitness"`
	FinalFitness   float64   `json:"final_fitness"`
	Iterations     int       `json:"iterations"`
	Composition    string    `json:"composition"` // JSON snapshot of the final composition
	CreatedAt      time.Time `json:"created_at"`
	Changes        []string  `json:"changes"`
}

// Store persists optimization runs to SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        seed INTEGER NOT NULL,
        initial_fitness REAL NOT NULL,
        final_fitness REAL NOT NULL,
        iterations INTEGER NOT NULL,
        composition TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS changes (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        description TEXT NOT NULL,
        FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
    );

    CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
    CREATE INDEX IF NOT EXISTS idx_changes_run_id ON changes(run_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveResult records a completed search result and its change list.
func (s *Store) SaveResult(result optimizer.SearchResult) error {
	composition, err := json.Marshal(result.Composition)
	if err != nil {
		return fmt.Errorf("failed to marshal composition: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	runQuery := `
        INSERT INTO runs (run_id, seed, initial_fitness, final_fitness, iterations, composition, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err = tx.Exec(runQuery,
		result.RunID, result.Seed, result.InitialFitness, result.Fitness,
		result.Iterations, string(composition), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	changeQuery := `
        INSERT INTO changes (run_id, position, description)
        VALUES (?, ?, ?)
    `
	for i, change := range result.Changes {
		if _, err := tx.Exec(changeQuery, result.RunID, i, change.String()); err != nil {
			return fmt.Errorf("failed to insert change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRun loads one run and its ordered change descriptions.
func (s *Store) GetRun(runID string) (*Run, error) {
	runQuery := `
        SELECT run_id, seed, initial_fitness, final_fitness, iterations, composition, created_at
        FROM runs WHERE run_id = ?
    `
	var run Run
	err := s.db.QueryRow(runQuery, runID).Scan(
		&run.RunID, &run.Seed, &run.InitialFitness, &run.FinalFitness,
		&run.Iterations, &run.Composition, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %q: %w", runID, err)
	}

	rows, err := s.db.Query(`SELECT description FROM changes WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load changes for run %q: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var description string
		if err := rows.Scan(&description); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		run.Changes = append(run.Changes, description)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}

	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
        SELECT run_id, seed, initial_fitness, final_fitness, iterations, composition, created_at
        FROM runs ORDER BY created_at DESC LIMIT ?
    `
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.Seed, &run.InitialFitness, &run.FinalFitness,
			&run.Iterations, &run.Composition, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}
