// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/advisory-engine/internal/gate"
	"github.com/pdiddy/advisory-engine/pkg/types"
)

const dbFile = "advisory.db"

// Store persists per-report version documents and raw stage outputs in a
// SQLite database under the data directory.
type Store struct {
	db     *sql.DB
	stages []types.StageDefinition
}

// NewStore opens or creates the advisory database at dataDir/advisory.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig, stages []types.StageDefinition) (*Store, error) {
	if err := types.ValidateStages(stages); err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, stages: stages}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			versions TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stage_outputs (
			report_id TEXT NOT NULL,
			stage_key TEXT NOT NULL,
			raw TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (report_id, stage_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stage_outputs_report ON stage_outputs(report_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Document loads a report's version document, empty when the report is new.
func (s *Store) Document(ctx context.Context, reportID string) (*Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT versions FROM reports WHERE id = ?`, reportID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return NewDocument(s.stages)
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %s: %w", reportID, err)
	}
	doc, err := ParseDocument([]byte(raw), s.stages)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", reportID, err)
	}
	return doc, nil
}

// Record captures new stage content for a report and persists the updated
// document atomically.
func (s *Store) Record(ctx context.Context, reportID, stageKey, content string) (types.ConceptSnapshot, error) {
	var snap types.ConceptSnapshot
	err := s.updateDocument(ctx, reportID, func(doc *Document) error {
		var err error
		snap, err = doc.Record(stageKey, content)
		return err
	})
	return snap, err
}

// Restore moves a report's version pointer back to the given history
// version.
func (s *Store) Restore(ctx context.Context, reportID string, version int) (types.ConceptSnapshot, error) {
	var snap types.ConceptSnapshot
	err := s.updateDocument(ctx, reportID, func(doc *Document) error {
		var err error
		snap, err = doc.Restore(version)
		return err
	})
	return snap, err
}

// updateDocument runs a read-modify-write cycle on a report's document in
// one transaction.
func (s *Store) updateDocument(ctx context.Context, reportID string, mutate func(*Document) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	doc, err := s.documentTx(ctx, tx, reportID)
	if err != nil {
		return err
	}
	if err := mutate(doc); err != nil {
		return err
	}
	if err := s.saveDocumentTx(ctx, tx, reportID, doc); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) documentTx(ctx context.Context, tx *sql.Tx, reportID string) (*Document, error) {
	var raw string
	err := tx.QueryRowContext(ctx,
		`SELECT versions FROM reports WHERE id = ?`, reportID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return NewDocument(s.stages)
	}
	if err != nil {
		return nil, fmt.Errorf("loading report %s: %w", reportID, err)
	}
	doc, err := ParseDocument([]byte(raw), s.stages)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", reportID, err)
	}
	return doc, nil
}

func (s *Store) saveDocumentTx(ctx context.Context, tx *sql.Tx, reportID string, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding report %s: %w", reportID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, versions, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET versions=excluded.versions, updated_at=excluded.updated_at`,
		reportID, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving report %s: %w", reportID, err)
	}
	return nil
}

// SaveOutput stores a stage's raw model output for a report, replacing any
// earlier run of the same stage.
func (s *Store) SaveOutput(ctx context.Context, reportID, stageKey, raw string) error {
	found := false
	for _, st := range s.stages {
		if st.Key == stageKey {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown stage %q", stageKey)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_outputs (report_id, stage_key, raw, recorded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(report_id, stage_key) DO UPDATE SET raw=excluded.raw, recorded_at=excluded.recorded_at`,
		reportID, stageKey, raw, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving output for %s/%s: %w", reportID, stageKey, err)
	}
	return nil
}

// Output returns a stage's raw output for a report.
func (s *Store) Output(ctx context.Context, reportID, stageKey string) (string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT raw FROM stage_outputs WHERE report_id = ? AND stage_key = ?`,
		reportID, stageKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading output for %s/%s: %w", reportID, stageKey, err)
	}
	return raw, true, nil
}

// Outputs returns all recorded stage outputs for a report, keyed by stage.
// The result feeds the gate as its output source.
func (s *Store) Outputs(ctx context.Context, reportID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage_key, raw FROM stage_outputs WHERE report_id = ?`, reportID)
	if err != nil {
		return nil, fmt.Errorf("loading outputs for %s: %w", reportID, err)
	}
	defer rows.Close()

	outputs := make(map[string]string)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		outputs[key] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading outputs for %s: %w", reportID, err)
	}
	return outputs, nil
}

// ClearFrom removes the recorded output and content of the given stage and
// every stage after it, in one transaction. Version history survives; a
// later re-run keeps counting from the report's highest version. Returns
// the cleared stage keys.
func (s *Store) ClearFrom(ctx context.Context, reportID, stageKey string) ([]string, error) {
	found := false
	for _, st := range s.stages {
		if st.Key == stageKey {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("unknown stage %q", stageKey)
	}

	cleared := append([]string{stageKey}, gate.CascadeAfter(s.stages, stageKey)...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range cleared {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM stage_outputs WHERE report_id = ? AND stage_key = ?`,
			reportID, key); err != nil {
			return nil, fmt.Errorf("clearing output %s/%s: %w", reportID, key, err)
		}
	}

	doc, err := s.documentTx(ctx, tx, reportID)
	if err != nil {
		return nil, err
	}
	doc.Remove(cleared...)
	if err := s.saveDocumentTx(ctx, tx, reportID, doc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clear: %w", err)
	}
	return cleared, nil
}
