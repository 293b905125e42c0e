// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains an optional SQLite cross-reference index over
// the parsed PEP set, for querying the mention graph. The database is
// rebuilt from source on every run; the Markdown output tree remains the
// only artifact of the build itself.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pepdex/pkg/types"
)

const dbFile = "pepdex.db"

// Store manages the cross-reference SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database at indexDir/pepdex.db and
// creates the schema if needed.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

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
		`CREATE TABLE IF NOT EXISTS peps (
			number INTEGER PRIMARY KEY,
			title TEXT,
			status TEXT,
			status_raw TEXT,
			type TEXT,
			topics TEXT,
			authors TEXT,
			source_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS mentions (
			from_pep INTEGER NOT NULL REFERENCES peps(number),
			to_pep INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			PRIMARY KEY (from_pep, to_pep)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mentions_to ON mentions(to_pep)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over titles with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='peps_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE peps_fts USING fts5(title, content=peps, content_rowid=number)`,
			`CREATE TRIGGER peps_ai AFTER INSERT ON peps BEGIN
				INSERT INTO peps_fts(rowid, title) VALUES (new.number, new.title);
			END`,
			`CREATE TRIGGER peps_ad AFTER DELETE ON peps BEGIN
				INSERT INTO peps_fts(peps_fts, rowid, title) VALUES('delete', old.number, old.title);
			END`,
			`CREATE TRIGGER peps_au AFTER UPDATE ON peps BEGIN
				INSERT INTO peps_fts(peps_fts, rowid, title) VALUES('delete', old.number, old.title);
				INSERT INTO peps_fts(rowid, title) VALUES (new.number, new.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an index rebuild.
type IngestSummary struct {
	Indexed int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Failed
}

// Ingest replaces the index contents with the given record set. The
// previous contents are dropped first; the index always reflects exactly
// one parse pass. Mention edges are stored with a resolved flag so
// dangling references stay queryable.
func (s *Store) Ingest(ctx context.Context, records []*types.PEP, w io.Writer) (IngestSummary, error) {
	set := make(map[int]bool, len(records))
	for _, rec := range records {
		set[rec.Number] = true
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM mentions`); err != nil {
		return IngestSummary{}, fmt.Errorf("clearing mentions: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM peps`); err != nil {
		return IngestSummary{}, fmt.Errorf("clearing peps: %w", err)
	}

	var summary IngestSummary

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if err := s.ingestRecord(ctx, rec, set); err != nil {
			fmt.Fprintf(w, "failed  pep-%04d: %v\n", rec.Number, err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "indexed pep-%04d (%d mentions)\n", rec.Number, len(rec.References))
		summary.Indexed++
	}

	fmt.Fprintf(w, "\nindexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

func (s *Store) ingestRecord(ctx context.Context, rec *types.PEP, set map[int]bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	topicsJSON, _ := json.Marshal(rec.Topics)
	authorsJSON, _ := json.Marshal(rec.Authors)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO peps (number, title, status, status_raw, type, topics, authors, source_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Number, rec.Title, string(rec.Status), rec.StatusRaw,
		string(rec.Type), string(topicsJSON), string(authorsJSON), rec.SourcePath,
	)
	if err != nil {
		return fmt.Errorf("inserting pep: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO mentions (from_pep, to_pep, resolved) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range rec.References {
		resolved := 0
		if set[ref] {
			resolved = 1
		}
		if _, err := stmt.ExecContext(ctx, rec.Number, ref, resolved); err != nil {
			return fmt.Errorf("inserting mention %d -> %d: %w", rec.Number, ref, err)
		}
	}

	return tx.Commit()
}
