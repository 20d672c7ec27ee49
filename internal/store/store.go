// Package store keeps a history of evaluation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	segsim "github.com/jamesainslie/go-segsim"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("store: run not found")

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one stored corpus evaluation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Policy    string
	Window    int

	// Similarity is the exact corpus score.
	Similarity *big.Rat

	Documents           int
	ReferenceBoundaries int
	ReferenceDigest     string
	PredictionDigest    string
}

// Float64 returns the corpus similarity as the nearest float64.
func (r Run) Float64() float64 {
	f, _ := r.Similarity.Float64()
	return f
}

// DocumentRecord is the stored score of one document in a run.
type DocumentRecord struct {
	DocumentID     string
	Similarity     *big.Rat
	Matches        int
	Additions      int
	Deletions      int
	Substitutions  int
	Transpositions int
}

// Digests identify the input files of a run.
type Digests struct {
	Reference  string
	Prediction string
}

// Store is a SQLite backed run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. An empty path opens an
// in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each in-memory connection is its own database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			policy TEXT NOT NULL,
			window_size INTEGER NOT NULL,
			similarity TEXT NOT NULL,
			documents INTEGER NOT NULL,
			reference_boundaries INTEGER NOT NULL,
			reference_digest TEXT,
			prediction_digest TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS document_scores (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			document_id TEXT NOT NULL,
			similarity TEXT NOT NULL,
			matches INTEGER NOT NULL,
			additions INTEGER NOT NULL,
			deletions INTEGER NOT NULL,
			substitutions INTEGER NOT NULL,
			transpositions INTEGER NOT NULL,
			PRIMARY KEY (run_id, document_id)
		)`,
		"CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a corpus result and its document scores.
func (s *Store) SaveRun(ctx context.Context, result *segsim.CorpusResult, digests Digests) (Run, error) {
	run := Run{
		ID:                  uuid.New().String(),
		CreatedAt:           time.Now().UTC(),
		Policy:              result.Policy,
		Window:              result.Window,
		Similarity:          new(big.Rat).Set(result.Similarity),
		Documents:           len(result.Documents),
		ReferenceBoundaries: result.ReferenceBoundaries,
		ReferenceDigest:     digests.Reference,
		PredictionDigest:    digests.Prediction,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, policy, window_size, similarity, documents,
			reference_boundaries, reference_digest, prediction_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(timeLayout),
		run.Policy,
		run.Window,
		run.Similarity.RatString(),
		run.Documents,
		run.ReferenceBoundaries,
		run.ReferenceDigest,
		run.PredictionDigest,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_scores (run_id, document_id, similarity, matches,
			additions, deletions, substitutions, transpositions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range result.IDs() {
		doc := result.Documents[id]
		st := doc.Statistics
		_, err := stmt.ExecContext(ctx,
			run.ID,
			id,
			doc.Similarity.RatString(),
			len(st.Matches),
			len(st.Additions),
			len(st.Deletions),
			len(st.Substitutions),
			len(st.Transpositions),
		)
		if err != nil {
			return Run{}, fmt.Errorf("failed to insert score for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

const runColumns = `id, created_at, policy, window_size, similarity, documents,
	reference_boundaries, reference_digest, prediction_digest`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		createdAt  string
		similarity string
		refDigest  sql.NullString
		predDigest sql.NullString
	)
	err := row.Scan(&run.ID, &createdAt, &run.Policy, &run.Window, &similarity,
		&run.Documents, &run.ReferenceBoundaries, &refDigest, &predDigest)
	if err != nil {
		return Run{}, err
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad timestamp %q: %w", run.ID, createdAt, err)
	}
	run.Similarity, err = parseRat(similarity)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	run.ReferenceDigest = refDigest.String
	run.PredictionDigest = predDigest.String
	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns a stored run with its document scores in document order.
func (s *Store) Run(ctx context.Context, id string) (Run, []DocumentRecord, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, similarity, matches, additions, deletions, substitutions, transpositions
		FROM document_scores WHERE run_id = ? ORDER BY document_id`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var docs []DocumentRecord
	for rows.Next() {
		var (
			d          DocumentRecord
			similarity string
		)
		if err := rows.Scan(&d.DocumentID, &similarity, &d.Matches, &d.Additions,
			&d.Deletions, &d.Substitutions, &d.Transpositions); err != nil {
			return Run{}, nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if d.Similarity, err = parseRat(similarity); err != nil {
			return Run{}, nil, fmt.Errorf("document %s: %w", d.DocumentID, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return run, docs, nil
}

func parseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("bad similarity %q", s)
	}
	return r, nil
}
