package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite.
// Timestamps are stored as Unix nanoseconds so ordering is exact.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite history store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection serialises concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		calculator_id TEXT NOT NULL,
		calculator_name TEXT NOT NULL DEFAULT '',
		patient_id TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		inputs TEXT NOT NULL,
		score REAL NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		risk TEXT NOT NULL DEFAULT '',
		interpretation TEXT NOT NULL,
		warnings TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_calculator ON evaluations(calculator_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_patient ON evaluations(patient_id);
	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

func scanSQLiteEntry(s scanner) (*Entry, error) {
	e := &Entry{}
	var enc encoded
	var created int64

	err := s.Scan(
		&e.ID, &e.CalculatorID, &e.CalculatorName, &e.PatientID, &e.Notes,
		&enc.inputs, &e.Score, &enc.interpretation, &enc.warnings, &created,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	if err := decodeEntry(e, enc); err != nil {
		return nil, err
	}
	return e, nil
}

// Save records an evaluation.
func (s *SQLiteStore) Save(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	enc, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, calculator_id, calculator_name, patient_id, notes,
			inputs, score, category, risk, interpretation, warnings, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.CalculatorID,
		entry.CalculatorName,
		entry.PatientID,
		entry.Notes,
		string(enc.inputs),
		entry.Score,
		entry.Interpretation.Category,
		string(entry.Interpretation.Risk),
		string(enc.interpretation),
		string(enc.warnings),
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	return nil
}

// Get retrieves one evaluation.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM evaluations WHERE id = ?", id)

	e, err := scanSQLiteEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history entry %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return e, nil
}

// List returns evaluations matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	where, args := filter.where(questionMark)
	args = append(args, filter.limit(), filter.offset())

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM evaluations"+where+
			" ORDER BY created_at DESC, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Count returns the number of evaluations matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := filter.where(questionMark)
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM evaluations"+where, args...).Scan(&count)
	return count, err
}

// Delete removes an evaluation by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExportJSON exports all evaluations to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return WriteExport(ctx, s, writer)
}

// ImportJSON imports evaluations from a JSON reader.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return ReadImport(ctx, s, reader)
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
