package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL through database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL history store.
// It expects the evaluations table to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL history store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func scanPostgresEntry(s scanner) (*Entry, error) {
	e := &Entry{}
	var enc encoded

	err := s.Scan(
		&e.ID, &e.CalculatorID, &e.CalculatorName, &e.PatientID, &e.Notes,
		&enc.inputs, &e.Score, &enc.interpretation, &enc.warnings, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if err := decodeEntry(e, enc); err != nil {
		return nil, err
	}
	return e, nil
}

// Save records an evaluation.
func (s *PostgresStore) Save(ctx context.Context, entry *Entry) error {
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

	// lib/pq sends []byte as bytea, so JSON columns are passed as text.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, calculator_id, calculator_name, patient_id, notes,
			inputs, score, category, risk, interpretation, warnings, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
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
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// Get retrieves one evaluation.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM evaluations WHERE id = $1", id)

	e, err := scanPostgresEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history entry %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return e, nil
}

// List returns evaluations matching the filter, newest first.
func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	where, args := filter.where(dollar)
	n := len(args)
	args = append(args, filter.limit(), filter.offset())

	query := fmt.Sprintf("SELECT %s FROM evaluations%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		selectColumns, where, n+1, n+2)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e, err := scanPostgresEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Count returns the number of evaluations matching the filter.
func (s *PostgresStore) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := filter.where(dollar)
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM evaluations"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return count, nil
}

// Delete removes an evaluation by id.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExportJSON exports all evaluations to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	return WriteExport(ctx, s, writer)
}

// ImportJSON imports evaluations from a JSON reader.
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error) {
	return ReadImport(ctx, s, reader)
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
