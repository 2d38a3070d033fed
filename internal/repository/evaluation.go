package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/history"
)

const evaluationColumns = `id, calculator_id, calculator_name, patient_id, notes,
	inputs, score, interpretation, warnings, created_at`

// EvaluationRepository handles evaluation history persistence on a pgx pool.
// It implements history.Store.
type EvaluationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

var _ history.Store = (*EvaluationRepository)(nil)

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *pgxpool.Pool, logger *logrus.Logger) *EvaluationRepository {
	return &EvaluationRepository{
		db:  db,
		log: logger,
	}
}

// Save inserts an evaluation into the database
func (r *EvaluationRepository) Save(ctx context.Context, entry *history.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	warnings := entry.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	query := `
		INSERT INTO evaluations (
			id, calculator_id, calculator_name, patient_id, notes,
			inputs, score, category, risk, interpretation, warnings, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.CalculatorID,
		entry.CalculatorName,
		entry.PatientID,
		entry.Notes,
		entry.Inputs,
		entry.Score,
		entry.Interpretation.Category,
		string(entry.Interpretation.Risk),
		entry.Interpretation,
		warnings,
		entry.CreatedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"entry_id":      entry.ID,
			"calculator_id": entry.CalculatorID,
			"error":         err,
		}).Error("Failed to save evaluation")
		return fmt.Errorf("saving evaluation: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"entry_id":      entry.ID,
		"calculator_id": entry.CalculatorID,
		"score":         entry.Score,
	}).Debug("Evaluation saved")

	return nil
}

func scanEvaluation(row pgx.Row) (*history.Entry, error) {
	var e history.Entry
	err := row.Scan(
		&e.ID,
		&e.CalculatorID,
		&e.CalculatorName,
		&e.PatientID,
		&e.Notes,
		&e.Inputs,
		&e.Score,
		&e.Interpretation,
		&e.Warnings,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if len(e.Warnings) == 0 {
		e.Warnings = nil
	}
	if e.Inputs == nil {
		e.Inputs = domain.Inputs{}
	}
	return &e, nil
}

// Get retrieves an evaluation by its ID
func (r *EvaluationRepository) Get(ctx context.Context, id string) (*history.Entry, error) {
	query := "SELECT " + evaluationColumns + " FROM evaluations WHERE id = $1"

	e, err := scanEvaluation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("evaluation %s not found: %w", id, domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"entry_id": id,
			"error":    err,
		}).Error("Failed to get evaluation by ID")
		return nil, fmt.Errorf("getting evaluation by ID: %w", err)
	}
	return e, nil
}

// List returns evaluations matching the filter, newest first
func (r *EvaluationRepository) List(ctx context.Context, filter history.Filter) ([]*history.Entry, error) {
	where, args := whereClause(filter)
	limit, offset := pageOf(filter)
	n := len(args)
	args = append(args, limit, offset)

	query := fmt.Sprintf("SELECT %s FROM evaluations%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		evaluationColumns, where, n+1, n+2)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing evaluations: %w", err)
	}
	defer rows.Close()

	var entries []*history.Entry
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluations: %w", err)
	}
	return entries, nil
}

// Count returns the number of evaluations matching the filter
func (r *EvaluationRepository) Count(ctx context.Context, filter history.Filter) (int64, error) {
	where, args := whereClause(filter)
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM evaluations"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting evaluations: %w", err)
	}
	return count, nil
}

// Delete removes an evaluation by ID
func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, "DELETE FROM evaluations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting evaluation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("evaluation %s not found: %w", id, domain.ErrNotFound)
	}

	r.log.WithField("entry_id", id).Info("Evaluation deleted")
	return nil
}

// ExportJSON writes every evaluation as a JSON export document
func (r *EvaluationRepository) ExportJSON(ctx context.Context, writer io.Writer) error {
	return history.WriteExport(ctx, r, writer)
}

// ImportJSON reads an export document, skipping evaluations that already exist
func (r *EvaluationRepository) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	return history.ReadImport(ctx, r, reader)
}

// Close is a no-op; the pool belongs to database.DB.
func (r *EvaluationRepository) Close() error {
	return nil
}

func whereClause(f history.Filter) (string, []any) {
	var clause string
	var args []any
	if f.CalculatorID != "" {
		args = append(args, f.CalculatorID)
		clause = fmt.Sprintf(" WHERE calculator_id = $%d", len(args))
	}
	if f.PatientID != "" {
		args = append(args, f.PatientID)
		if clause == "" {
			clause = fmt.Sprintf(" WHERE patient_id = $%d", len(args))
		} else {
			clause += fmt.Sprintf(" AND patient_id = $%d", len(args))
		}
	}
	return clause, args
}

func pageOf(f history.Filter) (limit, offset int) {
	limit, offset = f.Limit, f.Offset
	if limit <= 0 {
		limit = history.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
