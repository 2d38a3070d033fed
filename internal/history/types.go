// Package history persists calculator evaluations so they can be reviewed, exported
// and re-imported. It stores results only; calculator definitions are never persisted.
package history

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// ExportVersion is the format version written by ExportJSON.
const ExportVersion = "1.0"

// DefaultListLimit applies when a Filter has no limit.
const DefaultListLimit = 50

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// Entry is one recorded evaluation.
type Entry struct {
	ID             string                `json:"id"`
	CalculatorID   string                `json:"calculator_id"`
	CalculatorName string                `json:"calculator_name"`
	PatientID      string                `json:"patient_id,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Inputs         domain.Inputs         `json:"inputs"`
	Score          float64               `json:"score"`
	Interpretation domain.Interpretation `json:"interpretation"`
	Warnings       []string              `json:"warnings,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// NewEntry builds an entry from an evaluation result with a fresh id.
func NewEntry(result *domain.CalculatorResult, patientID, notes string) *Entry {
	r := result.Clone()
	return &Entry{
		ID:             uuid.NewString(),
		CalculatorID:   r.CalculatorID,
		CalculatorName: r.CalculatorName,
		PatientID:      patientID,
		Notes:          notes,
		Inputs:         r.Inputs,
		Score:          r.Score,
		Interpretation: r.Interpretation,
		Warnings:       r.Warnings,
		CreatedAt:      r.Timestamp,
	}
}

// Result converts the entry back into an evaluation result.
func (e *Entry) Result() *domain.CalculatorResult {
	return &domain.CalculatorResult{
		CalculatorID:   e.CalculatorID,
		CalculatorName: e.CalculatorName,
		Inputs:         e.Inputs.Clone(),
		Score:          e.Score,
		Interpretation: e.Interpretation.Clone(),
		Timestamp:      e.CreatedAt,
		Warnings:       append([]string(nil), e.Warnings...),
		HistoryID:      e.ID,
	}
}

// Filter narrows List and Count. Empty fields match everything.
type Filter struct {
	CalculatorID string
	PatientID    string
	Limit        int
	Offset       int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

func (f Filter) offset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}

// Store defines the interface for evaluation history storage.
type Store interface {
	// Save records an entry. Entries without an id get one; a zero CreatedAt is set to now.
	Save(ctx context.Context, entry *Entry) error

	// Get returns the entry with the given id or an error wrapping domain.ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Entry, error)

	// Count returns the number of entries matching the filter, ignoring limit and offset.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Delete removes an entry by id. Unknown ids wrap domain.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ExportJSON writes every entry as a JSON export document.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON reads an export document. Entries whose id already exists are skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Entries    []*Entry  `json:"entries"`
}
