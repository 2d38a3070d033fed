package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// ParquetRow is the flattened, columnar form of an Entry.
type ParquetRow struct {
	ID             string  `parquet:"id"`
	CalculatorID   string  `parquet:"calculator_id"`
	CalculatorName string  `parquet:"calculator_name"`
	PatientID      *string `parquet:"patient_id,optional"`
	Notes          *string `parquet:"notes,optional"`
	Score          float64 `parquet:"score"`
	ScoreDisplay   string  `parquet:"score_display"`
	Category       string  `parquet:"category"`
	Risk           string  `parquet:"risk"`
	Mortality      *string `parquet:"mortality,optional"`
	Morbidity      *string `parquet:"morbidity,optional"`
	Recommendation string  `parquet:"recommendation"`
	InputsJSON     string  `parquet:"inputs_json"`
	WarningCount   int32   `parquet:"warning_count"`
	CreatedAtMicro int64   `parquet:"created_at_us"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToParquetRow flattens an entry.
func ToParquetRow(e *Entry) (ParquetRow, error) {
	inputs, err := json.Marshal(e.Inputs)
	if err != nil {
		return ParquetRow{}, fmt.Errorf("failed to encode inputs: %w", err)
	}
	interp := e.Interpretation
	return ParquetRow{
		ID:             e.ID,
		CalculatorID:   e.CalculatorID,
		CalculatorName: e.CalculatorName,
		PatientID:      optional(e.PatientID),
		Notes:          optional(e.Notes),
		Score:          e.Score,
		ScoreDisplay:   interp.ScoreDisplay,
		Category:       interp.Category,
		Risk:           string(interp.Risk),
		Mortality:      optional(interp.Mortality),
		Morbidity:      optional(interp.Morbidity),
		Recommendation: interp.Recommendation,
		InputsJSON:     string(inputs),
		WarningCount:   int32(len(e.Warnings)),
		CreatedAtMicro: e.CreatedAt.UnixMicro(),
	}, nil
}

// ExportParquet writes entries matching filter as a Parquet file. A zero limit
// exports everything. It returns the number of rows written.
func ExportParquet(ctx context.Context, store Store, filter Filter, w io.Writer) (int, error) {
	if filter.Limit <= 0 {
		filter.Limit = maxExportLimit
	}
	entries, err := store.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list history: %w", err)
	}

	rows := make([]ParquetRow, 0, len(entries))
	for _, e := range entries {
		row, err := ToParquetRow(e)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	writer := parquet.NewGenericWriter[ParquetRow](w)
	if _, err := writer.Write(rows); err != nil {
		return 0, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return len(rows), nil
}
