package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

const selectColumns = `id, calculator_id, calculator_name, patient_id, notes,
	inputs, score, interpretation, warnings, created_at`

// where renders the filter as a WHERE clause using placeholder for the n-th argument.
func (f Filter) where(placeholder func(n int) string) (string, []any) {
	var conds []string
	var args []any
	if f.CalculatorID != "" {
		args = append(args, f.CalculatorID)
		conds = append(conds, "calculator_id = "+placeholder(len(args)))
	}
	if f.PatientID != "" {
		args = append(args, f.PatientID)
		conds = append(conds, "patient_id = "+placeholder(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// encoded holds the JSON columns of an entry.
type encoded struct {
	inputs, interpretation, warnings []byte
}

func encodeEntry(e *Entry) (encoded, error) {
	var out encoded
	var err error
	if out.inputs, err = json.Marshal(e.Inputs); err != nil {
		return out, fmt.Errorf("failed to encode inputs: %w", err)
	}
	if out.interpretation, err = json.Marshal(e.Interpretation); err != nil {
		return out, fmt.Errorf("failed to encode interpretation: %w", err)
	}
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	if out.warnings, err = json.Marshal(warnings); err != nil {
		return out, fmt.Errorf("failed to encode warnings: %w", err)
	}
	return out, nil
}

func decodeEntry(e *Entry, enc encoded) error {
	e.Inputs = domain.Inputs{}
	if err := json.Unmarshal(enc.inputs, &e.Inputs); err != nil {
		return fmt.Errorf("failed to decode inputs: %w", err)
	}
	if err := json.Unmarshal(enc.interpretation, &e.Interpretation); err != nil {
		return fmt.Errorf("failed to decode interpretation: %w", err)
	}
	if err := json.Unmarshal(enc.warnings, &e.Warnings); err != nil {
		return fmt.Errorf("failed to decode warnings: %w", err)
	}
	if len(e.Warnings) == 0 {
		e.Warnings = nil
	}
	return nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
