package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/service"
	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

// EvaluateParams defines parameters for the evaluate_calculator tool
type EvaluateParams struct {
	CalculatorID string             `json:"calculator_id" jsonschema:"calculator id, for example curb-65"`
	Inputs       map[string]float64 `json:"inputs" jsonschema:"field id to numeric value"`
	PatientID    string             `json:"patient_id,omitempty" jsonschema:"optional patient reference stored with the evaluation"`
	Notes        string             `json:"notes,omitempty" jsonschema:"optional free-text note stored with the evaluation"`
	Record       bool               `json:"record,omitempty" jsonschema:"record the evaluation in history"`
}

// ListParams defines parameters for the list_calculators tool
type ListParams struct {
	Category string `json:"category,omitempty" jsonschema:"category key, for example cardiology"`
}

// SchemaParams defines parameters for the get_calculator_schema tool
type SchemaParams struct {
	CalculatorID string `json:"calculator_id" jsonschema:"calculator id"`
}

// SearchParams defines parameters for the search_calculators tool
type SearchParams struct {
	Query string `json:"query" jsonschema:"search terms"`
}

// HistoryParams defines parameters for the get_evaluation_history tool
type HistoryParams struct {
	ID           string `json:"id,omitempty" jsonschema:"history entry id; when set the other filters are ignored"`
	CalculatorID string `json:"calculator_id,omitempty" jsonschema:"only entries of this calculator"`
	PatientID    string `json:"patient_id,omitempty" jsonschema:"only entries of this patient"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum entries to return, default 50"`
	Offset       int    `json:"offset,omitempty" jsonschema:"entries to skip"`
}

// FormulaParams defines parameters for the compute_formula tool
type FormulaParams struct {
	Name   string             `json:"name" jsonschema:"formula name"`
	Params map[string]float64 `json:"params" jsonschema:"formula parameters"`
}

// ExportParams defines parameters for the export_evaluation_history tool
type ExportParams struct {
	Format       string `json:"format,omitempty" jsonschema:"json (default) or parquet"`
	CalculatorID string `json:"calculator_id,omitempty" jsonschema:"parquet only: restrict to one calculator"`
}

// ExportResult is returned by export_evaluation_history
type ExportResult struct {
	FilePath string `json:"file_path"`
	Count    int    `json:"count"`
	Format   string `json:"format"`
}

// ImportParams defines parameters for the import_evaluation_history tool
type ImportParams struct {
	FilePath string `json:"file_path" jsonschema:"path of a JSON history export"`
}

// ImportResult is returned by import_evaluation_history
type ImportResult struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

// createExportFile opens export destinations.
var createExportFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func (s *Server) handleEvaluate(ctx context.Context, _ *mcp.CallToolRequest, params EvaluateParams) (*mcp.CallToolResult, any, error) {
	result, err := s.service.Evaluate(ctx, service.EvaluateRequest{
		CalculatorID: params.CalculatorID,
		Inputs:       domain.Inputs(params.Inputs),
		PatientID:    params.PatientID,
		Notes:        params.Notes,
		Record:       params.Record,
	})
	if err != nil {
		return s.errorResult("evaluate_calculator", err), nil, nil
	}
	return s.jsonResult(result)
}

func (s *Server) handleList(_ context.Context, _ *mcp.CallToolRequest, params ListParams) (*mcp.CallToolResult, any, error) {
	category := domain.Category(params.Category)
	if category != "" && !category.IsValid() {
		return s.errorResult("list_calculators", fmt.Errorf("%w: unknown category %q", errInvalidArgument, params.Category)), nil, nil
	}
	return s.jsonResult(map[string]any{
		"calculators": s.service.ListCalculators(category),
		"categories":  s.service.Categories(),
	})
}

func (s *Server) handleSchema(_ context.Context, _ *mcp.CallToolRequest, params SchemaParams) (*mcp.CallToolResult, any, error) {
	calc, err := s.service.Calculator(params.CalculatorID)
	if err != nil {
		return s.errorResult("get_calculator_schema", err), nil, nil
	}
	fields, err := s.service.Schema(params.CalculatorID)
	if err != nil {
		return s.errorResult("get_calculator_schema", err), nil, nil
	}
	return s.jsonResult(map[string]any{
		"calculator_id": calc.ID,
		"name":          calc.Name,
		"description":   calc.Description,
		"fields":        fields,
		"notes":         calc.Notes,
	})
}

func (s *Server) handleSearch(_ context.Context, _ *mcp.CallToolRequest, params SearchParams) (*mcp.CallToolResult, any, error) {
	if params.Query == "" {
		return s.errorResult("search_calculators", fmt.Errorf("%w: query is required", errInvalidArgument)), nil, nil
	}
	return s.jsonResult(map[string]any{
		"query":       params.Query,
		"calculators": s.service.Search(params.Query),
	})
}

func (s *Server) handleHistory(ctx context.Context, _ *mcp.CallToolRequest, params HistoryParams) (*mcp.CallToolResult, any, error) {
	if params.ID != "" {
		entry, err := s.service.HistoryEntry(ctx, params.ID)
		if err != nil {
			return s.errorResult("get_evaluation_history", err), nil, nil
		}
		return s.jsonResult(entry)
	}

	filter := history.Filter{
		CalculatorID: params.CalculatorID,
		PatientID:    params.PatientID,
		Limit:        params.Limit,
		Offset:       params.Offset,
	}
	entries, total, err := s.service.History(ctx, filter)
	if err != nil {
		return s.errorResult("get_evaluation_history", err), nil, nil
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	return s.jsonResult(map[string]any{"entries": entries, "total": total})
}

func (s *Server) handleFormula(_ context.Context, _ *mcp.CallToolRequest, params FormulaParams) (*mcp.CallToolResult, any, error) {
	res, err := s.service.ComputeFormula(params.Name, params.Params)
	if err != nil {
		if errors.Is(err, formulas.ErrUnknownFormula) {
			err = fmt.Errorf("%w; available: %v", err, formulas.Names())
		}
		return s.errorResult("compute_formula", err), nil, nil
	}
	return s.jsonResult(res)
}

func (s *Server) handleExport(ctx context.Context, _ *mcp.CallToolRequest, params ExportParams) (*mcp.CallToolResult, any, error) {
	format := params.Format
	if format == "" {
		format = service.FormatJSON
	}
	if format != service.FormatJSON && format != service.FormatParquet {
		return s.errorResult("export_evaluation_history", fmt.Errorf("%w: unsupported format %q", errInvalidArgument, format)), nil, nil
	}
	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return s.errorResult("export_evaluation_history", err), nil, nil
	}

	filename := fmt.Sprintf("history_export_%s.%s", time.Now().Format("20060102_150405"), format)
	filePath := filepath.Join(s.exportDir, filename)
	file, err := createExportFile(filePath)
	if err != nil {
		return s.errorResult("export_evaluation_history", err), nil, nil
	}

	n, err := s.service.ExportHistory(ctx, format, history.Filter{CalculatorID: params.CalculatorID}, file)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("writing %s: %w", filePath, cerr)
	}
	if err != nil {
		_ = os.Remove(filePath)
		return s.errorResult("export_evaluation_history", err), nil, nil
	}
	return s.jsonResult(ExportResult{FilePath: filePath, Count: n, Format: format})
}

func (s *Server) handleImport(ctx context.Context, _ *mcp.CallToolRequest, params ImportParams) (*mcp.CallToolResult, any, error) {
	if params.FilePath == "" {
		return s.errorResult("import_evaluation_history", fmt.Errorf("%w: file_path is required", errInvalidArgument)), nil, nil
	}
	file, err := os.Open(params.FilePath)
	if err != nil {
		return s.errorResult("import_evaluation_history", fmt.Errorf("%w: %v", errInvalidArgument, err)), nil, nil
	}
	defer file.Close()

	imported, skipped, err := s.service.ImportHistory(ctx, file)
	if err != nil {
		return s.errorResult("import_evaluation_history", err), nil, nil
	}
	return s.jsonResult(ImportResult{
		Imported: imported,
		Skipped:  skipped,
		Message:  fmt.Sprintf("Imported %d evaluations, skipped %d already recorded", imported, skipped),
	})
}

var errInvalidArgument = errors.New("invalid argument")

// jsonResult renders v as the text content of a successful tool result.
func (s *Server) jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult reports err as a tool-level failure carrying an error envelope.
func (s *Server) errorResult(tool string, err error) *mcp.CallToolResult {
	code := domain.ErrCodeInternal
	switch {
	case errors.Is(err, domain.ErrCalculatorNotFound):
		code = domain.ErrCodeCalculatorNotFound
	case domain.IsValidationError(err), errors.Is(err, formulas.ErrInvalidParam):
		code = domain.ErrCodeValidation
	case errors.Is(err, errInvalidArgument):
		code = domain.ErrCodeInvalidInput
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, formulas.ErrUnknownFormula),
		errors.Is(err, service.ErrHistoryDisabled):
		code = domain.ErrCodeNotFound
	}

	fields := logrus.Fields{"tool": tool, "code": code}
	if code == domain.ErrCodeInternal {
		s.logger.WithError(err).WithFields(fields).Error("Tool failed")
	} else {
		s.logger.WithError(err).WithFields(fields).Debug("Tool rejected request")
	}

	mcpErr := domain.NewMCPError(code, err.Error(), "", "")
	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		mcpErr.Message = "input validation failed"
		mcpErr.Details = err.Error()
		mcpErr.Fields = ve.FieldIDs()
	}

	data, _ := json.Marshal(map[string]any{"error": mcpErr})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
