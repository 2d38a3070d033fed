package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/config"
	"github.com/clinical-calculator-mcp-server/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newLiteServer(t *testing.T, historyEnabled bool) *LiteServer {
	t.Helper()
	cfg := config.DefaultLiteConfig()
	cfg.DataDir = t.TempDir()
	cfg.HistoryEnabled = historyEnabled
	cfg.CacheMaxItems = 10
	cfg.CacheTTL = time.Minute

	s, err := NewLiteServer(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decodeText[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &v))
	return v
}

type toolError struct {
	Error domain.MCPError `json:"error"`
}

func curbParams(record bool) EvaluateParams {
	return EvaluateParams{
		CalculatorID: "curb-65",
		Inputs:       map[string]float64{"confusion": 1, "bun": 1, "respiratory_rate": 0, "blood_pressure": 1, "age": 0},
		PatientID:    "p-9",
		Record:       record,
	}
}

func TestNewLiteServer(t *testing.T) {
	s := newLiteServer(t, true)

	assert.NotNil(t, s.Server().MCPServer())
	assert.NotNil(t, s.GetCache())
	assert.True(t, s.Service().HistoryEnabled())
	assert.DirExists(t, s.config.ExportDir())
	assert.FileExists(t, s.config.HistoryDBPath())
}

func TestEvaluateTool(t *testing.T) {
	s := newLiteServer(t, true).Server()
	ctx := context.Background()

	res, _, err := s.handleEvaluate(ctx, nil, curbParams(true))

	require.NoError(t, err)
	assert.False(t, res.IsError)
	result := decodeText[domain.CalculatorResult](t, res)
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, "High Risk", result.Interpretation.Category)
	assert.NotEmpty(t, result.HistoryID)

	res, _, err = s.handleHistory(ctx, nil, HistoryParams{PatientID: "p-9"})
	require.NoError(t, err)
	page := decodeText[struct {
		Total int64 `json:"total"`
	}](t, res)
	assert.Equal(t, int64(1), page.Total)

	res, _, err = s.handleHistory(ctx, nil, HistoryParams{ID: result.HistoryID})
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), `"patient_id": "p-9"`)
}

func TestEvaluateTool_Errors(t *testing.T) {
	s := newLiteServer(t, false).Server()
	ctx := context.Background()

	tests := []struct {
		name   string
		params EvaluateParams
		code   string
		fields []string
	}{
		{
			name:   "unknown calculator",
			params: EvaluateParams{CalculatorID: "nope", Inputs: map[string]float64{}},
			code:   domain.ErrCodeCalculatorNotFound,
		},
		{
			name:   "missing fields",
			params: EvaluateParams{CalculatorID: "curb-65", Inputs: map[string]float64{"age": 1, "bun": 0, "confusion": 0}},
			code:   domain.ErrCodeValidation,
			fields: []string{"respiratory_rate", "blood_pressure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := s.handleEvaluate(ctx, nil, tt.params)
			require.NoError(t, err, "tool failures are reported in the result")
			assert.True(t, res.IsError)
			body := decodeText[toolError](t, res)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.fields != nil {
				assert.ElementsMatch(t, tt.fields, body.Error.Fields)
			}
		})
	}
}

func TestCatalogueTools(t *testing.T) {
	s := newLiteServer(t, false).Server()
	ctx := context.Background()

	res, _, err := s.handleList(ctx, nil, ListParams{Category: "psychiatry"})
	require.NoError(t, err)
	list := decodeText[struct {
		Calculators []domain.CalculatorSummary `json:"calculators"`
	}](t, res)
	require.Len(t, list.Calculators, 2)
	assert.Equal(t, "phq-9", list.Calculators[0].ID)

	res, _, err = s.handleList(ctx, nil, ListParams{Category: "astrology"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeText[toolError](t, res).Error.Code)

	res, _, err = s.handleSchema(ctx, nil, SchemaParams{CalculatorID: "gad-7"})
	require.NoError(t, err)
	schema := decodeText[struct {
		Fields []domain.Field `json:"fields"`
	}](t, res)
	assert.Len(t, schema.Fields, 7)

	res, _, err = s.handleSchema(ctx, nil, SchemaParams{CalculatorID: "nope"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _, err = s.handleSearch(ctx, nil, SearchParams{Query: "atrial fibrillation"})
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "cha2ds2-vasc")

	res, _, err = s.handleSearch(ctx, nil, SearchParams{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFormulaTool(t *testing.T) {
	s := newLiteServer(t, false).Server()
	ctx := context.Background()

	res, _, err := s.handleFormula(ctx, nil, FormulaParams{Name: "map", Params: map[string]float64{"systolic": 120, "diastolic": 80}})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))
	out := decodeText[struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}](t, res)
	assert.InDelta(t, 93.33, out.Value, 0.01)

	res, _, err = s.handleFormula(ctx, nil, FormulaParams{Name: "unknown"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "bmi")
}

func TestHistoryToolWithoutHistory(t *testing.T) {
	s := newLiteServer(t, false).Server()

	res, _, err := s.handleHistory(context.Background(), nil, HistoryParams{})

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, domain.ErrCodeNotFound, decodeText[toolError](t, res).Error.Code)
}

func TestExportTool(t *testing.T) {
	lite := newLiteServer(t, true)
	s := lite.Server()
	ctx := context.Background()
	_, _, err := s.handleEvaluate(ctx, nil, curbParams(true))
	require.NoError(t, err)

	for _, format := range []string{"", "parquet"} {
		res, _, err := s.handleExport(ctx, nil, ExportParams{Format: format})
		require.NoError(t, err)
		require.False(t, res.IsError, textOf(t, res))
		out := decodeText[ExportResult](t, res)
		assert.Equal(t, 1, out.Count)
		info, err := os.Stat(out.FilePath)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	res, _, err := s.handleExport(ctx, nil, ExportParams{Format: "xml"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

type failingCloser struct{ *os.File }

func (f failingCloser) Close() error {
	_ = f.File.Close()
	return errors.New("no space left on device")
}

func TestExportToolReportsCloseFailure(t *testing.T) {
	s := newLiteServer(t, true).Server()
	ctx := context.Background()
	_, _, err := s.handleEvaluate(ctx, nil, curbParams(true))
	require.NoError(t, err)

	var created string
	orig := createExportFile
	createExportFile = func(name string) (io.WriteCloser, error) {
		created = name
		f, err := os.Create(name)
		return failingCloser{f}, err
	}
	t.Cleanup(func() { createExportFile = orig })

	res, _, err := s.handleExport(ctx, nil, ExportParams{})

	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "no space left on device")
	assert.NoFileExists(t, created)
}

func TestImportTool(t *testing.T) {
	source := newLiteServer(t, true).Server()
	ctx := context.Background()
	_, _, err := source.handleEvaluate(ctx, nil, curbParams(true))
	require.NoError(t, err)
	res, _, err := source.handleExport(ctx, nil, ExportParams{Format: "json"})
	require.NoError(t, err)
	exported := decodeText[ExportResult](t, res)

	target := newLiteServer(t, true).Server()

	res, _, err = target.handleImport(ctx, nil, ImportParams{FilePath: exported.FilePath})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))
	first := decodeText[ImportResult](t, res)
	assert.Equal(t, 1, first.Imported)
	assert.Equal(t, 0, first.Skipped)

	res, _, err = target.handleImport(ctx, nil, ImportParams{FilePath: exported.FilePath})
	require.NoError(t, err)
	second := decodeText[ImportResult](t, res)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Skipped)

	res, _, err = target.handleHistory(ctx, nil, HistoryParams{PatientID: "p-9"})
	require.NoError(t, err)
	page := decodeText[struct {
		Total int64 `json:"total"`
	}](t, res)
	assert.Equal(t, int64(1), page.Total)
}

func TestImportToolErrors(t *testing.T) {
	s := newLiteServer(t, true).Server()
	ctx := context.Background()

	res, _, err := s.handleImport(ctx, nil, ImportParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.ErrCodeInvalidInput, decodeText[toolError](t, res).Error.Code)

	res, _, err = s.handleImport(ctx, nil, ImportParams{FilePath: "/nonexistent/export.json"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	disabled := newLiteServer(t, false).Server()
	res, _, err = disabled.handleImport(ctx, nil, ImportParams{FilePath: "x.json"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
