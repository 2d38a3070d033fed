package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

var curbSet = []string{
	"--set", "confusion=1", "--set", "bun=1", "--set", "respiratory_rate=0",
	"--set", "blood_pressure=0", "--set", "age=1",
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "-o", "json")
	require.NoError(t, err)
	var all []domain.CalculatorSummary
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 25)

	out, err = run(t, "list", "--category", "psychiatry")
	require.NoError(t, err)
	assert.Contains(t, out, "phq-9")
	assert.Contains(t, out, "gad-7")
	assert.NotContains(t, out, "curb-65")

	_, err = run(t, "list", "--category", "astrology")
	assert.ErrorContains(t, err, "unknown category")

	_, err = run(t, "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "curb-65")
	require.NoError(t, err)
	assert.Contains(t, out, "calculator_id: curb-65")
	assert.Contains(t, out, "id: confusion")

	_, err = run(t, "schema", "nope")
	assert.ErrorIs(t, err, domain.ErrCalculatorNotFound)
}

func TestEvaluateCommand(t *testing.T) {
	out, err := run(t, append([]string{"evaluate", "curb-65", "-o", "json"}, curbSet...)...)
	require.NoError(t, err)
	var result domain.CalculatorResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, domain.RiskHigh, result.Interpretation.Risk)

	out, err = run(t, append([]string{"evaluate", "curb-65"}, curbSet...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "High Risk (high)")

	_, err = run(t, "evaluate", "curb-65", "--set", "confusion=1")
	assert.True(t, domain.IsValidationError(err))

	_, err = run(t, "evaluate", "curb-65", "--set", "confusion=yes")
	assert.ErrorIs(t, err, domain.ErrInvalidNumber)

	_, err = run(t, "evaluate")
	assert.ErrorContains(t, err, "calculator id is required")
}

func TestEvaluateCommand_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	writeFile(t, path, `calculator_id: curb-65
inputs:
  confusion: 0
  bun: 0
  respiratory_rate: 0
  blood_pressure: 0
  age: 1
`)

	out, err := run(t, "evaluate", "--file", path, "--set", "confusion=1", "-o", "json")

	require.NoError(t, err)
	var result domain.CalculatorResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2.0, result.Score, "--set takes precedence over the file")
}

func TestEvaluateCommand_Batch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"),
		`{"calculator_id": "qsofa", "inputs": {"respiratoryRate": 1, "alteredMentation": 1, "systolicBP": 0}}`)
	writeFile(t, filepath.Join(dir, "nested", "b.yaml"),
		"calculator_id: curb-65\ninputs: {confusion: 0, bun: 0, respiratory_rate: 0, blood_pressure: 0, age: 0}\n")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "c.json"),
		`{"calculator_id": "curb-65", "inputs": {"age": 1}}`)
	writeFile(t, filepath.Join(dir, "ignored.txt"), "not a case")

	out, err := run(t, "evaluate", "--batch", filepath.Join(dir, "**", "*.{json,yaml}"), "-o", "json")

	require.ErrorContains(t, err, "1 of 3 cases failed")
	var results []CaseResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, 2.0, results[0].Result.Score)
	assert.Equal(t, 0.0, results[1].Result.Score)
	assert.Empty(t, results[2].Result)
	assert.ElementsMatch(t, []string{"confusion", "bun", "respiratory_rate", "blood_pressure"}, results[2].Fields)
}

func TestHistoryCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	_, err := run(t, append([]string{"evaluate", "curb-65", "--record"}, curbSet...)...)
	assert.ErrorContains(t, err, "--history-db")

	_, err = run(t, append([]string{"--history-db", db, "evaluate", "curb-65", "--record", "--patient", "p-1"}, curbSet...)...)
	require.NoError(t, err)

	out, err := run(t, "--history-db", db, "history", "list", "-o", "json")
	require.NoError(t, err)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, int64(1), page.Total)

	parquetPath := filepath.Join(t.TempDir(), "out.parquet")
	out, err = run(t, "--history-db", db, "history", "export", "--format", "parquet", "--out", parquetPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 evaluations")
	data, err := os.ReadFile(parquetPath)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))

	_, err = run(t, "history", "list")
	assert.ErrorContains(t, err, "--history-db")
}

func TestHistoryImportCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.db")
	target := filepath.Join(dir, "target.db")
	exportPath := filepath.Join(dir, "export.json")

	_, err := run(t, append([]string{"--history-db", source, "evaluate", "curb-65", "--record", "--patient", "p-2"}, curbSet...)...)
	require.NoError(t, err)
	_, err = run(t, "--history-db", source, "history", "export", "--out", exportPath)
	require.NoError(t, err)

	out, err := run(t, "--history-db", target, "history", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 evaluations, skipped 0")

	out, err = run(t, "--history-db", target, "history", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 evaluations, skipped 1")

	out, err = run(t, "--history-db", target, "history", "list", "--patient", "p-2", "-o", "json")
	require.NoError(t, err)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, int64(1), page.Total)

	_, err = run(t, "--history-db", target, "history", "import")
	assert.Error(t, err)
	_, err = run(t, "--history-db", target, "history", "import", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestVerifyAndFormulaCommands(t *testing.T) {
	out, err := run(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "25 calculators verified")

	out, err = run(t, "formula", "bmi", "--set", "weight_kg=70", "--set", "height_cm=175")
	require.NoError(t, err)
	assert.Contains(t, out, "bmi = 22.86")

	out, err = run(t, "formula")
	require.NoError(t, err)
	assert.Contains(t, out, "weight_kg,height_cm")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calcctl.yaml")
	writeFile(t, path, "output: yaml\n")

	out, err := run(t, "--config", path, "formula", "bmi", "--set", "weight_kg=80", "--set", "height_cm=200")

	require.NoError(t, err)
	assert.Contains(t, out, "name: bmi")
	assert.Contains(t, out, "value: 20")
}
