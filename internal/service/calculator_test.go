package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/cache"
	"github.com/clinical-calculator-mcp-server/internal/calculators"
	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/registry"
	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(quietLogger())
	require.NoError(t, calculators.RegisterAll(reg))
	return reg
}

func newTestService(t *testing.T, opts ...Option) *CalculatorService {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewCalculatorService(newRegistry(t), quietLogger(), opts...)
}

func curbInputs() domain.Inputs {
	return domain.Inputs{"confusion": 1, "bun": 1, "respiratory_rate": 0, "blood_pressure": 1, "age": 0}
}

// countingCache wraps a memory cache and counts lookups.
type countingCache struct {
	*cache.MemoryCache
	mu   sync.Mutex
	sets int
}

func (c *countingCache) Set(ctx context.Context, key string, r *domain.CalculatorResult) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryCache.Set(ctx, key, r)
}

// failingStore is a history store whose writes and reads always fail.
type failingStore struct {
	history.Store
	mu    sync.Mutex
	calls int
}

func (f *failingStore) Save(context.Context, *history.Entry) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return errors.New("connection refused")
}

func (f *failingStore) List(context.Context, history.Filter) ([]*history.Entry, error) {
	return nil, errors.New("connection refused")
}

func (f *failingStore) Close() error { return nil }

func TestCalculatorService_Evaluate(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Evaluate(context.Background(), EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs()})

	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, "High Risk", result.Interpretation.Category)
	assert.Equal(t, fixedNow, result.Timestamp)
	assert.Empty(t, result.HistoryID)
}

func TestCalculatorService_EvaluateErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrCalculatorNotFound))

	_, err = svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "curb-65", Inputs: domain.Inputs{"confusion": 1}})
	assert.True(t, domain.IsValidationError(err))
	assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Evaluate(cancelled, EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs()})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCalculatorService_EvaluateUsesCache(t *testing.T) {
	mem, err := cache.NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	cc := &countingCache{MemoryCache: mem}
	svc := newTestService(t, WithCache(cc))
	ctx := context.Background()
	req := EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs()}

	first, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	second, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 1, cc.sets, "second evaluation is served from cache")
	assert.Equal(t, first.Interpretation, second.Interpretation)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1, Size: 1}, mem.Stats())

	second.Interpretation.Category = "mutated"
	third, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "High Risk", third.Interpretation.Category)
}

func TestCalculatorService_RecordsHistory(t *testing.T) {
	// Arrange
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	svc := newTestService(t, WithHistory(store))
	defer svc.Close()
	ctx := context.Background()

	// Act
	result, err := svc.Evaluate(ctx, EvaluateRequest{
		CalculatorID: "curb-65",
		Inputs:       curbInputs(),
		PatientID:    "patient-7",
		Notes:        "admission",
		Record:       true,
	})
	require.NoError(t, err)
	_, err = svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "qsofa", Inputs: domain.Inputs{
		"respiratoryRate": 1, "alteredMentation": 0, "systolicBP": 0,
	}})
	require.NoError(t, err)

	// Assert
	require.NotEmpty(t, result.HistoryID)
	entry, err := svc.HistoryEntry(ctx, result.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, "patient-7", entry.PatientID)
	assert.Equal(t, 3.0, entry.Score)

	entries, total, err := svc.History(ctx, history.Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "unrecorded evaluations are not stored")
	assert.Equal(t, int64(1), total)

	require.NoError(t, svc.DeleteHistoryEntry(ctx, result.HistoryID))
	_, err = svc.HistoryEntry(ctx, result.HistoryID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCalculatorService_EvaluateLogsRisk(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	svc := NewCalculatorService(newRegistry(t), logger)

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs()})

	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Calculator evaluated", entry.Message)
	assert.Equal(t, "high", entry.Data["risk"])
	assert.Equal(t, domain.RiskHigh.Severity(), entry.Data["risk_severity"])
	assert.Equal(t, domain.RiskHigh.RequiresEscalation(), entry.Data["requires_escalation"])
}

func TestCalculatorService_ConcurrentRecording(t *testing.T) {
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	memory, err := cache.NewMemoryCache(100, time.Minute)
	require.NoError(t, err)
	svc := newTestService(t, WithHistory(store), WithCache(memory))
	defer svc.Close()
	ctx := context.Background()
	const workers, perWorker = 16, 20

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				result, err := svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs(), Record: true})
				if assert.NoError(t, err) {
					assert.NotContains(t, result.Warnings, NotRecordedWarning)
				}
			}
		}()
	}
	wg.Wait()

	_, total, err := svc.History(ctx, history.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), total)
}

func TestCalculatorService_HistoryDisabled(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs(), Record: true})
	require.NoError(t, err)
	assert.Empty(t, result.HistoryID)
	assert.False(t, svc.HistoryEnabled())

	_, _, err = svc.History(ctx, history.Filter{})
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	assert.ErrorIs(t, svc.DeleteHistoryEntry(ctx, "x"), ErrHistoryDisabled)
}

func TestCalculatorService_BreakerOpensOnPersistenceFailures(t *testing.T) {
	store := &failingStore{}
	svc := newTestService(t, WithHistory(store))
	ctx := context.Background()
	req := EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs(), Record: true}

	for i := 0; i < 5; i++ {
		result, err := svc.Evaluate(ctx, req)
		require.NoError(t, err, "evaluation succeeds even when recording fails")
		assert.Contains(t, result.Warnings, NotRecordedWarning)
		assert.Empty(t, result.HistoryID)
	}

	assert.Equal(t, 3, store.calls, "breaker stops calling the store once open")
	_, _, err := svc.History(ctx, history.Filter{})
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
}

func TestCalculatorService_Catalogue(t *testing.T) {
	svc := newTestService(t)

	assert.Len(t, svc.ListCalculators(""), 25)
	assert.Len(t, svc.ListCalculators(domain.CategoryPsychiatry), 2)

	calc, err := svc.Calculator("gcs")
	require.NoError(t, err)
	assert.Equal(t, "GCS", calc.Abbreviation)

	fields, err := svc.Schema("phq-9")
	require.NoError(t, err)
	assert.Len(t, fields, 9)

	found := svc.Search("sepsis")
	require.NotEmpty(t, found)

	related, err := svc.Related("sofa")
	require.NoError(t, err)
	assert.Equal(t, "qsofa", related[0].ID)
	_, err = svc.Related("missing")
	assert.True(t, errors.Is(err, domain.ErrCalculatorNotFound))

	assert.NotEmpty(t, svc.Categories())
	assert.Empty(t, svc.Verify())
}

func TestCalculatorService_ComputeFormula(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.ComputeFormula("bmi", map[string]float64{"weight_kg": 70, "height_cm": 175})
	require.NoError(t, err)
	assert.Equal(t, "kg/m²", res.Unit)
	assert.InDelta(t, 22.86, res.Value, 0.001)

	_, err = svc.ComputeFormula("nope", nil)
	assert.ErrorIs(t, err, formulas.ErrUnknownFormula)
}

func TestCalculatorService_ExportHistory(t *testing.T) {
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	svc := newTestService(t, WithHistory(store))
	defer svc.Close()
	ctx := context.Background()
	_, err = svc.Evaluate(ctx, EvaluateRequest{CalculatorID: "curb-65", Inputs: curbInputs(), Record: true})
	require.NoError(t, err)

	var jsonOut bytes.Buffer
	n, err := svc.ExportHistory(ctx, FormatJSON, history.Filter{}, &jsonOut)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, jsonOut.String(), `"calculator_id": "curb-65"`)

	var parquetOut bytes.Buffer
	n, err = svc.ExportHistory(ctx, FormatParquet, history.Filter{CalculatorID: "curb-65"}, &parquetOut)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "PAR1", parquetOut.String()[:4])

	_, err = svc.ExportHistory(ctx, "xml", history.Filter{}, &bytes.Buffer{})
	assert.Error(t, err)
}
