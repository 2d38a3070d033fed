package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

func sampleResult() *domain.CalculatorResult {
	return &domain.CalculatorResult{
		CalculatorID:   "qsofa",
		CalculatorName: "Quick SOFA",
		Inputs:         domain.Inputs{"respiratoryRate": 1, "alteredMentation": 1, "systolicBP": 0},
		Score:          2,
		Interpretation: domain.Interpretation{
			Score:    2,
			Category: "High Risk",
			Risk:     domain.RiskHigh,
			Notes:    []string{"Assess for sepsis"},
			Range:    &domain.ScoreRange{Min: 2, Max: 3},
		},
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Warnings:  []string{`ignored unknown input "x"`},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestKey(t *testing.T) {
	a := Key("qsofa", domain.Inputs{"a": 1, "b": 0.5})
	b := Key("qsofa", domain.Inputs{"b": 0.5, "a": 1})

	assert.Equal(t, a, b)
	assert.Contains(t, a, "calc:qsofa:")
	assert.NotEqual(t, a, Key("qsofa", domain.Inputs{"a": 1, "b": 1.5}))
	assert.NotEqual(t, a, Key("sofa", domain.Inputs{"a": 1, "b": 0.5}))
}

func TestNewMemoryCache_RejectsInvalidSettings(t *testing.T) {
	_, err := NewMemoryCache(0, time.Minute)
	assert.Error(t, err)

	_, err = NewMemoryCache(10, 0)
	assert.Error(t, err)
}

func TestMemoryCache_SetGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	original := sampleResult()

	// Act
	require.NoError(t, c.Set(ctx, "k", original))
	original.Interpretation.Notes[0] = "mutated after set"
	got, ok := c.Get(ctx, "k")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "Assess for sepsis", got.Interpretation.Notes[0])
	got.Inputs["respiratoryRate"] = 0
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, 1.0, again.Inputs["respiratoryRate"])

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
	assert.Equal(t, Stats{Hits: 2, Misses: 1, Size: 1}, c.Stats())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2, time.Minute)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "a", sampleResult()))
	require.NoError(t, c.Set(ctx, "b", sampleResult()))
	_, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", sampleResult()))

	_, okA := c.Get(ctx, "a")
	_, okB := c.Get(ctx, "b")
	assert.True(t, okA)
	assert.False(t, okB)
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(10, 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", sampleResult()))
	time.Sleep(120 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

type failingCache struct{ closed bool }

func (f *failingCache) Get(context.Context, string) (*domain.CalculatorResult, bool) {
	return nil, false
}

func (f *failingCache) Set(context.Context, string, *domain.CalculatorResult) error {
	return errors.New("connection refused")
}

func (f *failingCache) Close() error {
	f.closed = true
	return nil
}

func TestTiered_BackfillsLocalTier(t *testing.T) {
	ctx := context.Background()
	local, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	shared, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	tiered := NewTiered(local, shared, quietLogger())

	require.NoError(t, shared.Set(ctx, "k", sampleResult()))
	got, ok := tiered.Get(ctx, "k")

	require.True(t, ok)
	assert.Equal(t, 2.0, got.Score)
	_, inLocal := local.Get(ctx, "k")
	assert.True(t, inLocal)
}

func TestTiered_SharedFailureStillWritesLocal(t *testing.T) {
	ctx := context.Background()
	local, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	shared := &failingCache{}
	tiered := NewTiered(local, shared, quietLogger())

	err = tiered.Set(ctx, "k", sampleResult())

	assert.Error(t, err)
	_, ok := tiered.Get(ctx, "k")
	assert.True(t, ok)
	require.NoError(t, tiered.Close())
	assert.True(t, shared.closed)
}

func TestTiered_WithoutSharedTier(t *testing.T) {
	ctx := context.Background()
	local, err := NewMemoryCache(10, time.Minute)
	require.NoError(t, err)
	tiered := NewTiered(local, nil, nil)

	require.NoError(t, tiered.Set(ctx, "k", sampleResult()))
	_, ok := tiered.Get(ctx, "k")
	assert.True(t, ok)
	_, ok = tiered.Get(ctx, "other")
	assert.False(t, ok)
	assert.NoError(t, tiered.Close())
}
