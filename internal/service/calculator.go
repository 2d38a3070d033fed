// Package service combines the evaluation engine with result caching and
// evaluation history. Transports (HTTP, MCP, CLI) talk to CalculatorService only.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/clinical-calculator-mcp-server/internal/cache"
	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/engine"
	"github.com/clinical-calculator-mcp-server/internal/history"
	"github.com/clinical-calculator-mcp-server/internal/registry"
	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

// ErrHistoryDisabled is returned by history operations when no store is configured.
var ErrHistoryDisabled = errors.New("evaluation history is disabled")

// ErrHistoryUnavailable is returned while the history breaker is open.
var ErrHistoryUnavailable = errors.New("evaluation history is temporarily unavailable")

// NotRecordedWarning is appended to a result whose evaluation could not be persisted.
const NotRecordedWarning = "evaluation was not recorded: history store unavailable"

// EvaluateRequest is one evaluation call.
type EvaluateRequest struct {
	CalculatorID string        `json:"calculator_id"`
	Inputs       domain.Inputs `json:"inputs"`
	PatientID    string        `json:"patient_id,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Record       bool          `json:"record,omitempty"`
}

// CalculatorService implements the calculator operations used by every transport.
type CalculatorService struct {
	registry *registry.Registry
	engine   *engine.Engine
	cache    domain.ResultCache
	history  history.Store
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
	now      func() time.Time
}

// Option configures a CalculatorService.
type Option func(*CalculatorService)

// WithCache enables result caching.
func WithCache(c domain.ResultCache) Option {
	return func(s *CalculatorService) { s.cache = c }
}

// WithHistory enables evaluation recording and the history operations.
func WithHistory(store history.Store) Option {
	return func(s *CalculatorService) { s.history = store }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *CalculatorService) { s.now = now }
}

// WithBreakerSettings overrides the history circuit breaker settings.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(s *CalculatorService) {
		s.breaker = gobreaker.NewCircuitBreaker(settings)
	}
}

// NewCalculatorService creates a service over a populated registry.
func NewCalculatorService(reg *registry.Registry, logger *logrus.Logger, opts ...Option) *CalculatorService {
	if logger == nil {
		logger = logrus.New()
	}
	s := &CalculatorService{
		registry: reg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.breaker = gobreaker.NewCircuitBreaker(defaultBreakerSettings(logger))
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.New(reg, engine.WithClock(s.now))
	return s
}

func defaultBreakerSettings(logger *logrus.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "history",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}
}

// Evaluate validates, scores and interprets one request. Results are served from the
// cache when possible. When Record is set and history is configured the evaluation is
// persisted; a persistence failure adds NotRecordedWarning instead of failing the call.
func (s *CalculatorService) Evaluate(ctx context.Context, req EvaluateRequest) (*domain.CalculatorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	fields := logrus.Fields{"calculator_id": req.CalculatorID}

	key := cache.Key(req.CalculatorID, req.Inputs)
	result, hit := s.cached(ctx, key)
	if hit {
		result.Timestamp = s.now()
	} else {
		var err error
		result, err = s.engine.Evaluate(req.CalculatorID, req.Inputs)
		if err != nil {
			s.logEvaluationError(fields, err)
			return nil, err
		}
		s.store(ctx, key, result)
	}

	if req.Record {
		s.record(ctx, result, req)
	}

	fields["score"] = result.Score
	fields["category"] = result.Interpretation.Category
	for k, v := range result.Interpretation.Risk.LogFields() {
		fields[k] = v
	}
	fields["cached"] = hit
	fields["duration"] = time.Since(start).String()
	s.logger.WithFields(fields).Debug("Calculator evaluated")
	return result, nil
}

func (s *CalculatorService) cached(ctx context.Context, key string) (*domain.CalculatorResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *CalculatorService) store(ctx context.Context, key string, result *domain.CalculatorResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.WithError(err).WithField("calculator_id", result.CalculatorID).Warn("Failed to cache result")
	}
}

func (s *CalculatorService) record(ctx context.Context, result *domain.CalculatorResult, req EvaluateRequest) {
	if s.history == nil {
		return
	}
	entry := history.NewEntry(result, req.PatientID, req.Notes)
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.history.Save(ctx, entry)
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"calculator_id": result.CalculatorID,
			"entry_id":      entry.ID,
		}).Error("Failed to record evaluation")
		result.Warnings = append(result.Warnings, NotRecordedWarning)
		return
	}
	result.HistoryID = entry.ID
}

func (s *CalculatorService) logEvaluationError(fields logrus.Fields, err error) {
	entry := s.logger.WithFields(fields).WithError(err)
	switch {
	case domain.IsValidationError(err), errors.Is(err, domain.ErrCalculatorNotFound):
		entry.Debug("Evaluation rejected")
	default:
		entry.Error("Evaluation failed")
	}
}

// ListCalculators returns calculator summaries, optionally for one category.
func (s *CalculatorService) ListCalculators(category domain.Category) []domain.CalculatorSummary {
	return s.engine.ListCalculators(category)
}

// Calculator returns the full definition of a calculator.
func (s *CalculatorService) Calculator(id string) (*domain.Calculator, error) {
	return s.registry.Get(id)
}

// Schema returns a copy of a calculator's input fields.
func (s *CalculatorService) Schema(id string) ([]domain.Field, error) {
	return s.engine.GetCalculatorSchema(id)
}

// Categories returns every populated category with its label and size.
func (s *CalculatorService) Categories() []domain.CategoryInfo {
	return s.registry.Categories()
}

// Search finds calculators by keyword.
func (s *CalculatorService) Search(query string) []domain.CalculatorSummary {
	return summaries(s.registry.Search(query))
}

// Related returns calculators related to id.
func (s *CalculatorService) Related(id string) ([]domain.CalculatorSummary, error) {
	if !s.registry.Exists(id) {
		return nil, &domain.NotFoundError{ID: id}
	}
	return summaries(s.registry.Related(id)), nil
}

// ComputeFormula evaluates a named clinical formula.
func (s *CalculatorService) ComputeFormula(name string, params map[string]float64) (formulas.Result, error) {
	res, err := formulas.Compute(name, params)
	if err != nil {
		s.logger.WithError(err).WithField("formula", name).Debug("Formula rejected")
	}
	return res, err
}

// Verify checks every registered calculator's strategy against its range table.
func (s *CalculatorService) Verify() []error {
	return engine.Verify(s.registry.List(""))
}

func summaries(calcs []*domain.Calculator) []domain.CalculatorSummary {
	out := make([]domain.CalculatorSummary, 0, len(calcs))
	for _, c := range calcs {
		out = append(out, c.Summary())
	}
	return out
}

// HistoryEnabled reports whether a history store is configured.
func (s *CalculatorService) HistoryEnabled() bool {
	return s.history != nil
}

// History lists recorded evaluations and the total number matching the filter.
func (s *CalculatorService) History(ctx context.Context, filter history.Filter) ([]*history.Entry, int64, error) {
	if s.history == nil {
		return nil, 0, ErrHistoryDisabled
	}
	var entries []*history.Entry
	var total int64
	err := s.guard(func() error {
		var err error
		if entries, err = s.history.List(ctx, filter); err != nil {
			return err
		}
		total, err = s.history.Count(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}
	return entries, total, nil
}

// HistoryEntry returns one recorded evaluation.
func (s *CalculatorService) HistoryEntry(ctx context.Context, id string) (*history.Entry, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	var entry *history.Entry
	err := s.guard(func() error {
		var err error
		entry, err = s.history.Get(ctx, id)
		return err
	})
	return entry, err
}

// DeleteHistoryEntry removes one recorded evaluation.
func (s *CalculatorService) DeleteHistoryEntry(ctx context.Context, id string) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	err := s.guard(func() error { return s.history.Delete(ctx, id) })
	if err == nil {
		s.logger.WithField("entry_id", id).Info("History entry deleted")
	}
	return err
}

// Export formats accepted by ExportHistory.
const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// ExportHistory writes recorded evaluations to w and returns how many were written.
// JSON exports every entry; Parquet honours the filter.
func (s *CalculatorService) ExportHistory(ctx context.Context, format string, filter history.Filter, w io.Writer) (int, error) {
	if s.history == nil {
		return 0, ErrHistoryDisabled
	}
	var n int
	err := s.guard(func() error {
		switch format {
		case FormatJSON, "":
			total, err := s.history.Count(ctx, history.Filter{})
			if err != nil {
				return err
			}
			n = int(total)
			return s.history.ExportJSON(ctx, w)
		case FormatParquet:
			var err error
			n, err = history.ExportParquet(ctx, s.history, filter, w)
			return err
		default:
			return fmt.Errorf("unsupported export format %q", format)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("exporting history: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"format": format, "entries": n}).Info("History exported")
	return n, nil
}

// ImportHistory saves the entries of a JSON export read from r. Entries whose id is
// already recorded are skipped.
func (s *CalculatorService) ImportHistory(ctx context.Context, r io.Reader) (imported int, skipped int, err error) {
	if s.history == nil {
		return 0, 0, ErrHistoryDisabled
	}
	err = s.guard(func() error {
		var err error
		imported, skipped, err = s.history.ImportJSON(ctx, r)
		return err
	})
	if err != nil {
		return imported, skipped, fmt.Errorf("importing history: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"imported": imported, "skipped": skipped}).Info("History imported")
	return imported, skipped, nil
}

func (s *CalculatorService) guard(fn func() error) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}
	return err
}

// Close releases the cache and history store.
func (s *CalculatorService) Close() error {
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	return errors.Join(errs...)
}
