package cache

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Tiered reads from a fast local cache first and falls back to a shared one,
// back-filling the local tier on a shared hit.
type Tiered struct {
	local  domain.ResultCache
	shared domain.ResultCache
	logger *logrus.Logger
}

// NewTiered composes two caches. shared may be nil.
func NewTiered(local, shared domain.ResultCache, logger *logrus.Logger) *Tiered {
	if logger == nil {
		logger = logrus.New()
	}
	return &Tiered{local: local, shared: shared, logger: logger}
}

// Get implements domain.ResultCache.
func (t *Tiered) Get(ctx context.Context, key string) (*domain.CalculatorResult, bool) {
	if r, ok := t.local.Get(ctx, key); ok {
		return r, true
	}
	if t.shared == nil {
		return nil, false
	}
	r, ok := t.shared.Get(ctx, key)
	if !ok {
		return nil, false
	}
	if err := t.local.Set(ctx, key, r); err != nil {
		t.logger.WithError(err).Debug("Failed to back-fill local cache")
	}
	return r, true
}

// Set writes to both tiers. A shared-tier failure is logged and returned; the local
// tier is still written.
func (t *Tiered) Set(ctx context.Context, key string, result *domain.CalculatorResult) error {
	if err := t.local.Set(ctx, key, result); err != nil {
		return err
	}
	if t.shared == nil {
		return nil
	}
	if err := t.shared.Set(ctx, key, result); err != nil {
		t.logger.WithError(err).WithField("key", key).Warn("Shared cache write failed")
		return err
	}
	return nil
}

// Close closes both tiers.
func (t *Tiered) Close() error {
	var errs []error
	if err := t.local.Close(); err != nil {
		errs = append(errs, err)
	}
	if t.shared != nil {
		if err := t.shared.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
