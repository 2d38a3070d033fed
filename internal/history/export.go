package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Lister is the part of a store that export needs.
type Lister interface {
	List(ctx context.Context, filter Filter) ([]*Entry, error)
}

// WriteExport writes every entry of s as an Export document.
func WriteExport(ctx context.Context, s Lister, writer io.Writer) error {
	all, err := s.List(ctx, Filter{Limit: maxExportLimit})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	export := &Export{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Entries:    all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ReadImport saves the entries of an Export document into s, skipping ids that exist.
func ReadImport(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, e := range export.Entries {
		if e == nil || e.CalculatorID == "" {
			skipped++
			continue
		}
		if e.ID != "" {
			_, err := s.Get(ctx, e.ID)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
			}
		}

		if err := s.Save(ctx, e); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}
