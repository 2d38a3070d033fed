// Package registry holds the calculator catalogue of a process.
//
// A Registry is an explicit value: it is populated once during initialisation and
// then only read. Register checks each definition, including range coverage, and
// refuses duplicate ids.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// maxRelated caps the number of related calculators returned.
const maxRelated = 6

// Registry maps calculator ids to definitions.
type Registry struct {
	logger *logrus.Logger

	mu          sync.RWMutex
	calculators map[string]*domain.Calculator
	order       []string
	byCategory  map[domain.Category][]string
	index       map[string][]string
}

// New creates an empty registry.
func New(logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		logger:      logger,
		calculators: make(map[string]*domain.Calculator),
		byCategory:  make(map[domain.Category][]string),
		index:       make(map[string][]string),
	}
}

// Register adds a calculator. It fails on an invalid definition or an id that is
// already registered.
func (r *Registry) Register(calc *domain.Calculator) error {
	if calc == nil {
		return fmt.Errorf("%w: nil calculator", domain.ErrInvalidDefinition)
	}
	if err := calc.Validate(); err != nil {
		return fmt.Errorf("registering %s: %w", calc.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.calculators[calc.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCalculator, calc.ID)
	}

	r.calculators[calc.ID] = calc
	r.order = append(r.order, calc.ID)
	r.byCategory[calc.Category] = append(r.byCategory[calc.Category], calc.ID)
	r.indexCalculator(calc)

	r.logger.WithFields(logrus.Fields{
		"calculator_id": calc.ID,
		"category":      calc.Category,
		"fields":        len(calc.Fields),
	}).Debug("Registered calculator")
	return nil
}

// MustRegister registers calculators and panics on the first failure.
// It is intended for program initialisation with built-in definitions.
func (r *Registry) MustRegister(calcs ...*domain.Calculator) {
	for _, c := range calcs {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) indexCalculator(calc *domain.Calculator) {
	keywords := []string{
		strings.ToLower(calc.Name),
		strings.ToLower(calc.Abbreviation),
		string(calc.Category),
	}
	keywords = append(keywords, strings.Fields(strings.ToLower(calc.Description))...)
	for _, ind := range calc.Indications {
		keywords = append(keywords, strings.Fields(strings.ToLower(ind))...)
	}

	for _, kw := range keywords {
		if len(kw) < 2 {
			continue
		}
		if !contains(r.index[kw], calc.ID) {
			r.index[kw] = append(r.index[kw], calc.ID)
		}
	}
}

// Get returns the calculator with the given id or a *domain.NotFoundError.
func (r *Registry) Get(id string) (*domain.Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, ok := r.calculators[id]
	if !ok {
		return nil, &domain.NotFoundError{ID: id}
	}
	return calc, nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.calculators[id]
	return ok
}

// List returns calculators in registration order, filtered by category when one is given.
func (r *Registry) List(category domain.Category) []*domain.Calculator {
	if category != "" {
		return r.ListByCategory(category)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.order)
}

// ListByCategory returns the calculators of one category in registration order.
func (r *Registry) ListByCategory(category domain.Category) []*domain.Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.byCategory[category])
}

// Count returns the number of registered calculators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calculators)
}

// Categories returns every category that holds at least one calculator, in display order.
func (r *Registry) Categories() []domain.CategoryInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.CategoryInfo
	for _, cat := range domain.AllCategories {
		n := len(r.byCategory[cat])
		if n == 0 {
			continue
		}
		out = append(out, domain.CategoryInfo{Category: cat, Label: cat.Label(), Count: n})
	}
	return out
}

// Search matches the query against calculator ids, names, abbreviations, categories,
// description and indication words. Results are ranked by number of hits, then name.
func (r *Registry) Search(query string) []*domain.Calculator {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hits := make(map[string]int)
	if _, ok := r.calculators[q]; ok {
		hits[q] += 3
	}
	for _, word := range strings.Fields(q) {
		for _, id := range r.index[word] {
			hits[id] += 2
		}
		for kw, ids := range r.index {
			if kw == word {
				continue
			}
			if strings.HasPrefix(kw, word) || strings.HasPrefix(word, kw) {
				for _, id := range ids {
					hits[id]++
				}
			}
		}
	}
	for _, id := range r.order {
		c := r.calculators[id]
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Abbreviation), q) {
			hits[id] += 2
		}
	}

	ids := make([]string, 0, len(hits))
	for id := range hits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if hits[ids[i]] != hits[ids[j]] {
			return hits[ids[i]] > hits[ids[j]]
		}
		return r.calculators[ids[i]].Name < r.calculators[ids[j]].Name
	})
	return r.resolve(ids)
}

// Related returns the explicitly related calculators followed by others of the same
// category, at most six. Unknown ids yield nil.
func (r *Registry) Related(id string) []*domain.Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, ok := r.calculators[id]
	if !ok {
		return nil
	}

	var ids []string
	seen := map[string]bool{id: true}
	add := func(other string) {
		if seen[other] {
			return
		}
		if _, ok := r.calculators[other]; !ok {
			return
		}
		seen[other] = true
		ids = append(ids, other)
	}

	for _, rel := range calc.RelatedIDs {
		add(rel)
	}
	for _, other := range r.byCategory[calc.Category] {
		add(other)
	}

	if len(ids) > maxRelated {
		ids = ids[:maxRelated]
	}
	return r.resolve(ids)
}

func (r *Registry) resolve(ids []string) []*domain.Calculator {
	out := make([]*domain.Calculator, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.calculators[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
