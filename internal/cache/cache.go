// Package cache stores evaluation results keyed by calculator id and normalised inputs.
//
// Evaluation is deterministic, so a result computed once for a given input set can be
// served again until it expires. MemoryCache keeps results in process, RedisCache shares
// them between instances and Tiered layers the two.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

const keyPrefix = "calc:"

// Key returns the cache key of an evaluation. Input order does not matter.
func Key(calculatorID string, inputs domain.Inputs) string {
	var b strings.Builder
	b.WriteString(calculatorID)
	for _, k := range inputs.Keys() {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(inputs[k], 'g', -1, 64))
	}
	hash := sha256.Sum256([]byte(b.String()))
	return keyPrefix + calculatorID + ":" + hex.EncodeToString(hash[:16])
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) record(hit bool) {
	if hit {
		c.hits.Add(1)
		return
	}
	c.misses.Add(1)
}
