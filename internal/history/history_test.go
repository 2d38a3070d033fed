package history

import (
	"time"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleResult(calculatorID string, score float64, at time.Time) *domain.CalculatorResult {
	return &domain.CalculatorResult{
		CalculatorID:   calculatorID,
		CalculatorName: "Score " + calculatorID,
		Inputs:         domain.Inputs{"a": 1, "b": 0},
		Score:          score,
		Interpretation: domain.Interpretation{
			Score:          score,
			ScoreDisplay:   "1",
			Category:       "Low Risk",
			Risk:           domain.RiskLow,
			Mortality:      "0.6% 30-day mortality",
			Recommendation: "Outpatient treatment",
			Notes:          []string{"Reassess in 48 hours"},
			Range:          &domain.ScoreRange{Min: 0, Max: 1},
		},
		Timestamp: at,
	}
}
