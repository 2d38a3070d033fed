package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// UsageStats summarises recorded evaluations of one calculator.
type UsageStats struct {
	CalculatorID    string    `json:"calculator_id"`
	Evaluations     int64     `json:"evaluations"`
	MeanScore       float64   `json:"mean_score"`
	MinScore        float64   `json:"min_score"`
	MaxScore        float64   `json:"max_score"`
	Escalations     int64     `json:"escalations"`
	LastEvaluatedAt time.Time `json:"last_evaluated_at"`
}

// EscalationRate is the share of evaluations that landed in a high-risk band.
func (u UsageStats) EscalationRate() float64 {
	if u.Evaluations == 0 {
		return 0
	}
	return float64(u.Escalations) / float64(u.Evaluations)
}

// UsageRepository reads the calculator_usage view
type UsageRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *pgxpool.Pool, logger *logrus.Logger) *UsageRepository {
	return &UsageRepository{db: db, log: logger}
}

const usageColumns = `calculator_id, evaluations, mean_score, min_score, max_score,
	escalations, last_evaluated_at`

func scanUsage(row pgx.Row) (UsageStats, error) {
	var u UsageStats
	err := row.Scan(&u.CalculatorID, &u.Evaluations, &u.MeanScore, &u.MinScore, &u.MaxScore,
		&u.Escalations, &u.LastEvaluatedAt)
	u.LastEvaluatedAt = u.LastEvaluatedAt.UTC()
	return u, err
}

// All returns usage for every calculator with at least one evaluation, most used first.
func (r *UsageRepository) All(ctx context.Context) ([]UsageStats, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+usageColumns+" FROM calculator_usage ORDER BY evaluations DESC, calculator_id")
	if err != nil {
		r.log.WithError(err).Error("Failed to query calculator usage")
		return nil, fmt.Errorf("querying calculator usage: %w", err)
	}
	defer rows.Close()

	var out []UsageStats
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning calculator usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ForCalculator returns usage of one calculator. A calculator that was never
// evaluated yields an error wrapping domain.ErrNotFound.
func (r *UsageRepository) ForCalculator(ctx context.Context, calculatorID string) (UsageStats, error) {
	u, err := scanUsage(r.db.QueryRow(ctx,
		"SELECT "+usageColumns+" FROM calculator_usage WHERE calculator_id = $1", calculatorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return UsageStats{}, fmt.Errorf("usage for %s: %w", calculatorID, domain.ErrNotFound)
	}
	if err != nil {
		return UsageStats{}, fmt.Errorf("querying usage for %s: %w", calculatorID, err)
	}
	return u, nil
}
