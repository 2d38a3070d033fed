package domain

import (
	"context"
)

// CalculatorCatalog resolves calculator definitions. The registry implements it.
type CalculatorCatalog interface {
	Get(id string) (*Calculator, error)
	List(category Category) []*Calculator
}

// Evaluator runs the validate, score and interpret pipeline.
type Evaluator interface {
	Evaluate(calculatorID string, inputs Inputs) (*CalculatorResult, error)
	ListCalculators(category Category) []CalculatorSummary
	GetCalculatorSchema(calculatorID string) ([]Field, error)
}

// ResultCache stores evaluation results keyed by calculator id and normalised inputs.
type ResultCache interface {
	Get(ctx context.Context, key string) (*CalculatorResult, bool)
	Set(ctx context.Context, key string, result *CalculatorResult) error
	Close() error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
