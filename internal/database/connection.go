package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

const (
	defaultMaxConns    = 10
	defaultMaxConnIdle = 30 * time.Minute
)

// URL renders the database settings as a postgres:// URL for pgx, migrate and lib/pq.
func URL(c domain.DatabaseConfig) string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// PoolConfig builds the pgx pool settings for c. A zero MaxOpenConns uses the default
// of ten; idle connections never exceed the pool size.
func PoolConfig(c domain.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(URL(c))
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	maxConns := int32(c.MaxOpenConns)
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = min(int32(c.MaxIdleConns), maxConns)
	if c.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = c.ConnMaxLifetime
	}
	poolConfig.MaxConnIdleTime = defaultMaxConnIdle
	return poolConfig, nil
}

// DB holds the evaluation history connection pool.
type DB struct {
	Pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewConnection opens and pings a connection pool for the history database.
func NewConnection(ctx context.Context, c domain.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	poolConfig, err := PoolConfig(c)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":      c.Host,
		"port":      c.Port,
		"database":  c.Database,
		"max_conns": poolConfig.MaxConns,
		"min_conns": poolConfig.MinConns,
	}).Info("History database pool established")

	return &DB{Pool: pool, log: logger}, nil
}

// Close closes the pool.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		db.log.Info("History database pool closed")
	}
}

// Health pings the database; it backs the API health check.
func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Stats returns pool statistics.
func (db *DB) Stats() *pgxpool.Stat {
	return db.Pool.Stat()
}
