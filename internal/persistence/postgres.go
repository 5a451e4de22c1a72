package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/config"
)

// Postgres wraps access to a database/sql handle backed by the pgx driver.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres opens and pings a connection when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &Postgres{DB: nil}, nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleSec > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleSec) * time.Second)
	}
	if cfg.ConnMaxLifeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeSec) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{DB: db}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		_ = p.DB.Close()
	}
}

// Handle returns the underlying database handle.
func (p *Postgres) Handle() *sql.DB {
	if p == nil {
		return nil
	}
	return p.DB
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.DB == nil {
		return errors.New("postgres not configured")
	}
	return p.DB.PingContext(ctx)
}
