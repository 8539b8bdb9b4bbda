package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sesheta/internal/config"
	"sesheta/internal/logger"
	"sesheta/pkg/retry"
)

type DatabaseConnector struct {
	Config *config.Config
	Logger logger.Logger
}

func NewDatabaseConnector(cfg *config.Config, log logger.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Config: cfg,
		Logger: log,
	}
}

// InitPostgreSQL connects the interaction ledger. A missing host means the
// ledger is disabled for this deployment and (nil, nil) is returned.
func (dc *DatabaseConnector) InitPostgreSQL(ctx context.Context) (*sql.DB, error) {
	pg := dc.Config.Ledger.Postgres
	if pg.Host == "" {
		return nil, nil
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		pg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The database often comes up a moment after the bot in fresh
	// deployments, so the first ping is retried for a short while.
	pingPolicy := retry.Policy{
		MaxAttempts:     5,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
	err = retry.Retry(ctx, pingPolicy, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dc.Logger.Info("PostgreSQL connected successfully")
	return db, nil
}

func (dc *DatabaseConnector) ShutdownDatabases(ctx context.Context, postgres *sql.DB) []error {
	var errs []error

	if postgres != nil {
		if err := postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close error: %w", err))
		}
	}

	return errs
}
