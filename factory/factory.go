// Package factory assembles synchronization engines from configuration.
package factory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/OpenWRLD/mixer"
	"github.com/OpenWRLD/mixer/internal"
)

// NewModelWithConfig loads the host object model named by the configuration.
// A file path takes precedence; otherwise the model is read from the
// configured database table and pool must not be nil.
//
// Usage:
//
//	config := mixer.DefaultConfig()
//	config.Model.Path = "model.json"
//	model, err := factory.NewModelWithConfig(config, nil)
func NewModelWithConfig(config *mixer.Config, pool *pgxpool.Pool) (*internal.Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Model.Path != "" {
		return internal.LoadModel(config.Model.Path)
	}

	if pool == nil {
		return nil, fmt.Errorf("a database pool is required to load the model from table %s", config.Model.Table)
	}
	loader := internal.NewModelLoader(pool, config.Model.Table, config.Model.RootType)

	ctx := context.Background()
	if config.Database.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Database.Timeout)
		defer cancel()
	}
	return loader.Load(ctx)
}

// NewTestPropertiesWithConfig loads the configured model and wraps it in the
// permissive default configuration.
func NewTestPropertiesWithConfig(config *mixer.Config, pool *pgxpool.Pool) (*mixer.SynchronizedProperties, error) {
	model, err := NewModelWithConfig(config, pool)
	if err != nil {
		return nil, err
	}
	return mixer.TestProperties(model), nil
}

// NewSafePropertiesWithConfig loads the configured model and wraps it in the
// conservative allow-list configuration.
func NewSafePropertiesWithConfig(config *mixer.Config, pool *pgxpool.Pool) (*mixer.SynchronizedProperties, error) {
	model, err := NewModelWithConfig(config, pool)
	if err != nil {
		return nil, err
	}
	return mixer.SafeProperties(model), nil
}

// NewDatabasePool creates a PostgreSQL connection pool from the database
// configuration.
func NewDatabasePool(config *mixer.Config) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.Database.Username,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database,
		config.Database.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(config.Database.MaxConnections)
	poolConfig.MaxConnLifetime = config.Database.ConnMaxLifetime
	poolConfig.ConnConfig.ConnectTimeout = config.Database.Timeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return pool, nil
}
