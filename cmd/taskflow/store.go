package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/database"
	"github.com/mtlprog/taskflow/internal/localstore"
	"github.com/mtlprog/taskflow/internal/repository"
	"github.com/mtlprog/taskflow/internal/service"
)

const configKey = "config"

// loadConfig reads the config file and applies the global flags that were set explicitly.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	if c.IsSet("driver") {
		cfg.Store.Driver = c.String("driver")
	}
	if c.IsSet("database-url") {
		cfg.Store.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("local-path") {
		cfg.Store.LocalPath = c.String("local-path")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func configFrom(c *cli.Context) config.Config {
	if cfg, ok := c.App.Metadata[configKey].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// store is an opened backend with the service built on it.
type store struct {
	service *service.TaskService
	close   func()
}

func (s *store) Close() {
	s.close()
}

// openStore connects to the configured backend and applies pending migrations.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Store)
	default:
		return openLocal(ctx, cfg.Store)
	}
}

func openLocal(ctx context.Context, cfg config.Store) (*store, error) {
	db, err := database.OpenSQLite(ctx, cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := database.RunSQLiteMigrations(ctx, db); err != nil {
		closeSQLite(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	ls := localstore.New(db)
	if cfg.Seed {
		seeded, err := ls.Seed(ctx)
		if err != nil {
			closeSQLite(db)
			return nil, fmt.Errorf("failed to seed local store: %w", err)
		}
		if seeded {
			slog.Info("local store seeded with sample data", "path", cfg.LocalPath)
		}
	}

	return &store{
		service: service.NewTaskService(ls, ls),
		close:   func() { closeSQLite(db) },
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Store) (*store, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required for the %s driver", config.DriverPostgres)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tasks := repository.NewTaskRepository(db.Pool())
	categories := repository.NewCategoryRepository(db.Pool())

	return &store{
		service: service.NewTaskService(tasks, categories),
		close:   db.Close,
	}, nil
}

func closeSQLite(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("failed to close local store", "error", err)
	}
}
