// @title			Taskflow API
// @version		1.0
// @description	Personal task manager: filtering, sorting, due-date labels and completion stats.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/handler"
	"github.com/mtlprog/taskflow/internal/logger"
	"github.com/mtlprog/taskflow/internal/middleware"
)

func main() {
	app := &cli.App{
		Name:  "taskflow",
		Usage: "Personal task manager",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultConfigFileName,
				Usage:   "Path to the TOML config file",
				EnvVars: []string{"TASKFLOW_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.FormatJSON,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "driver",
				Value:   config.DriverLocal,
				Usage:   "Store driver (local, postgres)",
				EnvVars: []string{"TASKFLOW_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL (postgres driver)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "local-path",
				Value:   config.DefaultLocalPath,
				Usage:   "SQLite database file (local driver)",
				EnvVars: []string{"TASKFLOW_LOCAL_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger.Setup(logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
			c.App.Metadata = map[string]interface{}{configKey: cfg}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "api-token",
						Usage:   "Bearer token required on /api/v1 (empty disables auth)",
						EnvVars: []string{"TASKFLOW_API_TOKEN"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Action: runMigrate,
			},
			listCommand(),
			addCommand(),
			completeCommand(),
			dueCommand(),
			{
				Name:      "delete",
				Usage:     "Delete a task",
				ArgsUsage: "<id>",
				Action:    runDelete,
			},
			{
				Name:   "clear-completed",
				Usage:  "Delete every completed task",
				Action: runClearCompleted,
			},
			{
				Name:   "stats",
				Usage:  "Print completion statistics",
				Action: runStats,
			},
			exportCommand(),
			watchCommand(),
			{
				Name:  "init-config",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: runInitConfig,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context
	cfg := configFrom(c)

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.String("port")
	}
	token := cfg.Server.APIToken
	if c.IsSet("api-token") {
		token = c.String("api-token")
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	auth := middleware.NewAuthMiddleware(token)
	if !auth.Enabled() {
		slog.Warn("api token not set, authentication disabled")
	}

	h := handler.New(st.service, auth, handler.WithLocation(time.Local))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port, "driver", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg := configFrom(c)
	cfg.Store.Seed = false

	st, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	st.Close()
	return nil
}

func runInitConfig(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}

	if err := config.Write(path, configFrom(c)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	slog.Info("config written", "path", path)
	return nil
}
