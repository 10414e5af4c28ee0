package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print stats whenever the local store changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before recomputing",
			},
		},
		Action: runWatch,
	}
}

func runWatch(c *cli.Context) error {
	cfg := configFrom(c)
	if cfg.Store.Driver != config.DriverLocal {
		return errors.New("watch requires the local store driver")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	w, err := watch.New(cfg.Store.LocalPath, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to watch store: %w", err)
	}

	refresh := func() {
		report, err := st.service.Stats(ctx)
		if err != nil {
			slog.Error("failed to compute stats", "error", err)
			return
		}
		printStats(c.App.Writer, report)
		fmt.Fprintln(c.App.Writer)
	}

	refresh()
	slog.Info("watching local store", "path", cfg.Store.LocalPath)

	if err := w.Run(ctx, refresh); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	slog.Info("watch stopped")
	return nil
}
