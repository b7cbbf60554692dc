package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-mdrender/internal/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build, then rebuild whenever the source directory changes",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period before rebuilding")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := build(ctx, cfg); err != nil {
		logger.Error("initial build failed", zap.Error(err))
	}

	w, err := watch.New(cfg.Source, func(ctx context.Context, paths []string) error {
		logger.Info("rebuilding", zap.Int("changes", len(paths)))
		files, err := build(ctx, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d file(s) to %s\n", len(files), cfg.Destination)
		return nil
	}, watch.WithDebounce(debounce), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
