package main

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mdrender "github.com/goliatone/go-mdrender"
	"github.com/goliatone/go-mdrender/pkg/config"
	"github.com/goliatone/go-mdrender/pkg/orchestrator"
)

var (
	sourceDir string
	destDir   string
	clean     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the source directory into the destination directory",
	RunE:  runBuild,
}

func init() {
	for _, cmd := range []*cobra.Command{buildCmd, watchCmd} {
		cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Source directory (overrides config)")
		cmd.Flags().StringVarP(&destDir, "dest", "d", "", "Destination directory (overrides config)")
		cmd.Flags().BoolVar(&clean, "clean", false, "Remove the destination before writing")
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	files, err := build(commandContext(cmd), cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d file(s) to %s\n", len(files), cfg.Destination)
	return nil
}

func buildConfig() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if sourceDir != "" {
		cfg.Source = sourceDir
	}
	if destDir != "" {
		cfg.Destination = destDir
	}
	if clean {
		cfg.Clean = true
	}
	return cfg, nil
}

func build(ctx context.Context, cfg config.Config) (mdrender.Collection, error) {
	if logger.Core().Enabled(zapcore.DebugLevel) {
		logger.Debug("running with options", zap.String("options", spew.Sdump(cfg)))
	}
	return mdrender.Build(ctx, cfg, orchestrator.WithLogger(logger))
}
