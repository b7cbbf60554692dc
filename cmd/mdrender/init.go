package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdrender/pkg/config"
	"github.com/goliatone/go-mdrender/pkg/orchestrator"
	"github.com/goliatone/go-mdrender/pkg/prompt"
)

var (
	forceInit bool

	// promptDriver is swapped in tests.
	promptDriver prompt.Driver = prompt.NewSurveyDriver()
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + config.DefaultFile + " interactively",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultFile
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// Parse, not Load: paths stay relative to the file they are saved back to.
	base := config.Default()
	if data, err := os.ReadFile(path); err == nil {
		if existing, err := config.Parse(data, path, config.WithLogger(logger)); err == nil {
			base = existing
		}
	}

	cfg, err := prompt.Interview(commandContext(cmd), promptDriver, base, backendChoices())
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// backendChoices lists the registered backends with the default first.
func backendChoices() []string {
	choices := []string{orchestrator.DefaultBackend}
	for _, name := range orchestrator.DefaultRegistry().List() {
		if name != orchestrator.DefaultBackend {
			choices = append(choices, name)
		}
	}
	return choices
}
