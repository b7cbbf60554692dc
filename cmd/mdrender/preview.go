package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mdrender/pkg/document"
	"github.com/goliatone/go-mdrender/pkg/render"
	"github.com/goliatone/go-mdrender/pkg/renderers/terminal"
)

var (
	previewStyle string
	previewWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a markdown file to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewStyle, "style", "auto", "glamour style (auto, dark, light, notty, ...)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "Word wrap column")
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	_, body, err := document.SplitFrontMatter(data)
	if err != nil {
		return fmt.Errorf("preview: %s: %w", args[0], err)
	}

	renderer := terminal.New(terminal.WithStyle(previewStyle), terminal.WithWordWrap(previewWidth))
	out, err := renderer.Render(commandContext(cmd), string(body), render.EngineOptions{}, render.Context{
		Path: args[0],
		Key:  []string{render.ContentsKey},
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
