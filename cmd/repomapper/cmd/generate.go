package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vphantom/repomapper/internal/app"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate the symbol map",
	Long:  "Scans the directory, extracts symbols with universal-ctags, and writes the map file.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir := targetDir(args)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	result, err := app.Run(cmd.Context(), buildOptions(dir))
	if err != nil {
		return err
	}

	if result.OutputPath != "" {
		fmt.Fprintf(os.Stderr, "Created/updated: %s (%d files, %d symbols)\n",
			result.OutputPath, result.FileCount, result.SymbolCount)
	}
	result.Diagnostics.Summary(os.Stderr)
	return nil
}

// newStderrLogger builds the slog logger used with --verbose.
func newStderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
