package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vphantom/repomapper/internal/adapters/ctags"
	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/domain/ignore"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows repository root, output path, cache path, and ctags availability.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	dir := workingDir()
	repoRoot := ignore.FindRoot(dir)
	opts := buildOptions(dir)

	output := opts.Output
	if output != "-" && !filepath.IsAbs(output) {
		output = filepath.Join(repoRoot, output)
	}
	cache := opts.CacheDB
	if cache == "" {
		cache = "(disabled)"
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	ctagsStatus := "not found"
	if v, err := ctags.NewRunner(diag.New()).Version(ctx); err == nil {
		ctagsStatus = v
	}

	fmt.Println("repomapper config")
	fmt.Printf("  Repo root:  %s\n", repoRoot)
	fmt.Printf("  Output:     %s\n", output)
	fmt.Printf("  Cache:      %s\n", cache)
	fmt.Printf("  ctags:      %s\n", ctagsStatus)
	return nil
}
