package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	fsw "github.com/vphantom/repomapper/internal/adapters/fsnotify"
	"github.com/vphantom/repomapper/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Regenerate the map on file changes",
	Long:  "Generates the map, then watches the tree and regenerates after each change. Stop with Ctrl-C.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := targetDir(args)
	opts := buildOptions(dir)
	if opts.Output == "-" {
		return fmt.Errorf("watch mode needs a file output, not stdout")
	}

	regenerate := func(trigger string) {
		result, err := app.Run(cmd.Context(), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		if trigger != "" {
			fmt.Fprintf(os.Stderr, "%s changed — ", trigger)
		}
		fmt.Fprintf(os.Stderr, "map updated (%d files, %d symbols)\n",
			result.FileCount, result.SymbolCount)
	}
	regenerate("")

	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Stop()

	// Regenerations are serialized: events during a run coalesce into one
	// follow-up run.
	var mu sync.Mutex
	pending := false
	if err := w.Watch(dir, func(path string) {
		mu.Lock()
		if pending {
			mu.Unlock()
			return
		}
		pending = true
		mu.Unlock()

		regenerate(path)

		mu.Lock()
		pending = false
		mu.Unlock()
	}); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
