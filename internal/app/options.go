// Package app wires the adapters and domain logic into the map generation
// pipeline: discover files, extract tag records, dispatch handlers, render.
package app

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/ports"
)

// Options is the complete configuration surface of one run. The CLI layer
// fills it in; the pipeline never reads configuration files or globals.
type Options struct {
	// Root is the directory to map. The repository root (found by walking up
	// for version-control metadata) may be above it; ignore files from the
	// whole repository apply.
	Root string

	// Output is the map file path, "-" for stdout. A relative path is
	// resolved against the repository root.
	Output string

	// ExtraIgnores are additional ignore patterns, appended after all
	// file-provided rules (they win ties).
	ExtraIgnores []string

	// DisabledHandlers lists handler names to leave out of the registry.
	DisabledHandlers []string

	// Concurrency bounds the tag extraction worker pool. Zero means
	// runtime.NumCPU().
	Concurrency int

	// CacheDB is the bbolt cache path; empty disables caching. Ignored when
	// Store is set.
	CacheDB string

	// Tagger overrides the default universal-ctags runner (tests).
	Tagger ports.Tagger

	// Store overrides the cache built from CacheDB (tests).
	Store ports.Storage

	// Stdout receives the rendered map when Output is "-". Defaults to
	// os.Stdout.
	Stdout io.Writer

	// Logger receives operational logging. Defaults to a discard logger;
	// user-facing problems go through the diagnostics sink instead.
	Logger *slog.Logger
}

func (o *Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.NumCPU()
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Result summarizes a completed run.
type Result struct {
	RepoRoot    string
	OutputPath  string // empty when the map went to stdout
	FileCount   int
	SymbolCount int
	Diagnostics *diag.Sink
}
