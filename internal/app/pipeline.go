package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vphantom/repomapper/internal/adapters/bbolt"
	"github.com/vphantom/repomapper/internal/adapters/ctags"
	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/domain/handlers"
	"github.com/vphantom/repomapper/internal/domain/ignore"
	"github.com/vphantom/repomapper/internal/domain/mapdoc"
	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// Run executes the whole pipeline. It either completes and writes the map,
// or fails before writing anything — a partial map is never emitted.
// Per-file problems become diagnostics on the returned Result; only
// whole-run precondition failures (root unreadable, tagging tool missing,
// output unwritable) return an error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	sink := diag.New()
	log := opts.logger()

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	repoRoot := ignore.FindRoot(absRoot)
	log.Debug("run start", "root", absRoot, "repo_root", repoRoot)

	tagger := opts.Tagger
	if tagger == nil {
		tagger = ctags.NewRunner(sink)
	}
	if _, err := tagger.Version(ctx); err != nil {
		return nil, err
	}

	outputName := opts.Output
	res, err := ignore.NewResolver(repoRoot, outputName, opts.ExtraIgnores, sink)
	if err != nil {
		return nil, err
	}

	files, err := Discover(absRoot, repoRoot, res, sink)
	if err != nil {
		return nil, err
	}

	store := opts.Store
	if store == nil && opts.CacheDB != "" {
		if err := os.MkdirAll(filepath.Dir(opts.CacheDB), 0755); err == nil {
			if s, err := bbolt.NewStore(opts.CacheDB); err == nil {
				store = s
				defer s.Close()
			} else {
				sink.Warnf("cache", opts.CacheDB, "cache unavailable, re-tagging everything: %v", err)
			}
		}
	}

	records, err := extract(ctx, tagger, store, absRoot, files, opts.concurrency(), sink)
	if err != nil {
		return nil, err
	}

	doc := assemble(absRoot, files, records, opts.DisabledHandlers, sink)

	result := &Result{
		RepoRoot:    repoRoot,
		FileCount:   len(doc.Entries),
		Diagnostics: sink,
	}
	for _, e := range doc.Entries {
		result.SymbolCount += symbols.Count(e.Forest)
	}

	if opts.Output == "-" {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		if err := mapdoc.Render(w, doc); err != nil {
			return nil, fmt.Errorf("write map: %w", err)
		}
		return result, nil
	}

	outPath := opts.Output
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(repoRoot, outPath)
	}
	if err := writeAtomic(outPath, doc); err != nil {
		return nil, err
	}
	result.OutputPath = outPath
	log.Debug("run done", "files", result.FileCount, "symbols", result.SymbolCount)
	return result, nil
}

// extract runs the tag extraction worker pool: one result slot per file,
// written exactly once. Unchanged files (by content hash) are served from
// the cache. A file the tagger fails on yields no symbols and a diagnostic;
// only context cancellation aborts the run.
func extract(ctx context.Context, tagger ports.Tagger, store ports.Storage, root string, files []SourceFile, workers int, sink *diag.Sink) (map[string][]ports.TagRecord, error) {
	slots := make([][]ports.TagRecord, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = extractOne(ctx, tagger, store, root, files[i], sink)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction canceled: %w", err)
	}

	// ctags orders its output by tag name; handlers need file-internal order,
	// so regroup with the records sorted ascending by line.
	var all []ports.TagRecord
	for i := range slots {
		all = append(all, slots[i]...)
	}
	return ctags.GroupByFile(all), nil
}

func extractOne(ctx context.Context, tagger ports.Tagger, store ports.Storage, root string, f SourceFile, sink *diag.Sink) []ports.TagRecord {
	hash := hashFile(f.Abs)
	if store != nil && hash != "" {
		if recs, ok, err := store.LoadRecords(f.Rel, hash); err == nil && ok {
			return recs
		}
	}

	recs, err := tagger.Tags(ctx, root, []string{f.Rel})
	if err != nil {
		if ctx.Err() == nil {
			sink.Warnf("ctags", f.Rel, "no symbols extracted: %v", err)
		}
		return nil
	}

	// The tool reports paths as given; normalize so grouping and pairing
	// agree on the key.
	kept := recs[:0]
	for _, rec := range recs {
		rec.Path = filepath.ToSlash(rec.Path)
		kept = append(kept, rec)
	}

	if store != nil && hash != "" {
		if err := store.SaveRecords(f.Rel, hash, kept); err != nil {
			sink.Infof("cache", f.Rel, "cache write failed: %v", err)
		}
	}
	return kept
}

// assemble dispatches handlers per file (or file pair) and builds the sorted
// document. Files no handler claims stay in the map with an empty forest.
func assemble(root string, files []SourceFile, records map[string][]ports.TagRecord, disabled []string, sink *diag.Sink) *mapdoc.Document {
	registry := handlers.NewRegistry(disabled)
	pairs, suppressed := FindPairs(files)

	doc := &mapdoc.Document{Root: root}
	for _, f := range files {
		if suppressed[f.Rel] {
			continue
		}

		recs := records[f.Rel]
		fc := handlers.FileContext{Path: f.Rel, Abs: f.Abs}
		if len(recs) > 0 {
			fc.Language = recs[0].Language
		}
		if impl, ok := pairs[f.Rel]; ok {
			fc.PairedPath = impl
			fc.PairedAbs = filepath.Join(root, filepath.FromSlash(impl))
			recs = append(append([]ports.TagRecord{}, recs...), records[impl]...)
		}

		entry := &mapdoc.FileEntry{
			Path:       f.Rel,
			Language:   fc.Language,
			LineCount:  countLines(f.Abs),
			PairedPath: fc.PairedPath,
		}

		h := registry.For(fc)
		switch {
		case h == nil:
			sink.Infof("handlers", f.Rel, "no handler, listed without symbols")
		default:
			entry.Handler = h.Name()
			forest, err := h.BuildSymbols(fc, recs)
			if err != nil {
				sink.Warnf("handlers", f.Rel, "%s handler failed, flat listing: %v", h.Name(), err)
				forest = handlers.Flatten(recs)
			}
			entry.Forest = forest
		}
		doc.Entries = append(doc.Entries, entry)
	}

	doc.Sort()
	return doc
}

// writeAtomic renders to a temp file in the destination directory, keeps the
// previous map as a ~ backup, and renames into place. Reruns on an unchanged
// tree produce byte-identical files.
func writeAtomic(outPath string, doc *mapdoc.Document) error {
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".repomapper-*")
	if err != nil {
		return fmt.Errorf("output path unwritable: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := mapdoc.Render(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write map: %w", err)
	}

	if _, err := os.Stat(outPath); err == nil {
		backup := outPath + "~"
		os.Remove(backup)
		if err := os.Rename(outPath, backup); err != nil {
			return fmt.Errorf("backup previous map: %w", err)
		}
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("move map into place: %w", err)
	}
	return nil
}

// hashFile returns the hex SHA-256 of the file's content, "" if unreadable.
func hashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
