package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/domain/ignore"
)

// SourceFile is one file selected for the map.
type SourceFile struct {
	Rel string // relative to the run root, slash-separated
	Abs string
}

// Discover walks the run root and returns the in-scope files: not hidden,
// not matched by the ignore stack. Symlinked directories are followed at
// most once per real path. The result is sorted by relative path.
func Discover(runRoot, repoRoot string, res *ignore.Resolver, sink *diag.Sink) ([]SourceFile, error) {
	absRun, err := filepath.Abs(runRoot)
	if err != nil {
		return nil, err
	}
	if _, err := os.ReadDir(absRun); err != nil {
		return nil, fmt.Errorf("root unreadable: %w", err)
	}

	seen := map[string]bool{}
	var files []SourceFile

	var walk func(dir string)
	walk = func(dir string) {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil || seen[real] {
			return
		}
		seen[real] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			sink.Warnf("discover", dir, "unreadable directory: %v", err)
			return
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			abs := filepath.Join(dir, name)

			info, err := os.Stat(abs) // resolves symlinks
			if err != nil {
				continue
			}

			repoRel, err := filepath.Rel(repoRoot, abs)
			if err != nil || strings.HasPrefix(repoRel, "..") {
				repoRel = "" // outside the repo: only baseline rules apply meaningfully
			}
			if repoRel != "" && res.IsIgnored(filepath.ToSlash(repoRel), info.IsDir()) {
				continue
			}

			if info.IsDir() {
				walk(abs)
				continue
			}
			rel, err := filepath.Rel(absRun, abs)
			if err != nil {
				continue
			}
			files = append(files, SourceFile{Rel: filepath.ToSlash(rel), Abs: abs})
		}
	}
	walk(absRun)

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

// FindPairs discovers interface/implementation pairs by filename convention:
// same base name, .mli next to .ml, same directory. Returns the pairing
// (interface path to implementation path) and the set of implementation
// files suppressed as standalone entries.
func FindPairs(files []SourceFile) (pairs map[string]string, suppressed map[string]bool) {
	pairs = map[string]string{}
	suppressed = map[string]bool{}

	byRel := make(map[string]bool, len(files))
	for _, f := range files {
		byRel[f.Rel] = true
	}
	for _, f := range files {
		if !strings.HasSuffix(f.Rel, ".mli") {
			continue
		}
		impl := strings.TrimSuffix(f.Rel, ".mli") + ".ml"
		if byRel[impl] {
			pairs[f.Rel] = impl
			suppressed[impl] = true
		}
	}
	return pairs, suppressed
}

// countLines reports the file's line count for the map's size annotation,
// -1 when the file can't be read.
func countLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1
	}
	if len(data) == 0 {
		return 0
	}
	n := strings.Count(string(data), "\n")
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
