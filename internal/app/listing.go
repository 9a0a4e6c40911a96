package app

import (
	"io/fs"
	"path/filepath"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/domain/ignore"
)

// Listing is the result of a dry run: which files would be mapped, and —
// when requested — which were excluded, for debugging ignore rules.
type Listing struct {
	RepoRoot    string
	Included    []SourceFile
	Excluded    []string // relative paths, only filled when withExcluded
	Diagnostics *diag.Sink
}

// ListFiles resolves scope exactly as Run does but stops before tag
// extraction.
func ListFiles(opts Options, withExcluded bool) (*Listing, error) {
	sink := diag.New()

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	repoRoot := ignore.FindRoot(absRoot)

	res, err := ignore.NewResolver(repoRoot, opts.Output, opts.ExtraIgnores, sink)
	if err != nil {
		return nil, err
	}
	included, err := Discover(absRoot, repoRoot, res, sink)
	if err != nil {
		return nil, err
	}

	l := &Listing{RepoRoot: repoRoot, Included: included, Diagnostics: sink}
	if !withExcluded {
		return l, nil
	}

	inSet := make(map[string]bool, len(included))
	for _, f := range included {
		inSet[f.Rel] = true
	}
	_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !inSet[rel] {
			l.Excluded = append(l.Excluded, rel)
		}
		return nil
	})
	return l, nil
}
