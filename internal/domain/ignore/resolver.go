package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vphantom/repomapper/internal/diag"
)

// baselinePatterns are always ignored, evaluated before any file-provided
// rule. Version-control metadata plus the tool's own state directory.
var baselinePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	".repomapper/",
}

// FindRoot locates the repository root by walking up from start looking for a
// .git entry (directory, or file in the worktree/submodule case). If none is
// found, start itself is the root and only ignore files under it apply.
func FindRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for cur := dir; ; {
		if _, err := os.Lstat(filepath.Join(cur, ".git")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// Resolver answers IsIgnored for paths relative to the repository root. It
// holds the full ordered rule stack for one run: baseline rules, then every
// .gitignore and .mapignore found from the root down, then caller-supplied
// extra patterns.
type Resolver struct {
	Root  string
	rules []*Rule
}

// ignoreFiles lists the recognized ignore-file kinds in evaluation order
// within one directory: git rules first, map rules second, so .mapignore
// wins when both speak to the same path at the same depth.
var ignoreFiles = []struct {
	name   string
	source Source
}{
	{".gitignore", SourceGit},
	{".mapignore", SourceMap},
}

// NewResolver builds the rule stack for root. outputName (the map file's own
// name) and extras become rules anchored at the root; outputName and its
// backup join the baseline so the tool never maps its own output. Malformed
// rules are skipped with a warning.
func NewResolver(root, outputName string, extras []string, sink *diag.Sink) (*Resolver, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if _, err := os.ReadDir(absRoot); err != nil {
		return nil, fmt.Errorf("repository root unreadable: %w", err)
	}

	r := &Resolver{Root: absRoot}

	baseline := append([]string{}, baselinePatterns...)
	if outputName != "" && outputName != "-" {
		base := filepath.Base(outputName)
		baseline = append(baseline, base, base+"~")
	}
	r.compileInto(baseline, SourceBaseline, "", sink)

	for _, dir := range r.ignoreFileDirs(absRoot) {
		rel, err := filepath.Rel(absRoot, dir)
		if err != nil {
			continue
		}
		if rel == "." {
			rel = ""
		}
		for _, kind := range ignoreFiles {
			lines, err := readIgnoreFile(filepath.Join(dir, kind.name))
			if err != nil {
				continue
			}
			r.compileInto(lines, kind.source, filepath.ToSlash(rel), sink)
		}
	}

	r.compileInto(extras, SourceExtra, "", sink)
	return r, nil
}

// compileInto compiles lines and appends the valid rules to the stack.
func (r *Resolver) compileInto(lines []string, source Source, dir string, sink *diag.Sink) {
	for _, line := range lines {
		rule, err := CompileRule(line, source, dir)
		if err != nil {
			if sink != nil {
				sink.Warnf("ignore", string(source), "skipping rule: %v", err)
			}
			continue
		}
		r.rules = append(r.rules, rule)
	}
}

// ignoreFileDirs walks root and returns every directory that may hold ignore
// files, ordered root-most first (then lexically, for stable rule order).
// Symlinked directories are visited at most once per real path.
func (r *Resolver) ignoreFileDirs(root string) []string {
	seen := map[string]bool{}
	var dirs []string

	var walk func(dir string)
	walk = func(dir string) {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil || seen[real] {
			return
		}
		seen[real] = true
		dirs = append(dirs, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
				continue
			}
			name := e.Name()
			if name == ".git" || name == ".hg" || name == ".svn" || name == ".repomapper" {
				continue
			}
			sub := filepath.Join(dir, name)
			if info, err := os.Stat(sub); err != nil || !info.IsDir() {
				continue
			}
			walk(sub)
		}
	}
	walk(root)

	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], string(filepath.Separator)), strings.Count(dirs[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return dirs[i] < dirs[j]
	})
	return dirs
}

// IsIgnored decides inclusion for a path relative to the repository root
// (slash-separated). The last rule in the stack whose pattern matches wins:
// a plain match ignores the path, a negated match re-includes it. No match
// means not ignored.
func (r *Resolver) IsIgnored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	ignored := false
	for _, rule := range r.rules {
		sub := relPath
		if rule.Dir != "" {
			if !strings.HasPrefix(relPath, rule.Dir+"/") {
				continue
			}
			sub = relPath[len(rule.Dir)+1:]
		}
		if rule.Matches(sub, isDir) {
			ignored = !rule.Negated
		}
	}
	return ignored
}

// Rules exposes the compiled stack in evaluation order, for debugging output.
func (r *Resolver) Rules() []*Rule {
	return r.rules
}

// readIgnoreFile parses one ignore file into its pattern lines. Blank lines
// and comment lines are dropped; trailing whitespace is trimmed per the
// gitignore convention.
func readIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
