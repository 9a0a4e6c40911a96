// Package ignore resolves which files are in scope for the map. It combines
// .gitignore and .mapignore rules from every directory level with the tool's
// built-in baseline rules, using gitignore precedence: rules are evaluated
// root-most directory first, top-to-bottom within a file, and the last
// matching rule wins. A negated rule (! prefix) re-includes a path excluded
// by an earlier rule.
package ignore

import (
	"fmt"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Source identifies which kind of ignore file a rule came from. Within one
// directory, git rules are evaluated before map rules, so .mapignore wins
// ties at the same depth.
type Source string

const (
	SourceBaseline Source = "baseline" // built into the tool
	SourceGit      Source = ".gitignore"
	SourceMap      Source = ".mapignore"
	SourceExtra    Source = "extra" // caller-supplied patterns, highest precedence
)

// Rule is one compiled ignore pattern, anchored to the directory whose ignore
// file declared it. Matching is delegated to go-gitignore, which implements
// the gitignore glob dialect (*, **, ?, character classes, trailing / for
// directory-only, leading / for anchored).
type Rule struct {
	Pattern string // original line, including any ! prefix
	Negated bool
	DirOnly bool
	Source  Source
	Dir     string // rule anchor, relative to the repo root ("" = root)

	matcher *gitignore.GitIgnore
}

// CompileRule compiles a single ignore-file line. Returns an error for
// malformed patterns (unbalanced bracket expression); the caller skips the
// rule and records a diagnostic, so a bad pattern never matches anything.
func CompileRule(line string, source Source, dir string) (*Rule, error) {
	r := &Rule{Pattern: line, Source: source, Dir: dir}

	body := line
	if strings.HasPrefix(body, "!") {
		r.Negated = true
	}
	if strings.HasSuffix(body, "/") {
		r.DirOnly = true
	}
	if err := checkBrackets(strings.TrimPrefix(body, "!")); err != nil {
		return nil, err
	}

	r.matcher = gitignore.CompileIgnoreLines(line)
	return r, nil
}

// Matches reports whether the rule's pattern matches relPath, which must be
// relative to the rule's anchor directory. Negation does not affect the
// result; the resolver applies it. Directory-only rules never match files.
func (r *Rule) Matches(relPath string, isDir bool) bool {
	if r.DirOnly && !isDir {
		return false
	}
	p := relPath
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	// MatchesPathHow reports the matched pattern even for negated rules,
	// where the boolean result itself is always false.
	_, how := r.matcher.MatchesPathHow(p)
	return how != nil
}

// checkBrackets rejects patterns with an unterminated character class, which
// go-gitignore would otherwise drop silently.
func checkBrackets(pattern string) error {
	depth := 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++ // skip escaped char
		case '[':
			if depth == 0 {
				depth = 1
			}
		case ']':
			depth = 0
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced bracket expression in %q", pattern)
	}
	return nil
}
