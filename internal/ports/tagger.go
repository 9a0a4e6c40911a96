// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"context"
	"errors"
)

// ErrTaggerUnavailable is returned by Tagger implementations when the external
// tagging tool cannot be found or executed at all. This is a whole-run
// precondition failure: the pipeline aborts before writing any output.
var ErrTaggerUnavailable = errors.New("tagging tool unavailable")

// Tagger extracts raw symbol occurrences from source files.
// The concrete implementation (universal-ctags subprocess) lives in
// internal/adapters/ctags. A missing or empty result for a file means
// "no symbols extracted" — never an error for the run.
type Tagger interface {
	// Tags runs the tagging tool over the given files (paths relative to root)
	// and returns the parsed records in emission order. Files that produce no
	// records are simply absent from the result.
	Tags(ctx context.Context, root string, files []string) ([]TagRecord, error)

	// Version reports the tool's version string. Implementations use this as
	// the availability probe: ErrTaggerUnavailable means the tool cannot run.
	Version(ctx context.Context) (string, error)
}

// Access is a symbol's declared access level. Unknown is rendered as nothing:
// most languages ctags handles don't report access at all.
type Access string

const (
	AccessUnknown   Access = ""
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
)

// TagRecord is one normalized symbol occurrence from the tagging tool.
// Records are validated at the parse boundary (internal/adapters/ctags):
// downstream code may assume Name and Path are non-empty and Line >= 1.
type TagRecord struct {
	Name      string
	Kind      string
	Path      string   // as reported by the tool, relative to the run root
	Line      int      // 1-based
	Scope     []string // enclosing scope names, outermost first; may be empty
	ScopeKind string   // kind of the innermost enclosing scope, if reported
	Access    Access
	Language  string
	Signature string
	Pattern   string // the tool's search pattern, stripped of /^...$/ framing
	TypeRef   string
}
