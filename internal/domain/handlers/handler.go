// Package handlers turns per-file tag records into symbol forests. Each
// language gets a strategy behind one capability interface; a registry tries
// them in a fixed priority order and falls back to the generic tag-based
// handler. Files no handler claims still appear in the map with an empty
// forest.
package handlers

import (
	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// FileContext carries what a handler needs to know about one file. For
// paired-file languages, PairedPath/PairedAbs reference the companion
// implementation file when it exists on disk.
type FileContext struct {
	Path     string // relative to the run root
	Abs      string // absolute path, for handlers that read the file directly
	Language string // as classified by the tagging tool, may be empty

	PairedPath string
	PairedAbs  string
}

// Handler converts raw tag records into a hierarchical symbol forest.
type Handler interface {
	// Name identifies the handler for diagnostics and the disable list.
	Name() string

	// CanHandle reports whether this handler is responsible for the file.
	CanHandle(fc FileContext) bool

	// BuildSymbols builds the forest from the file's records. For paired
	// files, recs contains both files' records; the handler splits them by
	// record path. An error triggers the flat-listing fallback upstream —
	// the file is never dropped from the map.
	BuildSymbols(fc FileContext, recs []ports.TagRecord) ([]*symbols.Node, error)
}

// Registry holds the handler priority list: most specific first, generic
// fallback last.
type Registry struct {
	handlers []Handler
}

// NewRegistry builds the default priority list, omitting any handler whose
// name appears in disabled.
func NewRegistry(disabled []string) *Registry {
	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		off[name] = true
	}
	all := []Handler{
		&OCamlHandler{},
		&ShellHandler{},
		&MarkdownHandler{},
		&GenericHandler{},
	}
	r := &Registry{}
	for _, h := range all {
		if !off[h.Name()] {
			r.handlers = append(r.handlers, h)
		}
	}
	return r
}

// For returns the first handler claiming the file, or nil when none does.
func (r *Registry) For(fc FileContext) Handler {
	for _, h := range r.handlers {
		if h.CanHandle(fc) {
			return h
		}
	}
	return nil
}

// Names lists the registered handlers in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for _, h := range r.handlers {
		names = append(names, h.Name())
	}
	return names
}

// Flatten is the error fallback: every record becomes a root-level node in
// source order, with no nesting.
func Flatten(recs []ports.TagRecord) []*symbols.Node {
	forest := make([]*symbols.Node, 0, len(recs))
	for _, rec := range recs {
		sig := rec.Signature
		if sig == "" {
			sig = rec.Pattern
		}
		forest = append(forest, &symbols.Node{
			Name:      rec.Name,
			Kind:      rec.Kind,
			Access:    rec.Access,
			Line:      rec.Line,
			Signature: sig,
			Inherits:  symbols.InheritsFrom(rec.TypeRef),
			File:      rec.Path,
		})
	}
	return forest
}
