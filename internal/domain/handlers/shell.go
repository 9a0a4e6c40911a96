package handlers

import (
	"path/filepath"
	"strings"

	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// ShellHandler lists function definitions from shell scripts. Shell has no
// nesting worth mapping, so the forest is flat, and ctags is noisy on shell:
// only records whose pattern actually looks like a function definition are
// kept (assignments sometimes come through tagged as functions).
type ShellHandler struct{}

func (h *ShellHandler) Name() string { return "shell" }

func (h *ShellHandler) CanHandle(fc FileContext) bool {
	switch filepath.Ext(fc.Path) {
	case ".sh", ".bash", ".zsh":
		return true
	case "":
		name := filepath.Base(fc.Path)
		return strings.HasSuffix(name, "sh") || strings.HasSuffix(name, "bash")
	}
	return false
}

func (h *ShellHandler) BuildSymbols(fc FileContext, recs []ports.TagRecord) ([]*symbols.Node, error) {
	var forest []*symbols.Node
	for _, rec := range recs {
		if rec.Kind != "function" || !looksLikeShellFunction(rec.Pattern) {
			continue
		}
		sig := rec.Signature
		if sig == "" {
			sig = rec.Pattern
		}
		forest = append(forest, &symbols.Node{
			Name:      rec.Name,
			Kind:      rec.Kind,
			Line:      rec.Line,
			Signature: sig,
			File:      rec.Path,
		})
	}
	return forest, nil
}

func looksLikeShellFunction(pattern string) bool {
	p := strings.TrimSpace(pattern)
	return strings.Contains(p, "function ") || strings.HasSuffix(p, "() {") || strings.HasSuffix(p, "()")
}
