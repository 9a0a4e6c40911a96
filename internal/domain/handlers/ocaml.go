package handlers

import (
	"path/filepath"
	"strings"

	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// OCamlHandler handles the interface/implementation file pair: an .mli
// declares a module's surface and its .ml defines it. Both files are merged
// into one logical entry, matching symbols on (name, scope path, kind class).
// A symbol declared but unimplemented keeps an interface-only flag; one
// implemented without a declaration is included and flagged
// implementation-only. The pairing itself (same base name, same directory)
// is discovered upstream and arrives via FileContext.PairedPath.
type OCamlHandler struct{}

func (h *OCamlHandler) Name() string { return "ocaml" }

func (h *OCamlHandler) CanHandle(fc FileContext) bool {
	switch filepath.Ext(fc.Path) {
	case ".ml", ".mli":
		return true
	}
	return false
}

// BuildSymbols splits the combined records by file, builds each side's
// forest, and merges exactly once. An unpaired file comes through as a plain
// single-file forest with no provenance flags.
func (h *OCamlHandler) BuildSymbols(fc FileContext, recs []ports.TagRecord) ([]*symbols.Node, error) {
	if fc.PairedPath == "" {
		return symbols.Build(filterOCaml(recs, fc.Path)), nil
	}

	iface := symbols.Build(filterOCaml(recs, fc.Path))
	impl := symbols.Build(filterOCaml(recs, fc.PairedPath))

	markProvenance(iface, symbols.ProvenanceDeclared)
	markProvenance(impl, symbols.ProvenanceImplemented)
	return mergeForests(iface, impl), nil
}

// filterOCaml keeps the records for one file of the pair and drops
// implementation noise the tagging tool reports on OCaml sources.
func filterOCaml(recs []ports.TagRecord, path string) []ports.TagRecord {
	var kept []ports.TagRecord
	for _, rec := range recs {
		if rec.Path != path {
			continue
		}
		p := strings.TrimSpace(rec.Pattern)
		if strings.HasPrefix(p, "(**") || strings.HasSuffix(p, "= {") {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func markProvenance(forest []*symbols.Node, p symbols.Provenance) {
	for _, n := range forest {
		n.Provenance = p
		markProvenance(n.Children, p)
	}
}

// mergeForests combines the interface and implementation forests. Interface
// order wins for matched symbols; implementation-only symbols append after,
// keeping their own source order.
func mergeForests(iface, impl []*symbols.Node) []*symbols.Node {
	merged := make([]*symbols.Node, 0, len(iface)+len(impl))
	claimed := make(map[*symbols.Node]bool)

	for _, decl := range iface {
		if def := findMatch(impl, decl, claimed); def != nil {
			claimed[def] = true
			decl.Provenance |= symbols.ProvenanceImplemented
			if decl.Signature == "" {
				decl.Signature = def.Signature
			}
			decl.Children = mergeForests(decl.Children, def.Children)
		}
		merged = append(merged, decl)
	}
	for _, def := range impl {
		if !claimed[def] {
			merged = append(merged, def)
		}
	}
	return merged
}

// findMatch locates the unclaimed implementation node matching a declaration
// by name and kind class. Scope paths already agree: both nodes sit at the
// same depth of forests built from the same module structure.
func findMatch(impl []*symbols.Node, decl *symbols.Node, claimed map[*symbols.Node]bool) *symbols.Node {
	for _, def := range impl {
		if claimed[def] || def.Name != decl.Name {
			continue
		}
		if kindClass(def.Kind) == kindClass(decl.Kind) {
			return def
		}
	}
	return nil
}

// kindClass folds interface and implementation kind names together: an .mli
// "val" corresponds to an .ml "function" or "var".
func kindClass(kind string) string {
	switch kind {
	case "val", "function", "var", "f", "v":
		return "value"
	case "type", "t":
		return "type"
	case "module", "m":
		return "module"
	case "exception", "Exception":
		return "exception"
	}
	return kind
}
