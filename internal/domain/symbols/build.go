package symbols

import (
	"sort"
	"strings"

	"github.com/vphantom/repomapper/internal/ports"
)

// Build turns one file's tag records (already sorted by line, emission order
// preserved on ties) into a forest nested by scope path.
//
// For each record the chain of ancestors implied by its scope path is located
// or created. Locating matches by name — and by kind too when the record
// reports its innermost scope's kind — taking the first declaration-order
// match; any mismatch creates a new node rather than guessing. Ancestors
// created before their defining record is seen start as placeholders and are
// upgraded in place when that record arrives.
func Build(recs []ports.TagRecord) []*Node {
	var roots []*Node

	for _, rec := range recs {
		siblings := &roots
		var parent *Node
		var prefix []string

		for i, seg := range rec.Scope {
			wantKind := ""
			if i == len(rec.Scope)-1 {
				wantKind = rec.ScopeKind
			}
			n := findScope(*siblings, seg, wantKind)
			if n == nil {
				n = &Node{
					Name:        seg,
					Kind:        wantKind,
					Line:        rec.Line,
					Scope:       append([]string{}, prefix...),
					File:        rec.Path,
					placeholder: true,
				}
				*siblings = append(*siblings, n)
			}
			prefix = append(prefix, seg)
			parent = n
			siblings = &n.Children
		}

		attach(siblings, parent, rec)
	}

	sortForest(roots)
	return roots
}

// findScope locates an existing ancestor among siblings by exact name, and by
// kind when known. Placeholders match any kind: their kind is not yet known.
func findScope(siblings []*Node, name, kind string) *Node {
	for _, n := range siblings {
		if n.Name != name {
			continue
		}
		if kind == "" || n.placeholder || n.Kind == kind {
			return n
		}
	}
	return nil
}

// attach adds rec as a child of parent (or a root when parent is nil). A
// placeholder with the same name is upgraded in place; an existing node with
// the same name, kind, and signature is a duplicate emission and is dropped.
func attach(siblings *[]*Node, parent *Node, rec ports.TagRecord) {
	for _, n := range *siblings {
		if n.Name != rec.Name {
			continue
		}
		if n.placeholder && (rec.Kind == "" || n.Kind == "" || n.Kind == rec.Kind) {
			n.Kind = rec.Kind
			n.Line = rec.Line
			n.Access = rec.Access
			n.Signature = displayText(rec)
			n.Inherits = InheritsFrom(rec.TypeRef)
			n.File = rec.Path
			n.placeholder = false
			return
		}
		if n.Kind == rec.Kind && n.Signature == displayText(rec) {
			return // duplicate
		}
	}

	node := &Node{
		Name:      rec.Name,
		Kind:      rec.Kind,
		Access:    rec.Access,
		Line:      rec.Line,
		Signature: displayText(rec),
		Inherits:  InheritsFrom(rec.TypeRef),
		Scope:     append([]string{}, rec.Scope...),
		File:      rec.Path,
	}
	if parent != nil {
		// AddChild would recompute Scope identically; append directly to
		// avoid touching parent.Scope twice.
		node.Scope = append(append([]string{}, parent.Scope...), parent.Name)
		parent.Children = append(parent.Children, node)
	} else {
		*siblings = append(*siblings, node)
	}
}

// displayText is the signature text carried into the node: the tool's
// explicit signature when present, its search pattern otherwise.
func displayText(rec ports.TagRecord) string {
	if rec.Signature != "" {
		return rec.Signature
	}
	return rec.Pattern
}

// InheritsFrom extracts the base type name from a typeref field, which the
// tool reports as "typename:Base" (kind prefix, then the referenced type).
func InheritsFrom(typeref string) string {
	if i := strings.LastIndexByte(typeref, ':'); i >= 0 {
		return typeref[i+1:]
	}
	return ""
}

// sortForest enforces the sibling invariant at every level: non-decreasing by
// line, stable so same-line symbols keep emission order.
func sortForest(forest []*Node) {
	sort.SliceStable(forest, func(i, j int) bool { return forest[i].Line < forest[j].Line })
	for _, n := range forest {
		sortForest(n.Children)
	}
}
