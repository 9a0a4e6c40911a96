package mapdoc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// header precedes every map. No timestamps: regeneration on an unchanged
// tree must be byte-identical.
const header = `# This file was automatically generated. Do not edit manually.
# See: https://github.com/vphantom/repomapper
#
# Each section describes a file; each symbol line begins with (line_number).`

// Render serializes the document. Each file section lists its forest
// depth-first with two-space indentation per nesting level. Empty-forest
// files are still listed so the map reflects full file coverage.
func Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)

	for _, e := range doc.Entries {
		fmt.Fprintf(bw, "\n%s:\n", e.Path)
		if e.PairedPath != "" {
			fmt.Fprintf(bw, "  Implementation: %s\n", e.PairedPath)
		}
		if e.LineCount >= 0 {
			fmt.Fprintf(bw, "  Size: %d lines\n", e.LineCount)
		}
		for _, n := range e.Forest {
			writeNode(bw, n, 1)
		}
	}
	return bw.Flush()
}

// writeNode writes one symbol line and recurses into children.
//
//	(12) class Foo: Foo(Base)
//	  (14) method login: login(self, user) [private] [interface-only]
func writeNode(w *bufio.Writer, n *symbols.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	line := fmt.Sprintf("%s(%d)", indent, n.Line)
	if n.Kind != "" {
		line += " " + n.Kind
	}
	line += " " + n.Name
	if desc := describe(n); desc != "" {
		line += ": " + desc
	}
	if n.Access != ports.AccessUnknown {
		line += fmt.Sprintf(" [%s]", n.Access)
	}
	if flag := provenanceFlag(n.Provenance); flag != "" {
		line += " " + flag
	}
	fmt.Fprintln(w, line)

	for _, child := range n.Children {
		writeNode(w, child, depth+1)
	}
}

// describe cleans the signature text for display: trailing comments go, a
// leading "name:" repetition of the symbol's own name is dropped, and base
// types are appended as an "inherits from" suffix.
func describe(n *symbols.Node) string {
	desc := strings.TrimSpace(n.Signature)
	// Comment markers only count after whitespace, or "https://..." would be
	// cut at the scheme.
	if i := strings.Index(desc, " //"); i > 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	if i := strings.Index(desc, "  #"); i > 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	desc = strings.TrimSpace(strings.TrimPrefix(desc, n.Name+":"))
	if desc == n.Name {
		desc = ""
	}
	if n.Inherits != "" {
		if desc == "" {
			desc = "inherits from " + n.Inherits
		} else {
			desc += " inherits from " + n.Inherits
		}
	}
	return desc
}

func provenanceFlag(p symbols.Provenance) string {
	switch {
	case p.Declared() && !p.Implemented():
		return "[interface-only]"
	case p.Implemented() && !p.Declared() && p != symbols.ProvenanceNone:
		return "[implementation-only]"
	}
	return ""
}
