// Package symbols defines the hierarchical symbol model and the shared tree
// builder that handlers use to nest flat tag records by scope path.
package symbols

import "github.com/vphantom/repomapper/internal/ports"

// Provenance records where a symbol came from when a language splits
// declarations across paired files (interface vs implementation). Zero means
// the distinction doesn't apply (single-file languages).
type Provenance uint8

const (
	ProvenanceNone        Provenance = 0
	ProvenanceDeclared    Provenance = 1 << iota // present in the interface file
	ProvenanceImplemented                        // present in the implementation file
)

// Declared reports whether the symbol appears in the interface file.
func (p Provenance) Declared() bool { return p&ProvenanceDeclared != 0 }

// Implemented reports whether the symbol appears in the implementation file.
func (p Provenance) Implemented() bool { return p&ProvenanceImplemented != 0 }

// Node is one symbol in a file's forest. Children are kept in source order:
// non-decreasing by line, emission order on ties. A node's children all have
// scope paths equal to the node's own scope path plus its name.
type Node struct {
	Name      string
	Kind      string
	Access    ports.Access
	Line      int
	Signature string
	Inherits  string   // base type extracted from the record's typeref
	Scope     []string // enclosing scope names, outermost first
	File      string   // owning file, relative to the run root

	Provenance Provenance
	Children   []*Node

	// placeholder marks a node synthesized from a scope path before (or
	// without) seeing the record that defines it. A later matching record
	// upgrades the node in place.
	placeholder bool
}

// AddChild appends child and fixes up its scope path to maintain the nesting
// invariant.
func (n *Node) AddChild(child *Node) {
	child.Scope = append(append([]string{}, n.Scope...), n.Name)
	n.Children = append(n.Children, child)
}

// Count returns the number of symbols in the forest, placeholders included.
func Count(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.Children)
	}
	return total
}
