// Package mapdoc assembles the final map document and renders it to text.
// Rendering is deterministic: identical input produces byte-identical output,
// so a regenerated map diffs cleanly.
package mapdoc

import (
	"sort"
	"strings"

	"github.com/vphantom/repomapper/internal/domain/symbols"
)

// FileEntry is one file section of the map. For paired-file languages the
// forest merges both files' symbols and PairedPath names the companion.
type FileEntry struct {
	Path       string // relative to the run root, slash-separated
	Language   string
	Handler    string // handler that built the forest, empty if none claimed it
	LineCount  int    // -1 when the file couldn't be read
	PairedPath string
	Forest     []*symbols.Node
}

// Document is the assembled map: every in-scope file, including files with
// empty forests, so the map reflects full file coverage.
type Document struct {
	Root    string
	Entries []*FileEntry
}

// Sort orders entries in directory-tree traversal order: at each level,
// subdirectory contents before the level's own files, byte-wise alphabetical
// within each group. The ordering is part of the output contract.
func (d *Document) Sort() {
	sort.Slice(d.Entries, func(i, j int) bool {
		return pathLess(d.Entries[i].Path, d.Entries[j].Path)
	})
}

func pathLess(a, b string) bool {
	as, bs := strings.Split(a, "/"), strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		aLeaf, bLeaf := i == len(as)-1, i == len(bs)-1
		if aLeaf != bLeaf {
			return bLeaf // the one still inside a directory sorts first
		}
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
