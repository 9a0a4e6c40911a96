package handlers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// MarkdownHandler derives hierarchy from heading levels instead of tag scope
// paths. The document is parsed with goldmark; headings nest under the
// nearest ancestor with a lower level, so a skipped level (h1 then h3) nests
// at the closest valid ancestor and a later retreat (h2) becomes a sibling —
// out-of-order headings are never an error.
type MarkdownHandler struct{}

func (h *MarkdownHandler) Name() string { return "markdown" }

func (h *MarkdownHandler) CanHandle(fc FileContext) bool {
	switch strings.ToLower(filepath.Ext(fc.Path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// BuildSymbols reads the document itself; tag records for markdown files are
// ignored in favor of the heading structure.
func (h *MarkdownHandler) BuildSymbols(fc FileContext, _ []ports.TagRecord) ([]*symbols.Node, error) {
	src, err := os.ReadFile(fc.Abs)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type stackEntry struct {
		node  *symbols.Node
		level int
	}
	var roots []*symbols.Node
	var stack []stackEntry

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		title := string(heading.Text(src))
		node := &symbols.Node{
			Name: title,
			Kind: "header",
			Line: headingLine(heading, src),
			File: fc.Path,
		}

		// Pop until the top of the stack is a valid ancestor.
		for len(stack) > 0 && stack[len(stack)-1].level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			stack[len(stack)-1].node.AddChild(node)
		}
		stack = append(stack, stackEntry{node: node, level: heading.Level})
	}

	return roots, nil
}

// headingLine converts a heading's source segment to a 1-based line number.
func headingLine(h *ast.Heading, src []byte) int {
	if h.Lines().Len() == 0 {
		return 1
	}
	start := h.Lines().At(0).Start
	if start > len(src) {
		start = len(src)
	}
	return 1 + bytes.Count(src[:start], []byte("\n"))
}
