package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, content string) FileContext {
	t.Helper()
	abs := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	return FileContext{Path: "doc.md", Abs: abs}
}

func TestMarkdown_SimpleHierarchy(t *testing.T) {
	fc := writeDoc(t, "# Title\n\nintro\n\n## Install\n\n## Usage\n\n### Flags\n")
	forest, err := (&MarkdownHandler{}).BuildSymbols(fc, nil)
	require.NoError(t, err)

	require.Len(t, forest, 1)
	assert.Equal(t, "Title", forest[0].Name)
	assert.Equal(t, 1, forest[0].Line)
	require.Len(t, forest[0].Children, 2)
	assert.Equal(t, "Install", forest[0].Children[0].Name)
	usage := forest[0].Children[1]
	require.Len(t, usage.Children, 1)
	assert.Equal(t, "Flags", usage.Children[0].Name)
}

func TestMarkdown_SkippedLevelNestsAtNearestAncestor(t *testing.T) {
	// Levels 1, 3, 2: the h3 nests under the h1 (nearest valid ancestor)
	// and the h2 becomes its sibling under the h1, never an error.
	fc := writeDoc(t, "# One\n\n### Three\n\n## Two\n")
	forest, err := (&MarkdownHandler{}).BuildSymbols(fc, nil)
	require.NoError(t, err)

	require.Len(t, forest, 1)
	one := forest[0]
	require.Len(t, one.Children, 2)
	assert.Equal(t, "Three", one.Children[0].Name)
	assert.Equal(t, "Two", one.Children[1].Name)
	assert.Empty(t, one.Children[0].Children)
}

func TestMarkdown_LeadingSubheadingsAreRoots(t *testing.T) {
	fc := writeDoc(t, "## Orphan\n\n# Main\n")
	forest, err := (&MarkdownHandler{}).BuildSymbols(fc, nil)
	require.NoError(t, err)

	require.Len(t, forest, 2)
	assert.Equal(t, "Orphan", forest[0].Name)
	assert.Equal(t, "Main", forest[1].Name)
}

func TestMarkdown_HeadingLines(t *testing.T) {
	fc := writeDoc(t, "text\n\n# First\n\nmore\n\n## Second\n")
	forest, err := (&MarkdownHandler{}).BuildSymbols(fc, nil)
	require.NoError(t, err)

	require.Len(t, forest, 1)
	assert.Equal(t, 3, forest[0].Line)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, 7, forest[0].Children[0].Line)
}

func TestMarkdown_CanHandle(t *testing.T) {
	h := &MarkdownHandler{}
	assert.True(t, h.CanHandle(FileContext{Path: "README.md"}))
	assert.True(t, h.CanHandle(FileContext{Path: "notes.markdown"}))
	assert.False(t, h.CanHandle(FileContext{Path: "main.go"}))
}

func TestMarkdown_MissingFileErrors(t *testing.T) {
	_, err := (&MarkdownHandler{}).BuildSymbols(FileContext{Path: "gone.md", Abs: "/nonexistent/gone.md"}, nil)
	assert.Error(t, err)
}
