package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/domain/ignore"
)

// makeRepo builds a temp repository: a .git marker plus the given files
// (paths relative, content irrelevant unless provided).
func makeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func discoverIn(t *testing.T, root string, extras []string) []SourceFile {
	t.Helper()
	sink := diag.New()
	res, err := ignore.NewResolver(root, "MAP.txt", extras, sink)
	require.NoError(t, err)
	files, err := Discover(root, root, res, sink)
	require.NoError(t, err)
	return files
}

func rels(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestDiscover_SkipsHiddenAndIgnored(t *testing.T) {
	root := makeRepo(t, map[string]string{
		"main.go":          "package main\n",
		"lib/util.go":      "package lib\n",
		".hidden":          "",
		".config/x.yaml":   "",
		"build/out.bin":    "",
		".gitignore":       "build/\n",
		"lib/.gitignore":   "*.tmp\n",
		"lib/scratch.tmp":  "",
		"vendor/dep/a.go":  "",
		".mapignore":       "vendor/\n",
		"docs/guide.md":    "# Guide\n",
	})

	files := discoverIn(t, root, nil)
	assert.Equal(t, []string{"docs/guide.md", "lib/util.go", "main.go"}, rels(files))
}

func TestDiscover_ExtrasApplyLast(t *testing.T) {
	root := makeRepo(t, map[string]string{
		"a.go":       "",
		"b.go":       "",
		".gitignore": "b.go\n",
	})

	// Extra negation re-includes what .gitignore excluded.
	files := discoverIn(t, root, []string{"!b.go"})
	assert.Equal(t, []string{"a.go", "b.go"}, rels(files))
}

func TestDiscover_OutputFileAlwaysExcluded(t *testing.T) {
	root := makeRepo(t, map[string]string{
		"MAP.txt":  "stale\n",
		"MAP.txt~": "older\n",
		"main.go":  "",
	})
	files := discoverIn(t, root, nil)
	assert.Equal(t, []string{"main.go"}, rels(files))
}

func TestDiscover_SortedByRelPath(t *testing.T) {
	root := makeRepo(t, map[string]string{
		"z.go":     "",
		"a/b.go":   "",
		"a/a.go":   "",
		"m.go":     "",
	})
	files := discoverIn(t, root, nil)
	assert.Equal(t, []string{"a/a.go", "a/b.go", "m.go", "z.go"}, rels(files))
}

func TestDiscover_UnreadableRootFails(t *testing.T) {
	sink := diag.New()
	res, err := ignore.NewResolver(t.TempDir(), "MAP.txt", nil, sink)
	require.NoError(t, err)
	_, err = Discover(filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir(), res, sink)
	assert.Error(t, err)
}

func TestFindPairs(t *testing.T) {
	files := []SourceFile{
		{Rel: "lib/store.mli"},
		{Rel: "lib/store.ml"},
		{Rel: "lib/lone.ml"},
		{Rel: "other/iface.mli"},
	}
	pairs, suppressed := FindPairs(files)

	assert.Equal(t, map[string]string{"lib/store.mli": "lib/store.ml"}, pairs)
	assert.Equal(t, map[string]bool{"lib/store.ml": true}, suppressed)
	assert.False(t, suppressed["lib/lone.ml"], "unpaired implementation stays standalone")
}

func TestCountLines(t *testing.T) {
	dir := t.TempDir()

	terminated := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(terminated, []byte("one\ntwo\n"), 0o644))
	assert.Equal(t, 2, countLines(terminated))

	unterminated := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(unterminated, []byte("one\ntwo"), 0o644))
	assert.Equal(t, 2, countLines(unterminated))

	empty := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Equal(t, 0, countLines(empty))

	assert.Equal(t, -1, countLines(filepath.Join(dir, "missing")))
}
