package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphantom/repomapper/internal/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Roundtrip(t *testing.T) {
	s := newTestStore(t)

	recs := []ports.TagRecord{
		{Name: "Server", Kind: "class", Path: "srv.py", Line: 10},
		{Name: "start", Kind: "member", Path: "srv.py", Line: 12, Scope: []string{"Server"}, ScopeKind: "class"},
	}
	require.NoError(t, s.SaveRecords("srv.py", "abc123", recs))

	got, ok, err := s.LoadRecords("srv.py", "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, recs, got)
}

func TestStore_HashMismatchIsMiss(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveRecords("a.go", "old", []ports.TagRecord{{Name: "x", Path: "a.go", Line: 1}}))

	_, ok, err := s.LoadRecords("a.go", "new")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_AbsentEntryIsMiss(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.LoadRecords("never-saved.go", "h")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_EmptyRecordsRoundtrip(t *testing.T) {
	// A file with no symbols is a valid cache entry — it must hit, not miss,
	// or symbol-free files would be re-tagged on every run.
	s := newTestStore(t)
	require.NoError(t, s.SaveRecords("empty.txt", "h1", nil))

	got, ok, err := s.LoadRecords("empty.txt", "h1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestStore_OverwriteReplacesEntry(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveRecords("f.py", "h1", []ports.TagRecord{{Name: "old", Path: "f.py", Line: 1}}))
	require.NoError(t, s.SaveRecords("f.py", "h2", []ports.TagRecord{{Name: "new", Path: "f.py", Line: 2}}))

	_, ok, err := s.LoadRecords("f.py", "h1")
	require.NoError(t, err)
	assert.False(t, ok, "old hash no longer matches")

	got, ok, err := s.LoadRecords("f.py", "h2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got[0].Name)
}
