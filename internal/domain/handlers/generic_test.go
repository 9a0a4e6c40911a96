package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphantom/repomapper/internal/ports"
)

func TestGeneric_FiltersNoise(t *testing.T) {
	fc := FileContext{Path: "svc.py", Language: "Python"}
	recs := []ports.TagRecord{
		{Name: "Service", Kind: "class", Line: 10, Path: "svc.py"},
		{Name: "run", Kind: "member", Line: 12, Scope: []string{"Service"}, ScopeKind: "class", Path: "svc.py"},
		{Name: "_secret", Kind: "member", Line: 15, Scope: []string{"Service"}, ScopeKind: "class", Access: ports.AccessPrivate, Path: "svc.py"},
		{Name: "os", Kind: "I", Line: 1, Path: "svc.py"},
		{Name: "junk", Kind: "unknown", Line: 3, Path: "svc.py"},
	}

	forest, err := (&GenericHandler{}).BuildSymbols(fc, recs)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	svc := forest[0]
	assert.Equal(t, "Service", svc.Name)
	require.Len(t, svc.Children, 1, "private member and imports filtered")
	assert.Equal(t, "run", svc.Children[0].Name)
}

func TestGeneric_DropsBraceOnlyPatterns(t *testing.T) {
	recs := []ports.TagRecord{
		{Name: "init", Kind: "function", Line: 4, Path: "a.c", Pattern: "{"},
		{Name: "open", Kind: "function", Line: 9, Path: "a.c", Pattern: "int open(void) {", Signature: "(void)"},
	}
	forest, err := (&GenericHandler{}).BuildSymbols(FileContext{Path: "a.c"}, recs)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "open", forest[0].Name)
}

func TestGeneric_CanHandleRequiresExtension(t *testing.T) {
	h := &GenericHandler{}
	assert.True(t, h.CanHandle(FileContext{Path: "main.go"}))
	assert.False(t, h.CanHandle(FileContext{Path: "LICENSE"}))
}
