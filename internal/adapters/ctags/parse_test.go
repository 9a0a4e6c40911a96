package ctags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/ports"
)

func parse(t *testing.T, input string) ([]ports.TagRecord, *diag.Sink) {
	t.Helper()
	sink := diag.New()
	recs, err := ParseRecords(strings.NewReader(input), sink)
	require.NoError(t, err)
	return recs, sink
}

func TestParseRecords_Basic(t *testing.T) {
	recs, sink := parse(t, `{"_type":"tag","name":"login","path":"auth.py","line":12,"kind":"function","language":"Python","signature":"(user, password)","access":"public"}`)
	require.Len(t, recs, 1)
	assert.Equal(t, "login", recs[0].Name)
	assert.Equal(t, "auth.py", recs[0].Path)
	assert.Equal(t, 12, recs[0].Line)
	assert.Equal(t, ports.AccessPublic, recs[0].Access)
	assert.Equal(t, 0, sink.Len())
}

func TestParseRecords_MissingNameDropped(t *testing.T) {
	recs, sink := parse(t, `{"_type":"tag","path":"a.py","line":1,"kind":"function"}`)
	assert.Empty(t, recs)
	assert.Equal(t, 1, sink.Len())
}

func TestParseRecords_ZeroLineClampedNotDropped(t *testing.T) {
	recs, sink := parse(t, `{"_type":"tag","name":"x","path":"a.py","line":0,"kind":"variable"}`)
	require.Len(t, recs, 1)
	assert.Equal(t, 1, recs[0].Line)
	assert.Equal(t, 1, sink.Len())
}

func TestParseRecords_NegativeLineClamped(t *testing.T) {
	recs, _ := parse(t, `{"_type":"tag","name":"x","path":"a.py","line":-5,"kind":"variable"}`)
	require.Len(t, recs, 1)
	assert.Equal(t, 1, recs[0].Line)
}

func TestParseRecords_UnparseableLineDropped(t *testing.T) {
	recs, sink := parse(t, "not json at all\n"+`{"_type":"tag","name":"ok","path":"a.py","line":3}`)
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].Name)
	assert.Equal(t, 1, sink.Len())
}

func TestParseRecords_PtagLinesSkipped(t *testing.T) {
	recs, sink := parse(t, `{"_type":"ptag","name":"JSON_OUTPUT_VERSION","path":"","pattern":"1.0"}`)
	assert.Empty(t, recs)
	assert.Equal(t, 0, sink.Len(), "metadata lines are not diagnostics")
}

func TestParseRecords_PatternFramingStripped(t *testing.T) {
	recs, _ := parse(t, `{"_type":"tag","name":"f","path":"a.sh","line":2,"pattern":"/^f() {$/"}`)
	require.Len(t, recs, 1)
	assert.Equal(t, "f() {", recs[0].Pattern)
}

func TestSplitScope(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Outer", []string{"Outer"}},
		{"Outer.Inner", []string{"Outer", "Inner"}},
		{"Outer::Inner", []string{"Outer", "Inner"}},
		{"module:Top.Sub", []string{"Top", "Sub"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitScope(tt.in), "scope %q", tt.in)
	}
}

func TestGroupByFile_SortsByLineKeepsTieOrder(t *testing.T) {
	recs := []ports.TagRecord{
		{Name: "b", Path: "a.py", Line: 5},
		{Name: "first", Path: "a.py", Line: 2},
		{Name: "tie1", Path: "a.py", Line: 3},
		{Name: "tie2", Path: "a.py", Line: 3},
		{Name: "other", Path: "b.py", Line: 1},
	}
	groups := GroupByFile(recs)
	require.Len(t, groups, 2)

	names := make([]string, 0, 4)
	for _, r := range groups["a.py"] {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"first", "tie1", "tie2", "b"}, names)
}
