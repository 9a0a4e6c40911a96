// Package ctags implements the ports.Tagger interface on top of
// universal-ctags. The subprocess emits one JSON object per line
// (--output-format=json); ParseRecords is the validating boundary between
// that loose format and the strictly-typed ports.TagRecord the rest of the
// pipeline consumes.
package ctags

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/vphantom/repomapper/internal/diag"
	"github.com/vphantom/repomapper/internal/ports"
)

// rawTag mirrors one ctags JSON line. Line is a json.Number so a malformed
// value degrades to a clamped record instead of rejecting the whole line.
type rawTag struct {
	Type      string      `json:"_type"`
	Name      string      `json:"name"`
	Path      string      `json:"path"`
	Pattern   string      `json:"pattern"`
	Line      json.Number `json:"line"`
	Kind      string      `json:"kind"`
	Scope     string      `json:"scope"`
	ScopeKind string      `json:"scopeKind"`
	Access    string      `json:"access"`
	Language  string      `json:"language"`
	Signature string      `json:"signature"`
	Roles     string      `json:"roles"`
	TypeRef   string      `json:"typeref"`
}

// ParseRecords parses ctags JSON-lines output. Defensive per record: a line
// that isn't valid JSON, or a record missing name or path, is dropped with a
// diagnostic; a missing, zero, or negative line number is clamped to 1 and
// flagged. The run never aborts over a bad record.
func ParseRecords(r io.Reader, sink *diag.Sink) ([]ports.TagRecord, error) {
	var recs []ports.TagRecord

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var raw rawTag
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			sink.Warnf("ctags", "", "dropping unparseable record: %v", err)
			continue
		}
		if raw.Type != "" && raw.Type != "tag" {
			continue // ptag and other metadata lines
		}
		if raw.Name == "" || raw.Path == "" {
			sink.Warnf("ctags", raw.Path, "dropping record missing name or path")
			continue
		}

		rec := ports.TagRecord{
			Name:      raw.Name,
			Kind:      raw.Kind,
			Path:      raw.Path,
			Line:      parseLine(raw, sink),
			Scope:     splitScope(raw.Scope),
			ScopeKind: raw.ScopeKind,
			Access:    parseAccess(raw.Access),
			Language:  raw.Language,
			Signature: raw.Signature,
			Pattern:   strings.Trim(raw.Pattern, "/^$"),
			TypeRef:   raw.TypeRef,
		}
		if raw.Roles == "imported" {
			rec.Kind = "I" // normalized import marker, filtered by handlers
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return recs, err
	}
	return recs, nil
}

// GroupByFile groups records by path, each group sorted ascending by line
// with emission order preserved on ties.
func GroupByFile(recs []ports.TagRecord) map[string][]ports.TagRecord {
	groups := make(map[string][]ports.TagRecord)
	for _, rec := range recs {
		groups[rec.Path] = append(groups[rec.Path], rec)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Line < group[j].Line })
	}
	return groups
}

func parseLine(raw rawTag, sink *diag.Sink) int {
	n, err := raw.Line.Int64()
	if err != nil || n < 1 {
		if raw.Line != "" {
			sink.Warnf("ctags", raw.Path, "clamping line %q to 1 for %s", raw.Line.String(), raw.Name)
		}
		return 1
	}
	return int(n)
}

func parseAccess(s string) ports.Access {
	switch s {
	case "public":
		return ports.AccessPublic
	case "protected":
		return ports.AccessProtected
	case "private":
		return ports.AccessPrivate
	}
	return ports.AccessUnknown
}

// splitScope normalizes ctags scope strings into an ordered path. Scopes
// arrive dotted ("Outer.Inner"), double-colon separated for C-family
// languages, or prefixed with a kind ("module:Top.Sub").
func splitScope(scope string) []string {
	if scope == "" {
		return nil
	}
	scope = strings.ReplaceAll(scope, "::", ".")
	if i := strings.IndexByte(scope, ':'); i >= 0 && !strings.Contains(scope[:i], ".") {
		scope = scope[i+1:]
	}
	parts := strings.Split(scope, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
