package handlers

import (
	"path/filepath"
	"strings"

	"github.com/vphantom/repomapper/internal/domain/symbols"
	"github.com/vphantom/repomapper/internal/ports"
)

// GenericHandler builds the tree purely from scope paths in the tag records.
// It is the fallback for every language the tagging tool supports and no
// specific handler claims.
type GenericHandler struct{}

func (h *GenericHandler) Name() string { return "generic" }

// CanHandle accepts any file with an extension. Extensionless files are left
// to specific handlers (the shell handler recognizes some by name).
func (h *GenericHandler) CanHandle(fc FileContext) bool {
	return filepath.Ext(fc.Path) != ""
}

// BuildSymbols filters noise records and nests the rest by scope path.
func (h *GenericHandler) BuildSymbols(fc FileContext, recs []ports.TagRecord) ([]*symbols.Node, error) {
	kept := make([]ports.TagRecord, 0, len(recs))
	for _, rec := range recs {
		if !keepGeneric(rec) {
			continue
		}
		kept = append(kept, rec)
	}
	return symbols.Build(kept), nil
}

// keepGeneric drops symbols that add noise to the map: private and protected
// members, import records, and tag patterns that are just an opening brace.
func keepGeneric(rec ports.TagRecord) bool {
	if rec.Access == ports.AccessPrivate || rec.Access == ports.AccessProtected {
		return false
	}
	switch rec.Kind {
	case "I", "x", "unknown":
		return false
	}
	if strings.HasSuffix(strings.TrimSpace(rec.Pattern), "{") && rec.Signature == "" {
		return false
	}
	return true
}
