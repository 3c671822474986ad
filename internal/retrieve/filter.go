package retrieve

import (
	"fmt"
	"strconv"
	"strings"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/docmodel"
)

// FilterPredicate narrows a search to rows matching every configured
// clause (spec §4.I: "Filter predicate (parsed from key=value,…)").
type FilterPredicate struct {
	DocIDs        map[string]struct{}
	CellTypes     map[docmodel.CellType]struct{}
	MinImportance *float32
}

// ParseFilters parses a comma-separated "key=value,…" expression into a
// FilterPredicate. Recognized keys: doc_id, type, min_importance.
func ParseFilters(expr string) (FilterPredicate, error) {
	pred := FilterPredicate{
		DocIDs:    make(map[string]struct{}),
		CellTypes: make(map[docmodel.CellType]struct{}),
	}
	for _, raw := range strings.Split(expr, ",") {
		part := strings.TrimSpace(raw)
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "doc_id="):
			pred.DocIDs[strings.TrimSpace(strings.TrimPrefix(part, "doc_id="))] = struct{}{}
		case strings.HasPrefix(part, "type="):
			value := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(part, "type=")))
			ct, ok := docmodel.ParseCellType(value)
			if !ok {
				return FilterPredicate{}, ctxerr.Newf(ctxerr.KindConfiguration,
					"unknown cell type %q in filter (valid: TEXT|TABLE|FIGURE|FOOTER|HEADER)", value)
			}
			pred.CellTypes[ct] = struct{}{}
		case strings.HasPrefix(part, "min_importance="):
			raw := strings.TrimSpace(strings.TrimPrefix(part, "min_importance="))
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return FilterPredicate{}, ctxerr.Wrapf(ctxerr.KindConfiguration, err, "parse min_importance %q", raw)
			}
			threshold := clamp01(float32(v) / 255.0)
			pred.MinImportance = &threshold
		default:
			return FilterPredicate{}, ctxerr.Newf(ctxerr.KindConfiguration,
				"unrecognized filter %q. Use doc_id=..., type=..., min_importance=...", part)
		}
	}
	return pred, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Matches reports whether a cell satisfies every configured clause. docID
// identifies the owning document (spec's doc_id=); importanceMean is the
// cell's own importance scaled to [0,1].
func (p FilterPredicate) Matches(docID string, cellType docmodel.CellType, importanceMean float32) bool {
	if len(p.DocIDs) > 0 {
		if _, ok := p.DocIDs[docID]; !ok {
			return false
		}
	}
	if len(p.CellTypes) > 0 {
		if _, ok := p.CellTypes[cellType]; !ok {
			return false
		}
	}
	if p.MinImportance != nil && importanceMean < *p.MinImportance {
		return false
	}
	return true
}

func (p FilterPredicate) String() string {
	var parts []string
	for id := range p.DocIDs {
		parts = append(parts, fmt.Sprintf("doc_id=%s", id))
	}
	for ct := range p.CellTypes {
		parts = append(parts, fmt.Sprintf("type=%s", ct))
	}
	if p.MinImportance != nil {
		parts = append(parts, fmt.Sprintf("min_importance=%d", int(*p.MinImportance*255)))
	}
	return strings.Join(parts, ",")
}
