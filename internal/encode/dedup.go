package encode

import "ctx3d/internal/docmodel"

// applyPostFilters drops footer cells (if configured) and collapses
// duplicate payloads that recur within dedupWindow pages of an earlier
// occurrence of the same code_id, then restores position order and prunes
// the dictionary (spec §4.D Stage 3).
func applyPostFilters(doc *docmodel.Document, dropFooters bool, dedupWindowPages uint32) {
	if dropFooters {
		kept := doc.Cells[:0]
		for _, c := range doc.Cells {
			if c.CellType != docmodel.Footer {
				kept = append(kept, c)
			}
		}
		doc.Cells = kept
	}

	if dedupWindowPages > 0 {
		window := int32(dedupWindowPages)
		seen := make(map[docmodel.Hash][]int32)
		kept := make([]docmodel.Cell, 0, len(doc.Cells))
		for _, c := range doc.Cells {
			dup := false
			for _, priorZ := range seen[c.CodeID] {
				if absDiff32(c.Z, priorZ) <= window {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			seen[c.CodeID] = append(seen[c.CodeID], c.Z)
			kept = append(kept, c)
		}
		doc.Cells = kept
	}

	doc.SortCells()
	retainDictForCells(doc)
}

func absDiff32(a, b int32) int32 {
	if a > b {
		return a - b
	}
	return b - a
}
