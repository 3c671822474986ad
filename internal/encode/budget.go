package encode

import (
	"sort"

	"ctx3d/internal/docmodel"
)

// applyBudget keeps at most `limit` cells (0 means unbounded), preferring
// the highest-importance cells, then restores position order and drops
// every dictionary entry no surviving cell references (spec §4.D Stage 3).
func applyBudget(doc *docmodel.Document, limit int) {
	if limit <= 0 || len(doc.Cells) <= limit {
		return
	}
	sort.SliceStable(doc.Cells, func(i, j int) bool {
		a, b := doc.Cells[i], doc.Cells[j]
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		return a.Less(b)
	})
	doc.Cells = doc.Cells[:limit]
	doc.SortCells()
	retainDictForCells(doc)
}

func retainDictForCells(doc *docmodel.Document) {
	keep := make(map[docmodel.Hash]struct{}, len(doc.Cells))
	for _, c := range doc.Cells {
		keep[c.CodeID] = struct{}{}
	}
	doc.Dict.Retain(keep)
}
