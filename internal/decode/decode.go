// Package decode turns a Document back into plain text: the whole
// document, a single page, or an arbitrary bounding box (spec §4.C
// decode operations).
package decode

import (
	"sort"
	"strings"

	"ctx3d/internal/docmodel"
)

// ToText joins every cell's payload, in (z,y,x) order, one per line.
func ToText(doc *docmodel.Document) string {
	ordered := make([]docmodel.Cell, len(doc.Cells))
	copy(ordered, doc.Cells)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })
	return cellsToText(doc, ordered)
}

// PageToText joins the payloads of every cell on page z, ordered by
// (y,x).
func PageToText(doc *docmodel.Document, z int32) string {
	var pageCells []docmodel.Cell
	for _, c := range doc.Cells {
		if c.Z == z {
			pageCells = append(pageCells, c)
		}
	}
	sort.SliceStable(pageCells, func(i, j int) bool {
		if pageCells[i].Y != pageCells[j].Y {
			return pageCells[i].Y < pageCells[j].Y
		}
		return pageCells[i].X < pageCells[j].X
	})
	return cellsToText(doc, pageCells)
}

// BboxToText joins the payloads of every cell on page z whose top-left
// corner falls within the (possibly inverted) [x0,y0]-[x1,y1] box.
func BboxToText(doc *docmodel.Document, z, x0, y0, x1, y1 int32) string {
	return cellsToText(doc, CellsInBBox(doc, z, x0, y0, x1, y1))
}

// CellsInBBox returns every cell on page z whose (x,y) falls within the
// box, ordered by (y,x).
func CellsInBBox(doc *docmodel.Document, z, x0, y0, x1, y1 int32) []docmodel.Cell {
	minX, maxX := x0, x1
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := y0, y1
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	var matches []docmodel.Cell
	for _, c := range doc.Cells {
		if c.Z != z {
			continue
		}
		if c.X < minX || c.X > maxX || c.Y < minY || c.Y > maxY {
			continue
		}
		matches = append(matches, c)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Y != matches[j].Y {
			return matches[i].Y < matches[j].Y
		}
		return matches[i].X < matches[j].X
	})
	return matches
}

func cellsToText(doc *docmodel.Document, cells []docmodel.Cell) string {
	lines := make([]string, 0, len(cells))
	for _, c := range cells {
		if payload, ok := doc.Dict.Get(c.CodeID); ok {
			lines = append(lines, payload)
		}
	}
	return strings.Join(lines, "\n")
}
