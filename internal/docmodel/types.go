// Package docmodel implements the 3DCF Document: a content-addressed
// dictionary of payloads plus a positional cell stream (spec §3).
package docmodel

import (
	"fmt"
	"sort"
)

// CellType classifies a cell's role on the page.
type CellType uint8

const (
	Text CellType = iota
	Table
	Figure
	Footer
	Header
)

func (t CellType) String() string {
	switch t {
	case Text:
		return "TEXT"
	case Table:
		return "TABLE"
	case Figure:
		return "FIGURE"
	case Footer:
		return "FOOTER"
	case Header:
		return "HEADER"
	default:
		return "TEXT"
	}
}

// ParseCellType maps an upper-case type name back to a CellType.
func ParseCellType(s string) (CellType, bool) {
	switch s {
	case "TEXT":
		return Text, true
	case "TABLE":
		return Table, true
	case "FIGURE":
		return Figure, true
	case "FOOTER":
		return Footer, true
	case "HEADER":
		return Header, true
	default:
		return Text, false
	}
}

// Hash is the 32-byte content hash that keys the payload dictionary
// (code_id in spec §3/§6).
type Hash [32]byte

func (h Hash) String() string { return fmt.Sprintf("%x", [32]byte(h)) }

// ShortHex returns the first n hex characters of the hash, used by the text
// serializer's "code=" field.
func (h Hash) ShortHex(n int) string {
	s := h.String()
	if n >= len(s) {
		return s
	}
	return s[:n]
}

// Cell is a single positional unit (spec §3).
type Cell struct {
	Z          int32
	X, Y       int32
	W, H       uint32
	CodeID     Hash
	RLE        uint32
	CellType   CellType
	Importance uint8
}

// Less implements the (z, y, x) ordering key cells must be sorted by.
func (c Cell) Less(other Cell) bool {
	if c.Z != other.Z {
		return c.Z < other.Z
	}
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// PageInfo describes one page's layout dimensions (spec §3).
type PageInfo struct {
	Z               uint32
	WidthPx, HeightPx uint32
}

// NumGuard is a compact fingerprint of a numeric token captured at encode
// time (spec §3/§4.B).
type NumGuard struct {
	Z, X, Y int32
	Units   string
	SHA1    [20]byte
}

// Document is the content-addressed dictionary of payloads plus the
// positional cell stream (spec §3).
type Document struct {
	Version  uint32
	Grid     string
	Codeset  string
	Pages    []PageInfo
	Cells    []Cell
	Dict     *Dictionary
	NumGuards []NumGuard
}

// New returns an empty Document ready to be populated by the Encoder.
func New(grid, codeset string) *Document {
	return &Document{
		Version: 1,
		Grid:    grid,
		Codeset: codeset,
		Dict:    NewDictionary(),
	}
}

// SortCells sorts the cell stream by the (z, y, x) ordering key in place.
// Stable so ties keep their insertion order (important for reproducing the
// teacher's page-order-then-line-order dictionary-insertion guarantee).
func (d *Document) SortCells() {
	sort.SliceStable(d.Cells, func(i, j int) bool {
		return d.Cells[i].Less(d.Cells[j])
	})
}
